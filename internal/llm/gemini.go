package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

const transcribePrompt = "Transcribe this audio verbatim. Return only the spoken words."

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient takes the API key explicitly; nothing is read from the
// process environment here.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

func contentFromParts(parts []Part) *genai.Content {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Media != nil {
			out = append(out, genai.NewPartFromBytes(p.Media.Data, p.Media.MIMEType))
			continue
		}
		out = append(out, genai.NewPartFromText(p.Text))
	}
	return genai.NewContentFromParts(out, genai.RoleUser)
}

// CallFunction forces the model to answer with a call to req.Function and
// returns the call arguments as JSON.
func (g *GeminiClient) CallFunction(ctx context.Context, req Request) (json.RawMessage, error) {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        req.Function.Name,
				Description: req.Function.Description,
				Parameters:  req.Function.Parameters,
			}},
		}},
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingConfigModeAny,
				AllowedFunctionNames: []string{req.Function.Name},
			},
		},
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, []*genai.Content{contentFromParts(req.Parts)}, cfg)
	if err != nil {
		return nil, err
	}
	for _, call := range resp.FunctionCalls() {
		if call == nil || call.Name != req.Function.Name {
			continue
		}
		raw, err := json.Marshal(call.Args)
		if err != nil {
			return nil, fmt.Errorf("llm: encode function args: %w", err)
		}
		return raw, nil
	}
	return nil, ErrNoFunctionCall
}

func (g *GeminiClient) Transcribe(ctx context.Context, media Media) (string, error) {
	content := contentFromParts([]Part{TextPart(transcribePrompt), {Media: &media}})
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, []*genai.Content{content}, nil)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
