// Package extract fills a model.Template from text, images or audio using a
// multimodal model forced into a single function call.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"rfemassist/internal/llm"
	"rfemassist/internal/model"
)

var (
	ErrNoStructuredResponse = errors.New("extract: no structured response")
	ErrTranscriptionEmpty   = errors.New("extract: transcription is empty")
	ErrInputFileNotFound    = errors.New("extract: input file not found")
	ErrUnsupportedInput     = errors.New("extract: unsupported input type")

	// ErrMissingLoadDetail is the model error for a load without its sub-load.
	ErrMissingLoadDetail = model.ErrMissingLoadDetail
)

const DefaultInstruction = "Extract RFEM entities from the provided input and structure them according to the RFEM template. " +
	"If specific elements such as node coordinates, section types, members, support conditions, lines or load directions " +
	"are not explicitly mentioned, infer reasonable default values. Assume the positive z-direction is downward unless " +
	"stated otherwise. Loads with positive magnitudes act downward in the positive z-direction. By default, assign walls " +
	"vertically and plates or slabs horizontally. Unless specified, consider geometry to extend positively in the negative z-direction."

const (
	DefaultFunctionName = "fill_rfem_template"
	DefaultImagePrompt  = "Extract RFEM entities from this image:"
)

// Config carries the fixed instruction and function naming. Zero fields
// fall back to the package defaults.
type Config struct {
	Instruction  string
	FunctionName string
	ImagePrompt  string
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Instruction) == "" {
		c.Instruction = DefaultInstruction
	}
	if c.FunctionName == "" {
		c.FunctionName = DefaultFunctionName
	}
	if c.ImagePrompt == "" {
		c.ImagePrompt = DefaultImagePrompt
	}
	return c
}

// Input is one raw item to extract from. Text inputs use Text; image and
// audio inputs use either Path or Data.
type Input struct {
	Type     model.InputType
	Text     string
	Path     string
	Data     []byte
	MIMEType string
}

// Label is a short description of the input for logs.
func (in Input) Label() string {
	switch {
	case in.Path != "":
		return in.Path
	case in.Type == model.InputText:
		if r := []rune(in.Text); len(r) > 50 {
			return string(r[:50])
		}
		return in.Text
	default:
		return fmt.Sprintf("%d bytes", len(in.Data))
	}
}

type Extractor struct {
	client llm.Client
	cfg    Config
	log    *log.Logger
}

func New(client llm.Client, cfg Config, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{client: client, cfg: cfg.withDefaults(), log: logger}
}

func (e *Extractor) call(ctx context.Context, parts ...llm.Part) (*model.Template, error) {
	raw, err := e.client.CallFunction(ctx, llm.Request{
		System: e.cfg.Instruction,
		Parts:  parts,
		Function: llm.FunctionSpec{
			Name:        e.cfg.FunctionName,
			Description: "Fill the RFEM template with the structural model described by the input.",
			Parameters:  TemplateSchema(),
		},
	})
	if err != nil {
		if errors.Is(err, llm.ErrNoFunctionCall) {
			return nil, fmt.Errorf("%w: %w", ErrNoStructuredResponse, err)
		}
		return nil, err
	}
	return DecodeTemplate(raw)
}

func (e *Extractor) FromText(ctx context.Context, text string) (*model.Template, error) {
	t, err := e.call(llm.WithPhase(ctx, "extract:text"), llm.TextPart(text))
	if err != nil {
		return nil, err
	}
	t.InputType = model.InputText
	return t, nil
}

func (e *Extractor) FromImage(ctx context.Context, path string) (*model.Template, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return e.FromImageBytes(ctx, data, DetectMIME(path, data))
}

func (e *Extractor) FromImageBytes(ctx context.Context, data []byte, mimeType string) (*model.Template, error) {
	if mimeType == "" {
		mimeType = DetectMIME("", data)
	}
	t, err := e.call(llm.WithPhase(ctx, "extract:image"), llm.TextPart(e.cfg.ImagePrompt), llm.MediaPart(data, mimeType))
	if err != nil {
		return nil, err
	}
	t.InputType = model.InputImage
	return t, nil
}

func (e *Extractor) FromAudio(ctx context.Context, path string) (*model.Template, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return e.FromAudioBytes(ctx, data, DetectMIME(path, data))
}

// FromAudioBytes transcribes first and then runs the text path on the
// transcript.
func (e *Extractor) FromAudioBytes(ctx context.Context, data []byte, mimeType string) (*model.Template, error) {
	if mimeType == "" {
		mimeType = DetectMIME("", data)
	}
	text, err := e.client.Transcribe(llm.WithPhase(ctx, "transcribe"), llm.Media{Data: data, MIMEType: mimeType})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranscriptionEmpty, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrTranscriptionEmpty
	}
	e.log.Printf("extract: transcript %d chars", len(text))
	t, err := e.FromText(ctx, text)
	if err != nil {
		return nil, err
	}
	t.InputType = model.InputAudio
	return t, nil
}

// Extract dispatches on in.Type.
func (e *Extractor) Extract(ctx context.Context, in Input) (*model.Template, error) {
	switch in.Type {
	case model.InputText:
		return e.FromText(ctx, in.Text)
	case model.InputImage:
		if in.Path != "" {
			return e.FromImage(ctx, in.Path)
		}
		return e.FromImageBytes(ctx, in.Data, in.MIMEType)
	case model.InputAudio:
		if in.Path != "" {
			return e.FromAudio(ctx, in.Path)
		}
		return e.FromAudioBytes(ctx, in.Data, in.MIMEType)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedInput, in.Type)
	}
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputFileNotFound, path)
		}
		return nil, fmt.Errorf("extract: read %s: %w", path, err)
	}
	return data, nil
}
