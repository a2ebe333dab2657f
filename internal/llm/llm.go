package llm

import (
	"context"
	"encoding/json"
	"errors"

	genai "google.golang.org/genai"
)

var (
	ErrNoFunctionCall = errors.New("llm: response carried no function call")
	ErrEmptyResponse  = errors.New("llm: empty response")
)

// Client is the narrow contract the extractor needs from a multimodal model:
// one forced function call per request plus speech-to-text.
type Client interface {
	Name() string
	CallFunction(ctx context.Context, req Request) (json.RawMessage, error)
	Transcribe(ctx context.Context, media Media) (string, error)
	Close() error
}

// Media is an inline binary attachment.
type Media struct {
	Data     []byte
	MIMEType string
}

// Part is either text or inline media. Exactly one field is set.
type Part struct {
	Text  string
	Media *Media
}

func TextPart(s string) Part { return Part{Text: s} }

func MediaPart(data []byte, mimeType string) Part {
	return Part{Media: &Media{Data: data, MIMEType: mimeType}}
}

// FunctionSpec declares the single function the model is forced to call.
type FunctionSpec struct {
	Name        string
	Description string
	Parameters  *genai.Schema
}

type Request struct {
	System   string
	Parts    []Part
	Function FunctionSpec
}
