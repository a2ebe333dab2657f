package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// FakeClient replays scripted responses for offline runs and tests. Once
// the script is exhausted the last entry is repeated; with no script at
// all Default is returned.
type FakeClient struct {
	mu sync.Mutex

	Responses   []json.RawMessage
	Errors      []error
	Transcripts []string
	Default     json.RawMessage

	Requests       []Request
	Transcriptions []Media
}

func NewFakeClient(responses ...json.RawMessage) *FakeClient {
	return &FakeClient{Responses: responses}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) CallFunction(_ context.Context, req Request) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.Requests)
	f.Requests = append(f.Requests, req)
	if i < len(f.Errors) && f.Errors[i] != nil {
		return nil, f.Errors[i]
	}
	switch {
	case i < len(f.Responses):
		return f.Responses[i], nil
	case len(f.Responses) > 0:
		return f.Responses[len(f.Responses)-1], nil
	case f.Default != nil:
		return f.Default, nil
	}
	return nil, ErrNoFunctionCall
}

func (f *FakeClient) Transcribe(_ context.Context, media Media) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.Transcriptions)
	f.Transcriptions = append(f.Transcriptions, media)
	switch {
	case i < len(f.Transcripts):
		return f.Transcripts[i], nil
	case len(f.Transcripts) > 0:
		return f.Transcripts[len(f.Transcripts)-1], nil
	}
	return "", ErrEmptyResponse
}

// Calls reports how many function calls were made.
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}
