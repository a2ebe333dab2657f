package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"rfemassist/internal/model"
)

// payload keeps every collection raw so each entry is rebuilt through the
// model constructors with its own position in the error.
type payload struct {
	ProjectName string            `json:"project_name"`
	Filename    string            `json:"filename"`
	InputType   string            `json:"input_type"`
	Materials   []json.RawMessage `json:"materials"`
	Sections    []json.RawMessage `json:"sections"`
	Thicknesses []json.RawMessage `json:"thicknesses"`
	Nodes       []json.RawMessage `json:"nodes"`
	Lines       []json.RawMessage `json:"lines"`
	Members     []json.RawMessage `json:"members"`
	Surfaces    []json.RawMessage `json:"surfaces"`
	Supports    []json.RawMessage `json:"supports"`
	Loads       []json.RawMessage `json:"loads"`
}

func decodeEach[T any](field string, raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeTemplate turns a function-call payload into a validated template.
// Absent optional collections come back as empty slices.
func DecodeTemplate(raw json.RawMessage) (*model.Template, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrNoStructuredResponse
	}
	var p payload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoStructuredResponse, err)
	}

	t := &model.Template{ProjectName: p.ProjectName, Filename: p.Filename}
	if p.InputType != "" {
		it, err := model.ParseInputType(p.InputType)
		if err != nil {
			return nil, err
		}
		t.InputType = it
	}

	var err error
	if t.Materials, err = decodeEach[model.Material]("materials", p.Materials); err != nil {
		return nil, err
	}
	if t.Sections, err = decodeEach[model.Section]("sections", p.Sections); err != nil {
		return nil, err
	}
	if t.Thicknesses, err = decodeEach[model.Thickness]("thicknesses", p.Thicknesses); err != nil {
		return nil, err
	}
	if t.Nodes, err = decodeEach[model.Node]("nodes", p.Nodes); err != nil {
		return nil, err
	}
	if t.Lines, err = decodeEach[model.Line]("lines", p.Lines); err != nil {
		return nil, err
	}
	if t.Members, err = decodeEach[model.Member]("members", p.Members); err != nil {
		return nil, err
	}
	if t.Surfaces, err = decodeEach[model.Surface]("surfaces", p.Surfaces); err != nil {
		return nil, err
	}
	if t.Loads, err = decodeEach[model.Load]("loads", p.Loads); err != nil {
		return nil, err
	}
	for i, raw := range p.Supports {
		s, err := model.DecodeSupport(raw)
		if err != nil {
			return nil, fmt.Errorf("supports[%d]: %w", i, err)
		}
		t.Supports = append(t.Supports, s)
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
