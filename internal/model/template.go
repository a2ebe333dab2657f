package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Template is the root aggregate for one structural model. Materials,
// thicknesses, surfaces and loads are mandatory; the other collections are
// empty when unused.
type Template struct {
	ProjectName string
	Filename    string
	InputType   InputType
	Materials   []Material
	Sections    []Section
	Thicknesses []Thickness
	Nodes       []Node
	Lines       []Line
	Members     []Member
	Surfaces    []Surface
	Supports    []Support
	Loads       []Load
}

type templateWire struct {
	ProjectName string            `json:"project_name"`
	Filename    string            `json:"filename"`
	InputType   string            `json:"input_type"`
	Materials   []Material        `json:"materials"`
	Sections    []Section         `json:"sections"`
	Thicknesses []Thickness       `json:"thicknesses"`
	Nodes       []Node            `json:"nodes"`
	Lines       []Line            `json:"lines"`
	Members     []Member          `json:"members"`
	Surfaces    []Surface         `json:"surfaces"`
	Supports    []json.RawMessage `json:"supports"`
	Loads       []Load            `json:"loads"`
}

func (t *Template) UnmarshalJSON(b []byte) error {
	var w templateWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	out := Template{
		ProjectName: w.ProjectName,
		Filename:    w.Filename,
		Materials:   w.Materials,
		Sections:    w.Sections,
		Thicknesses: w.Thicknesses,
		Nodes:       w.Nodes,
		Lines:       w.Lines,
		Members:     w.Members,
		Surfaces:    w.Surfaces,
		Loads:       w.Loads,
	}
	if w.InputType != "" {
		it, err := ParseInputType(w.InputType)
		if err != nil {
			return err
		}
		out.InputType = it
	}
	for i, raw := range w.Supports {
		s, err := DecodeSupport(raw)
		if err != nil {
			return fmt.Errorf("supports[%d]: %w", i, err)
		}
		out.Supports = append(out.Supports, s)
	}
	out.Normalize()
	*t = out
	return nil
}

func (t Template) MarshalJSON() ([]byte, error) {
	w := templateWire{
		ProjectName: t.ProjectName,
		Filename:    t.Filename,
		InputType:   string(t.InputType),
		Materials:   nonNil(t.Materials),
		Sections:    nonNil(t.Sections),
		Thicknesses: nonNil(t.Thicknesses),
		Nodes:       nonNil(t.Nodes),
		Lines:       nonNil(t.Lines),
		Members:     nonNil(t.Members),
		Surfaces:    nonNil(t.Surfaces),
		Supports:    []json.RawMessage{},
		Loads:       nonNil(t.Loads),
	}
	for _, s := range t.Supports {
		b, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		w.Supports = append(w.Supports, b)
	}
	return json.Marshal(w)
}

// Normalize replaces nil optional collections with empty ones.
func (t *Template) Normalize() {
	t.Sections = nonNil(t.Sections)
	t.Nodes = nonNil(t.Nodes)
	t.Lines = nonNil(t.Lines)
	t.Members = nonNil(t.Members)
	t.Supports = nonNil(t.Supports)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Validate checks the aggregate invariants and joins every violation found.
func (t *Template) Validate() error {
	var errs []error
	if len(t.Materials) == 0 {
		errs = append(errs, fmt.Errorf("%w: materials", ErrMissingCollection))
	}
	if len(t.Thicknesses) == 0 {
		errs = append(errs, fmt.Errorf("%w: thicknesses", ErrMissingCollection))
	}
	if len(t.Surfaces) == 0 {
		errs = append(errs, fmt.Errorf("%w: surfaces", ErrMissingCollection))
	}
	if len(t.Loads) == 0 {
		errs = append(errs, fmt.Errorf("%w: loads", ErrMissingCollection))
	}

	errs = append(errs, uniqueTags("materials", t.Materials, func(m Material) int { return m.No })...)
	errs = append(errs, uniqueTags("sections", t.Sections, func(s Section) int { return s.No })...)
	errs = append(errs, uniqueTags("thicknesses", t.Thicknesses, func(s Thickness) int { return s.No })...)
	errs = append(errs, uniqueTags("nodes", t.Nodes, func(n Node) int { return n.No })...)
	errs = append(errs, uniqueTags("lines", t.Lines, func(l Line) int { return l.No })...)
	errs = append(errs, uniqueTags("members", t.Members, func(m Member) int { return m.No })...)
	errs = append(errs, uniqueTags("surfaces", t.Surfaces, func(s Surface) int { return s.No })...)
	errs = append(errs, uniqueTags("loads", t.Loads, func(l Load) int { return l.No })...)

	if len(t.Nodes) > 0 {
		nodes := tagSet(t.Nodes, func(n Node) int { return n.No })
		for _, m := range t.Members {
			for _, ref := range []int{m.StartNodeNo, m.EndNodeNo} {
				if !nodes[ref] {
					errs = append(errs, fmt.Errorf("%w: member %d node %d", ErrDanglingReference, m.No, ref))
				}
			}
		}
	}
	if len(t.Sections) > 0 {
		sections := tagSet(t.Sections, func(s Section) int { return s.No })
		for _, m := range t.Members {
			for _, ref := range []int{m.StartSectionNo, m.EndSectionNo} {
				if !sections[ref] {
					errs = append(errs, fmt.Errorf("%w: member %d section %d", ErrDanglingReference, m.No, ref))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func tagSet[T any](items []T, tag func(T) int) map[int]bool {
	out := make(map[int]bool, len(items))
	for _, it := range items {
		out[tag(it)] = true
	}
	return out
}

func uniqueTags[T any](collection string, items []T, tag func(T) int) []error {
	seen := make(map[int]bool, len(items))
	var errs []error
	for _, it := range items {
		n := tag(it)
		if seen[n] {
			errs = append(errs, fmt.Errorf("%w: %s %d", ErrDuplicateTag, collection, n))
		}
		seen[n] = true
	}
	return errs
}

// HasMaterial reports whether any material carries the given name.
func (t *Template) HasMaterial(name string) bool {
	for _, m := range t.Materials {
		if m.Name == name {
			return true
		}
	}
	return false
}
