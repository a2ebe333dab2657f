package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TagList decodes an identifier list given as "1 2", "1,2", a single number
// or a JSON array. It encodes back to the space-joined string form.
type TagList []int

func (t *TagList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = nil
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		tags, err := ParseTags(s)
		if err != nil {
			return err
		}
		*t = tags
		return nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		out := make([]int, 0, len(items))
		for _, it := range items {
			var one TagList
			if err := one.UnmarshalJSON(it); err != nil {
				return err
			}
			out = append(out, one...)
		}
		*t = out
		return nil
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTagList, string(b))
		}
		if f != float64(int(f)) {
			return fmt.Errorf("%w: %s", ErrInvalidTagList, string(b))
		}
		*t = TagList{int(f)}
		return nil
	}
}

func (t TagList) MarshalJSON() ([]byte, error) {
	return json.Marshal(JoinTags(t, " "))
}

func (t TagList) String() string { return JoinTags(t, " ") }

func (s *Section) UnmarshalJSON(b []byte) error {
	type alias Section
	raw := struct {
		alias
		Type string `json:"section_type"`
	}{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	typ := SectionStandard
	if raw.Type != "" {
		t, err := ParseSectionType(raw.Type)
		if err != nil {
			return err
		}
		typ = t
	}
	if raw.No == 0 {
		raw.No = 1
	}
	if raw.MaterialNo == 0 {
		raw.MaterialNo = 1
	}
	built, err := NewSection(raw.No, typ, raw.MaterialNo, raw.Name, raw.Width, raw.Height, raw.Diameter, raw.Comment)
	if err != nil {
		return err
	}
	*s = built
	return nil
}

func (t *Thickness) UnmarshalJSON(b []byte) error {
	type alias Thickness
	var raw alias
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	built, err := NewThickness(raw.No, raw.Name, raw.MaterialNo, raw.UniformThicknessD, raw.Comment)
	if err != nil {
		return err
	}
	*t = built
	return nil
}

// UnmarshalJSON defaults a missing end section to the start section.
func (m *Member) UnmarshalJSON(b []byte) error {
	type alias Member
	raw := struct {
		alias
		EndSectionNo *int `json:"end_section_no"`
	}{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = Member(raw.alias)
	m.EndSectionNo = m.StartSectionNo
	if raw.EndSectionNo != nil && *raw.EndSectionNo != 0 {
		m.EndSectionNo = *raw.EndSectionNo
	}
	return nil
}

func (s *Surface) UnmarshalJSON(b []byte) error {
	type alias Surface
	raw := struct {
		alias
		BoundaryLines TagList `json:"boundary_lines"`
	}{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = Surface(raw.alias)
	s.BoundaryLines = []int(raw.BoundaryLines)
	return nil
}
