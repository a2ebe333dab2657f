package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectangularSectionName(t *testing.T) {
	s, err := NewRectangularSection(1, 1, 0.3, 0.5, "")
	require.NoError(t, err)
	assert.Equal(t, SectionRectangular, s.Type)
	assert.Contains(t, s.Name, "0.3")
	assert.Contains(t, s.Name, "0.5")
	assert.Equal(t, "R_M1 0.3/0.5", s.Name)
}

func TestCircularSectionName(t *testing.T) {
	s, err := NewCircularSection(2, 1, 0.25, "")
	require.NoError(t, err)
	assert.Equal(t, "CIRCLE_M1 0.25", s.Name)
}

func TestNewSectionRejectsMissingDimensions(t *testing.T) {
	w := 0.3
	_, err := NewSection(1, SectionRectangular, 1, "", &w, nil, nil, "")
	assert.ErrorIs(t, err, ErrIncompleteSection)

	_, err = NewSection(1, SectionCircular, 1, "", nil, nil, nil, "")
	assert.ErrorIs(t, err, ErrIncompleteSection)

	_, err = NewSection(1, SectionStandard, 1, "", nil, nil, nil, "")
	assert.ErrorIs(t, err, ErrIncompleteSection)
}

func TestSectionJSONRejectsUnknownType(t *testing.T) {
	var s Section
	err := json.Unmarshal([]byte(`{"no":1,"section_type":"TRIANGULAR","name":"x","material_no":1}`), &s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEnumValue))

	var enumErr *EnumError
	require.True(t, errors.As(err, &enumErr))
	assert.Equal(t, "section_type", enumErr.Field)
	assert.Equal(t, "TRIANGULAR", enumErr.Value)
}

func TestSectionJSONDerivesName(t *testing.T) {
	var s Section
	err := json.Unmarshal([]byte(`{"no":3,"section_type":"rectangular","name":"ignored","material_no":2,"width":0.2,"height":0.4}`), &s)
	require.NoError(t, err)
	assert.Equal(t, 3, s.No)
	assert.Equal(t, 2, s.MaterialNo)
	assert.Equal(t, "R_M1 0.2/0.4", s.Name)
}

func TestSectionJSONDefaultsToStandard(t *testing.T) {
	var s Section
	require.NoError(t, json.Unmarshal([]byte(`{"name":"IPE 200"}`), &s))
	assert.Equal(t, SectionStandard, s.Type)
	assert.Equal(t, 1, s.No)
	assert.Equal(t, 1, s.MaterialNo)
}

func TestThicknessMustBePositive(t *testing.T) {
	_, err := NewThickness(1, "slab", 1, 0, "")
	assert.ErrorIs(t, err, ErrInvalidThickness)

	var th Thickness
	err = json.Unmarshal([]byte(`{"no":1,"name":"slab","material_no":1,"uniform_thickness_d":-0.2}`), &th)
	assert.ErrorIs(t, err, ErrInvalidThickness)

	require.NoError(t, json.Unmarshal([]byte(`{"no":1,"name":"slab","material_no":1,"uniform_thickness_d":0.2}`), &th))
	assert.Equal(t, 0.2, th.UniformThicknessD)
}

func TestMemberEndSectionDefaultsToStart(t *testing.T) {
	var m Member
	require.NoError(t, json.Unmarshal([]byte(`{"no":1,"start_node_no":1,"end_node_no":2,"start_section_no":4}`), &m))
	assert.Equal(t, 4, m.EndSectionNo)

	require.NoError(t, json.Unmarshal([]byte(`{"no":1,"start_node_no":1,"end_node_no":2,"start_section_no":4,"end_section_no":5}`), &m))
	assert.Equal(t, 5, m.EndSectionNo)
}

func TestParseTags(t *testing.T) {
	for _, in := range []string{"2 5", "2,5", "2, 5", " 2 ;5 "} {
		got, err := ParseTags(in)
		require.NoError(t, err, in)
		assert.Equal(t, []int{2, 5}, got, in)
	}
	_, err := ParseTags("2 five")
	assert.ErrorIs(t, err, ErrInvalidTagList)
}

func TestTagListAcceptsStringNumberAndArray(t *testing.T) {
	var s Surface
	require.NoError(t, json.Unmarshal([]byte(`{"no":1,"thickness_no":1,"boundary_lines":"1 2 3 4"}`), &s))
	assert.Equal(t, []int{1, 2, 3, 4}, s.BoundaryLines)

	require.NoError(t, json.Unmarshal([]byte(`{"no":1,"thickness_no":1,"boundary_lines":[1,2,3]}`), &s))
	assert.Equal(t, []int{1, 2, 3}, s.BoundaryLines)

	var tl TagList
	require.NoError(t, json.Unmarshal([]byte(`7`), &tl))
	assert.Equal(t, TagList{7}, tl)

	b, err := json.Marshal(TagList{1, 2})
	require.NoError(t, err)
	assert.Equal(t, `"1 2"`, string(b))
}

func TestLineTypeAcceptsAPIPrefix(t *testing.T) {
	got, err := ParseLineType("TYPE_ELLIPTICAL_ARC")
	require.NoError(t, err)
	assert.Equal(t, LineEllipticalArc, got)

	_, err = ParseLineType("TYPE_ZIGZAG")
	assert.ErrorIs(t, err, ErrInvalidEnumValue)
}

func TestLineJSONBuildsVariant(t *testing.T) {
	var l Line
	raw := `{"no":4,"type":"TYPE_ARC","nodes_no":"1 2","control_point":[0.5,1,0]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	arc, ok := l.Geometry.(Arc)
	require.True(t, ok)
	assert.Equal(t, 1, arc.FirstNode)
	assert.Equal(t, 2, arc.SecondNode)
	assert.Equal(t, Point3{0.5, 1, 0}, arc.ControlPoint)
	assert.Equal(t, AlphaAdjustmentBeginningOfArc, arc.AlphaAdjustmentTarget)

	b, err := json.Marshal(l)
	require.NoError(t, err)
	var back Line
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, l, back)
}

func TestLineJSONRejectsBadControlPoint(t *testing.T) {
	var l Line
	err := json.Unmarshal([]byte(`{"no":1,"type":"ARC","nodes_no":"1 2","control_point":[1,2]}`), &l)
	assert.ErrorIs(t, err, ErrIncompleteLine)
}

func TestPolylineDefaultType(t *testing.T) {
	var l Line
	require.NoError(t, json.Unmarshal([]byte(`{"no":1,"nodes_no":"1 2"}`), &l))
	assert.Equal(t, LinePolyline, l.Type())
	assert.Equal(t, Polyline{Nodes: []int{1, 2}}, l.Geometry)

	_, err := NewPolyline(1, []int{1}, "")
	assert.True(t, strings.Contains(err.Error(), "two nodes"))
}
