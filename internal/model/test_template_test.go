package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slabJSON = `{
  "project_name": "slab",
  "filename": "slab.rf6",
  "input_type": "text",
  "materials": [{"no": 1, "name": "C30/37"}],
  "thicknesses": [{"no": 1, "name": "t200", "material_no": 1, "uniform_thickness_d": 0.2}],
  "lines": [
    {"no": 1, "type": "TYPE_POLYLINE", "nodes_no": "1 2"},
    {"no": 2, "type": "TYPE_POLYLINE", "nodes_no": "2 3"},
    {"no": 3, "type": "TYPE_POLYLINE", "nodes_no": "3 1"}
  ],
  "nodes": [
    {"no": 1, "coordinate_X": 0, "coordinate_Y": 0, "coordinate_Z": 0},
    {"no": 2, "coordinate_X": 4, "coordinate_Y": 0, "coordinate_Z": 0},
    {"no": 3, "coordinate_X": 0, "coordinate_Y": 3, "coordinate_Z": 0}
  ],
  "surfaces": [{"no": 1, "thickness_no": 1, "boundary_lines": [1, 2, 3]}],
  "supports": [{"no": 1, "lines_no": "1 2", "support_type": "FIXED"}],
  "loads": [{"no": 1, "load_case_no": 1, "load_type": "SURFACE", "magnitude": 5000, "applied_to": [1],
             "surface_load": {"surface_no": "1"}}]
}`

func TestTemplateJSONRoundTrip(t *testing.T) {
	var tpl Template
	require.NoError(t, json.Unmarshal([]byte(slabJSON), &tpl))
	require.NoError(t, tpl.Validate())

	assert.Equal(t, InputText, tpl.InputType)
	assert.Empty(t, tpl.Sections)
	assert.NotNil(t, tpl.Sections)
	assert.NotNil(t, tpl.Members)
	require.Len(t, tpl.Supports, 1)
	assert.Equal(t, LineSupport{No: 1, Lines: []int{1, 2}, Condition: LineFixed}, tpl.Supports[0])

	b, err := json.Marshal(tpl)
	require.NoError(t, err)
	var back Template
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, tpl, back)
}

func TestTemplateValidate(t *testing.T) {
	var tpl Template
	err := tpl.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCollection)

	require.NoError(t, json.Unmarshal([]byte(slabJSON), &tpl))
	tpl.Nodes = append(tpl.Nodes, Node{No: 1})
	tpl.Members = []Member{{No: 1, StartNodeNo: 1, EndNodeNo: 9}}
	err = tpl.Validate()
	assert.True(t, errors.Is(err, ErrDuplicateTag))
	assert.True(t, errors.Is(err, ErrDanglingReference))
}

func TestTemplateRejectsBadInputType(t *testing.T) {
	var tpl Template
	err := json.Unmarshal([]byte(`{"input_type":"video"}`), &tpl)
	assert.ErrorIs(t, err, ErrInvalidEnumValue)
}

func TestHasMaterial(t *testing.T) {
	tpl := Template{Materials: []Material{{No: 1, Name: "S235"}}}
	assert.True(t, tpl.HasMaterial("S235"))
	assert.False(t, tpl.HasMaterial("C30/37"))
}
