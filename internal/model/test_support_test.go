package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStiffnessVectorLength(t *testing.T) {
	_, err := NewStiffnessVector([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidSupportVector)

	v, err := NewStiffnessVector([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, StiffnessVector{1, 2, 3, 4, 5, 6}, v)
}

func TestLineFreeIsUnconstrained(t *testing.T) {
	assert.Equal(t, StiffnessVector{}, LineFree.Stiffness())
	assert.Equal(t, StiffnessVector{}, NodalFree.Stiffness())
}

func TestHingedStiffness(t *testing.T) {
	v := NodalHinged.Stiffness()
	assert.True(t, math.IsInf(v[0], 1))
	assert.Equal(t, 0.0, v[3])
	assert.Equal(t, 0.0, LineHinged.Stiffness()[5])
}

func decodeSupport(t *testing.T, raw string) (Support, error) {
	t.Helper()
	var w supportWire
	require.NoError(t, json.Unmarshal([]byte(raw), &w))
	return w.build()
}

func TestSupportWireEnumAndVector(t *testing.T) {
	s, err := decodeSupport(t, `{"no":1,"nodes_no":"1 2","support":"fixed"}`)
	require.NoError(t, err)
	assert.Equal(t, NodalSupport{No: 1, Nodes: []int{1, 2}, Condition: NodalFixed}, s)

	s, err = decodeSupport(t, `{"no":2,"lines_no":"3","support_type":[0,0,"inf",0,0,"inf"]}`)
	require.NoError(t, err)
	ls, ok := s.(LineSupport)
	require.True(t, ok)
	assert.Equal(t, []int{3}, ls.Lines)
	vec, ok := ls.Condition.(StiffnessVector)
	require.True(t, ok)
	assert.True(t, math.IsInf(vec[2], 1))

	s, err = decodeSupport(t, `{"no":1,"lines_no":"1","support":null,"support_type":"FIXED"}`)
	require.NoError(t, err)
	assert.Equal(t, LineSupport{No: 1, Lines: []int{1}, Condition: LineFixed}, s)

	s, err = decodeSupport(t, `{"no":4,"nodes_no":"2","support":"HINGED","stiffness":[1000,0,"inf",0,0,0]}`)
	require.NoError(t, err)
	assert.Equal(t, StiffnessVector{1000, 0, math.Inf(1), 0, 0, 0}, s.(NodalSupport).Condition)

	s, err = decodeSupport(t, `{"no":5,"nodes_no":"3","support":"FIXED","stiffness":null}`)
	require.NoError(t, err)
	assert.Equal(t, NodalFixed, s.(NodalSupport).Condition)
}

func TestSupportWireErrors(t *testing.T) {
	_, err := decodeSupport(t, `{"no":1,"nodes_no":"1","support":[1,2,3]}`)
	assert.ErrorIs(t, err, ErrInvalidSupportVector)

	_, err = decodeSupport(t, `{"no":1,"lines_no":"1","stiffness":[1,2]}`)
	assert.ErrorIs(t, err, ErrInvalidSupportVector)

	_, err = decodeSupport(t, `{"no":1,"lines_no":"1","support_type":"ROLLER"}`)
	assert.ErrorIs(t, err, ErrInvalidEnumValue)
}

func TestSupportDefaultsToHinged(t *testing.T) {
	s, err := decodeSupport(t, `{"no":1,"kind":"LINE","lines_no":"1 2"}`)
	require.NoError(t, err)
	assert.Equal(t, LineHinged, s.(LineSupport).Condition)
}

func TestSupportMarshalRoundTrip(t *testing.T) {
	in := NodalSupport{No: 3, Nodes: []int{4}, Condition: NodalHinged.Stiffness()}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"inf"`)

	out, err := decodeSupport(t, string(b))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
