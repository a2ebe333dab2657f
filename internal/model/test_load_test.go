package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodalLoadDerivesAppliedTo(t *testing.T) {
	l, err := NewNodalLoad(1, 1, "2 5", NodalGlobalZ, 10000, "")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, l.AppliedTo)
	assert.Equal(t, LoadNodal, l.Type())

	l, err = NewMemberLoad(2, 1, "3,4, 6", MemberGlobalZTrue, 2000, "")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 6}, l.AppliedTo)
}

func TestNewLoadRejectsMismatchedDetail(t *testing.T) {
	_, err := NewLoad(1, 1, LoadMember, NodalLoad{NodesNo: "1"}, 5, "")
	assert.ErrorIs(t, err, ErrLoadTypeMismatch)

	_, err = NewLoad(1, 1, LoadSurface, nil, 5, "")
	assert.ErrorIs(t, err, ErrMissingLoadDetail)
}

func TestNewLoadRejectsBadTarget(t *testing.T) {
	_, err := NewSurfaceLoad(1, 1, "one", 1000, "")
	assert.ErrorIs(t, err, ErrInvalidTagList)
}

func TestLoadJSONSelectsDeclaredSubLoad(t *testing.T) {
	raw := `{"no":1,"load_case_no":2,"load_type":"LINE","magnitude":1500,"applied_to":[1,2],
		"line_load":{"load_direction":"LOAD_DIRECTION_LOCAL_Z","lines_no":"3 4"}}`
	var l Load
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	assert.Equal(t, []int{3, 4}, l.AppliedTo)
	assert.Equal(t, 2, l.LoadCaseNo)
	assert.Equal(t, 1500.0, l.Magnitude)
	assert.Equal(t, LineLoad{LinesNo: "3,4", Direction: LineLocalZ}, l.Detail)
}

func TestLoadJSONFallsBackToAppliedTo(t *testing.T) {
	raw := `{"no":1,"load_case_no":1,"load_type":"SURFACE","magnitude":1000,"applied_to":[1,2],"surface_load":{}}`
	var l Load
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	assert.Equal(t, []int{1, 2}, l.AppliedTo)
	assert.Equal(t, SurfaceLoad{SurfacesNo: "1,2"}, l.Detail)
}

func TestLoadJSONErrors(t *testing.T) {
	var l Load
	err := json.Unmarshal([]byte(`{"no":1,"load_type":"NODAL","magnitude":1,"member_load":{"members_no":"1"}}`), &l)
	assert.ErrorIs(t, err, ErrLoadTypeMismatch)

	err = json.Unmarshal([]byte(`{"no":1,"load_type":"NODAL","magnitude":1,"applied_to":[1]}`), &l)
	assert.ErrorIs(t, err, ErrMissingLoadDetail)

	err = json.Unmarshal([]byte(`{"no":1,"load_type":"POINT","magnitude":1}`), &l)
	assert.ErrorIs(t, err, ErrInvalidEnumValue)

	err = json.Unmarshal([]byte(`{"no":1,"load_type":"MEMBER","magnitude":1,"member_load":{"members_no":"1","load_direction":"SIDEWAYS"}}`), &l)
	assert.ErrorIs(t, err, ErrInvalidEnumValue)
}

func TestLoadJSONDefaultsDirection(t *testing.T) {
	var l Load
	require.NoError(t, json.Unmarshal([]byte(`{"no":1,"load_type":"MEMBER","magnitude":2,"member_load":{"members_no":"1"}}`), &l))
	assert.Equal(t, MemberLoad{MembersNo: "1", Direction: MemberGlobalZTrue}, l.Detail)
	assert.Equal(t, 1, l.LoadCaseNo)
}
