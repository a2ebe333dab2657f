package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfemassist/internal/model"
)

func TestExplicitSupportsWin(t *testing.T) {
	explicit := []model.Support{model.NodalSupport{No: 9, Nodes: []int{2}, Condition: model.NodalHinged}}
	tpl := &model.Template{
		Nodes:    []model.Node{{No: 1}, {No: 2}},
		Members:  []model.Member{{No: 1, StartNodeNo: 1, EndNodeNo: 2}},
		Supports: explicit,
	}
	assert.Equal(t, RuleNone, Apply(tpl))
	assert.Equal(t, explicit, tpl.Supports)
}

func TestMemberTopologyFixesSmallestNode(t *testing.T) {
	tpl := &model.Template{
		Nodes: []model.Node{{No: 3}, {No: 1}, {No: 2}},
		Members: []model.Member{
			{No: 1, StartNodeNo: 3, EndNodeNo: 1},
			{No: 2, StartNodeNo: 1, EndNodeNo: 2},
		},
		Surfaces: []model.Surface{{No: 1, BoundaryLines: []int{1}}},
		Lines:    []model.Line{{No: 1, Geometry: model.Polyline{Nodes: []int{1, 2}}}},
	}
	require.Equal(t, RuleMemberTopology, Apply(tpl))
	require.Len(t, tpl.Supports, 3)

	fixed := 0
	for _, s := range tpl.Supports {
		ns := s.(model.NodalSupport)
		if ns.Condition == model.NodalFixed {
			fixed++
			assert.Equal(t, []int{1}, ns.Nodes)
		} else {
			assert.Equal(t, model.NodalRoller, ns.Condition)
		}
	}
	assert.Equal(t, 1, fixed)
	assert.Equal(t, []int{1, 2, 3}, []int{
		tpl.Supports[0].SupportNo(), tpl.Supports[1].SupportNo(), tpl.Supports[2].SupportNo(),
	})
}

func TestSurfaceTopologyDedupesSharedLines(t *testing.T) {
	tpl := &model.Template{
		Lines: []model.Line{{No: 1}, {No: 2}, {No: 3}, {No: 4}, {No: 5}},
		Surfaces: []model.Surface{
			{No: 1, BoundaryLines: []int{1, 2, 3}},
			{No: 2, BoundaryLines: []int{3, 4, 5}},
		},
	}
	require.Equal(t, RuleSurfaceTopology, Apply(tpl))
	require.Len(t, tpl.Supports, 5)

	count := map[int]int{}
	for _, s := range tpl.Supports {
		ls := s.(model.LineSupport)
		assert.Equal(t, model.LineHinged, ls.Condition)
		for _, l := range ls.Lines {
			count[l]++
		}
	}
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1, 4: 1, 5: 1}, count)
}

func TestBareNodes(t *testing.T) {
	tpl := &model.Template{
		Nodes:    []model.Node{{No: 7}, {No: 2}, {No: 5}},
		Surfaces: []model.Surface{{No: 1, BoundaryLines: []int{1}}},
	}
	require.Equal(t, RuleBareNodes, Apply(tpl))
	require.Len(t, tpl.Supports, 3)
	assert.Equal(t, model.NodalSupport{No: 7, Nodes: []int{7}, Condition: model.NodalFixed}, tpl.Supports[0])
	assert.Equal(t, model.NodalHinged, tpl.Supports[1].(model.NodalSupport).Condition)
	assert.Equal(t, model.NodalHinged, tpl.Supports[2].(model.NodalSupport).Condition)
}

func TestNoPreconditions(t *testing.T) {
	tpl := &model.Template{Surfaces: []model.Surface{{No: 1, BoundaryLines: []int{1}}}}
	assert.Equal(t, RuleNone, Apply(tpl))
	assert.Empty(t, tpl.Supports)
	assert.Equal(t, RuleNone, Apply(nil))
}
