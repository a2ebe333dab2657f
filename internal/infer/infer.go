// Package infer synthesizes boundary conditions for templates that arrive
// without explicit supports.
package infer

import (
	"sort"

	"rfemassist/internal/model"
)

// Rule identifies which inference rule produced the supports.
type Rule int

const (
	RuleNone Rule = iota
	RuleMemberTopology
	RuleSurfaceTopology
	RuleBareNodes
)

func (r Rule) String() string {
	switch r {
	case RuleMemberTopology:
		return "member-topology"
	case RuleSurfaceTopology:
		return "surface-topology"
	case RuleBareNodes:
		return "bare-nodes"
	default:
		return "none"
	}
}

// Apply fills t.Supports when it is empty and reports the rule that fired.
// Explicit supports are never touched.
func Apply(t *model.Template) Rule {
	if t == nil || len(t.Supports) > 0 {
		return RuleNone
	}
	switch {
	case len(t.Members) > 0 && len(t.Nodes) > 0:
		t.Supports = memberSupports(t.Members)
		return RuleMemberTopology
	case len(t.Surfaces) > 0 && len(t.Lines) > 0:
		t.Supports = surfaceSupports(t.Surfaces)
		return RuleSurfaceTopology
	case len(t.Nodes) > 0:
		t.Supports = nodeSupports(t.Nodes)
		return RuleBareNodes
	}
	return RuleNone
}

// memberSupports fixes the smallest member endpoint and rolls the rest.
func memberSupports(members []model.Member) []model.Support {
	seen := map[int]bool{}
	var tags []int
	for _, m := range members {
		for _, n := range []int{m.StartNodeNo, m.EndNodeNo} {
			if !seen[n] {
				seen[n] = true
				tags = append(tags, n)
			}
		}
	}
	sort.Ints(tags)
	out := make([]model.Support, 0, len(tags))
	for i, n := range tags {
		cond := model.NodalRoller
		if i == 0 {
			cond = model.NodalFixed
		}
		out = append(out, model.NodalSupport{No: n, Nodes: []int{n}, Condition: cond})
	}
	return out
}

// surfaceSupports hinges every boundary line once, in first-seen order.
func surfaceSupports(surfaces []model.Surface) []model.Support {
	seen := map[int]bool{}
	var out []model.Support
	for _, s := range surfaces {
		for _, l := range s.BoundaryLines {
			if seen[l] {
				continue
			}
			seen[l] = true
			out = append(out, model.LineSupport{No: l, Lines: []int{l}, Condition: model.LineHinged})
		}
	}
	return out
}

func nodeSupports(nodes []model.Node) []model.Support {
	out := make([]model.Support, 0, len(nodes))
	for i, n := range nodes {
		cond := model.NodalHinged
		if i == 0 {
			cond = model.NodalFixed
		}
		out = append(out, model.NodalSupport{No: n.No, Nodes: []int{n.No}, Condition: cond})
	}
	return out
}
