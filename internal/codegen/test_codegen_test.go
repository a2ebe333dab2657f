package codegen

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfemassist/internal/model"
)

func mustLoad(t *testing.T) func(model.Load, error) model.Load {
	return func(l model.Load, err error) model.Load {
		t.Helper()
		require.NoError(t, err)
		return l
	}
}

func frameTemplate(t *testing.T) *model.Template {
	t.Helper()
	sec, err := model.NewRectangularSection(1, 1, 0.3, 0.5, "")
	require.NoError(t, err)
	arc, err := model.NewArc(2, 2, 3, model.Point3{2, 1, 0}, "")
	require.NoError(t, err)
	return &model.Template{
		ProjectName: "frame",
		Materials:   []model.Material{{No: 1, Name: "C30/37"}},
		Sections:    []model.Section{sec},
		Thicknesses: []model.Thickness{{No: 1, Name: "t", MaterialNo: 1, UniformThicknessD: 0.2}},
		Nodes: []model.Node{
			{No: 1, X: 0, Y: 0, Z: 0},
			{No: 2, X: 4, Y: 0, Z: 0},
			{No: 3, X: 4, Y: 0, Z: -3.5},
		},
		Lines: []model.Line{
			{No: 1, Geometry: model.Polyline{Nodes: []int{1, 2}}},
			arc,
		},
		Members: []model.Member{
			{No: 1, StartNodeNo: 1, EndNodeNo: 2, StartSectionNo: 1, EndSectionNo: 1},
			{No: 2, StartNodeNo: 2, EndNodeNo: 3, StartSectionNo: 1, EndSectionNo: 2, EndHingeNo: 1, Comment: "column"},
		},
		Surfaces: []model.Surface{{No: 1, ThicknessNo: 1, BoundaryLines: []int{1, 2}}},
		Supports: []model.Support{
			model.NodalSupport{No: 1, Nodes: []int{1}, Condition: model.NodalFixed},
			model.LineSupport{No: 2, Lines: []int{1, 2}, Condition: model.LineHinged},
		},
		Loads: []model.Load{
			mustLoad(t)(model.NewNodalLoad(1, 2, "2 5", model.NodalGlobalZ, 10000, "")),
			mustLoad(t)(model.NewMemberLoad(2, 1, "1", model.MemberGlobalZTrue, 2000, "")),
			mustLoad(t)(model.NewSurfaceLoad(3, 2, "1", 1500.5, "")),
			mustLoad(t)(model.NewLineLoad(4, 1, "1,2", model.LineLocalZ, 300, "")),
		},
	}
}

func TestGenerateOrdersCategories(t *testing.T) {
	script := Generate(frameTemplate(t))
	markers := []string{
		`Material(1, "C30/37")`,
		`Section(1, "R_M1 0.3/0.5", 1)`,
		`Thickness(no=1, name="t", material_no=1, uniform_thickness_d=0.2)`,
		`Node(1, 0.0, 0.0, 0.0)`,
		`Line.Polyline(no=1, nodes_no="1 2")`,
		`NodalSupport(1, "1", NodalSupportType.FIXED)`,
		`Member(no=1, start_node_no=1, end_node_no=2, rotation_angle=0.0, start_section_no=1)`,
		`Surface(1, "1,2", 1)`,
		`LoadCase(1)`,
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(script, m)
		require.GreaterOrEqual(t, idx, 0, "missing %q", m)
		assert.Greater(t, idx, last, "%q out of order", m)
		last = idx
	}
	assert.Less(t, strings.Index(script, "begin_modification"), strings.Index(script, "Material("))
	assert.Less(t, strings.Index(script, "NodalLoad("), strings.Index(script, "finish_modification"))
	assert.Less(t, strings.Index(script, "finish_modification"), strings.Index(script, "Calculate_all()\n"))
}

func TestGenerateIsDeterministic(t *testing.T) {
	tpl := frameTemplate(t)
	assert.Equal(t, Generate(tpl), Generate(tpl))
}

func TestGeneratePlaceholders(t *testing.T) {
	tpl := frameTemplate(t)
	tpl.Sections = nil
	tpl.Members = []model.Member{}
	script := Generate(tpl)
	assert.Contains(t, script, "# No sections defined")
	assert.Contains(t, script, "# No members defined")
	assert.NotContains(t, script, "Section(")
	assert.NotContains(t, script, "Member(")
}

func TestGenerateMemberOptionals(t *testing.T) {
	script := Generate(frameTemplate(t))
	assert.Contains(t, script,
		`Member(no=2, start_node_no=2, end_node_no=3, rotation_angle=0.0, start_section_no=1, end_section_no=2, end_member_hinge_no=1, comment="column")`)
	assert.NotContains(t, script, "start_member_hinge_no")
}

func TestGenerateLoads(t *testing.T) {
	script := Generate(frameTemplate(t))
	assert.Contains(t, script, "LoadCase(1)\nLoadCase(2)\nNodalLoad(")
	assert.Equal(t, 1, strings.Count(script, "LoadCase(2)"))
	assert.Contains(t, script,
		`NodalLoad(no=1, load_case_no=2, nodes_no="2, 5", load_direction=NodalLoadDirection.LOAD_DIRECTION_GLOBAL_Z_OR_USER_DEFINED_W, magnitude=10000.0)`)
	assert.Contains(t, script,
		`MemberLoad(no=2, load_case_no=1, members_no="1", load_direction=MemberLoadDirection.LOAD_DIRECTION_GLOBAL_Z_OR_USER_DEFINED_W_TRUE, magnitude=2000.0)`)
	assert.Contains(t, script, `SurfaceLoad(no=3, load_case_no=2, surface_no="1", magnitude=1500.5)`)
	assert.Contains(t, script,
		`LineLoad(no=4, load_case_no=1, lines_no="1, 2", load_direction=LineLoadDirection.LOAD_DIRECTION_LOCAL_Z, magnitude=300.0)`)
}

func TestGenerateLineVariants(t *testing.T) {
	circle, err := model.NewCircle(3, model.Point3{20, 0, 0}, 1, model.Point3{1, 0, 0}, "")
	require.NoError(t, err)
	nurbs, err := model.NewNURBS(4, []int{1, 2}, []model.Point3{{0, 0, 0}, {1, 1, 0}}, []float64{1, 1}, 2, "")
	require.NoError(t, err)
	tpl := frameTemplate(t)
	tpl.Lines = append(tpl.Lines, circle, nurbs)
	script := Generate(tpl)

	assert.Contains(t, script, `Line.Arc(no=2, nodes_no=[2, 3], control_point=[2.0, 1.0, 0.0])`)
	assert.Contains(t, script, `Line.Circle(no=3, center_of_circle=[20.0, 0.0, 0.0], circle_radius=1.0, point_of_normal_to_circle_plane=[1.0, 0.0, 0.0])`)
	assert.Contains(t, script, `Line.NURBS(no=4, nodes_no="1 2", control_points=[[0.0, 0.0, 0.0], [1.0, 1.0, 0.0]], weights=[1.0, 1.0], order=2)`)
}

func TestExplicitStiffness(t *testing.T) {
	tpl := frameTemplate(t)
	script := Generator{ExplicitStiffness: true}.Generate(tpl)
	assert.Contains(t, script,
		`NodalSupport(1, "1", [float('inf'), float('inf'), float('inf'), float('inf'), float('inf'), float('inf')])`)
	assert.Contains(t, script,
		`LineSupport(2, "1 2", [float('inf'), float('inf'), float('inf'), 0.0, 0.0, 0.0])`)

	tpl.Supports = []model.Support{
		model.NodalSupport{No: 5, Nodes: []int{3}, Condition: model.StiffnessVector{1000, 0, math.Inf(1), 0, 0, 0}},
	}
	assert.Contains(t, Generate(tpl), `NodalSupport(5, "3", [1000.0, 0.0, float('inf'), 0.0, 0.0, 0.0])`)
}

func TestPyFloat(t *testing.T) {
	cases := map[float64]string{
		0:       "0.0",
		4:       "4.0",
		-3.5:    "-3.5",
		0.3:     "0.3",
		1e-5:    "1e-05",
		2.5e20:  "2.5e+20",
		1000000: "1000000.0",
	}
	for in, want := range cases {
		assert.Equal(t, want, pyFloat(in), "%v", in)
	}
	assert.Equal(t, "float('inf')", pyFloat(math.Inf(1)))
}
