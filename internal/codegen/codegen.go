// Package codegen lowers a template into an RFEM Python script.
//
// Categories are always emitted in declaration order of the RFEM runtime:
// materials, sections, thicknesses, nodes, lines, supports, members,
// surfaces, loads. An empty category leaves a placeholder comment so that
// scripts keep the same skeleton across runs.
package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"rfemassist/internal/model"
)

const header = `
import os
import sys
from RFEM.initModel import Model, Calculate_all
from RFEM.BasicObjects.material import Material
from RFEM.BasicObjects.section import Section
from RFEM.BasicObjects.thickness import Thickness
from RFEM.BasicObjects.node import Node
from RFEM.BasicObjects.member import Member
from RFEM.BasicObjects.surface import Surface
from RFEM.BasicObjects.line import Line
from RFEM.LoadCasesAndCombinations.loadCase import LoadCase
from RFEM.Loads.memberLoad import MemberLoad
from RFEM.Loads.nodalLoad import NodalLoad
from RFEM.Loads.lineLoad import LineLoad
from RFEM.Loads.surfaceLoad import SurfaceLoad
from RFEM.TypesForNodes.nodalSupport import NodalSupport, NodalSupportType
from RFEM.TypesForLines.lineSupport import LineSupport, LineSupportType
from RFEM.enums import NodalLoadDirection, MemberLoadDirection, LineLoadDirection

`

const footer = `
Model.clientModel.service.finish_modification()

print("Calculating results.")
Calculate_all()

`

// Generator renders scripts. With ExplicitStiffness set, named support
// conditions are written as their six stiffness values.
type Generator struct {
	ExplicitStiffness bool
}

// Generate renders t with the default generator.
func Generate(t *model.Template) string {
	return Generator{}.Generate(t)
}

// Generate does not validate t; callers are expected to have decoded it
// through the model constructors.
func (g Generator) Generate(t *model.Template) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n# Initialize model and start modifying\n")
	fmt.Fprintf(&b, "Model(model_name=%s)\n", pyString(t.ProjectName))
	b.WriteString("Model.clientModel.service.begin_modification()\n")

	section(&b, "materials", materials(t.Materials))
	section(&b, "sections", sections(t.Sections))
	section(&b, "thicknesses", thicknesses(t.Thicknesses))
	section(&b, "nodes", nodes(t.Nodes))
	section(&b, "lines", lines(t.Lines))
	section(&b, "supports", g.supports(t.Supports))
	section(&b, "members", members(t.Members))
	section(&b, "surfaces", surfaces(t.Surfaces))
	section(&b, "loads", loads(t.Loads))

	b.WriteString(footer)
	return b.String()
}

func section(b *strings.Builder, name string, stmts []string) {
	fmt.Fprintf(b, "\n# Define %s\n", name)
	if len(stmts) == 0 {
		fmt.Fprintf(b, "# No %s defined\n", name)
		return
	}
	for _, s := range stmts {
		b.WriteString(s)
		b.WriteByte('\n')
	}
}

func materials(ms []model.Material) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, fmt.Sprintf("Material(%d, %s)", m.No, pyString(m.Name)))
	}
	return out
}

func sections(ss []model.Section) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, fmt.Sprintf("Section(%d, %s, %d)", s.No, pyString(s.Name), s.MaterialNo))
	}
	return out
}

func thicknesses(ts []model.Thickness) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, fmt.Sprintf("Thickness(no=%d, name=%s, material_no=%d, uniform_thickness_d=%s)",
			t.No, pyString(t.Name), t.MaterialNo, pyFloat(t.UniformThicknessD)))
	}
	return out
}

func nodes(ns []model.Node) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, fmt.Sprintf("Node(%d, %s, %s, %s)", n.No, pyFloat(n.X), pyFloat(n.Y), pyFloat(n.Z)))
	}
	return out
}

func lines(ls []model.Line) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, line(l))
	}
	return out
}

func line(l model.Line) string {
	switch g := l.Geometry.(type) {
	case model.Polyline:
		return fmt.Sprintf("Line.Polyline(no=%d, nodes_no=%s)", l.No, pyString(model.JoinTags(g.Nodes, " ")))
	case model.Arc:
		return fmt.Sprintf("Line.Arc(no=%d, nodes_no=%s, control_point=%s)",
			l.No, pyInts([]int{g.FirstNode, g.SecondNode}), pyPoint(g.ControlPoint))
	case model.Circle:
		return fmt.Sprintf("Line.Circle(no=%d, center_of_circle=%s, circle_radius=%s, point_of_normal_to_circle_plane=%s)",
			l.No, pyPoint(g.Center), pyFloat(g.Radius), pyPoint(g.NormalPoint))
	case model.EllipticalArc:
		return fmt.Sprintf("Line.EllipticalArc(no=%d, p1_control_point=%s, p2_control_point=%s, p3_control_point=%s, arc_angle_alpha=%s, arc_angle_beta=%s)",
			l.No, pyPoint(g.FirstControlPoint), pyPoint(g.SecondControlPoint), pyPoint(g.PerimeterControlPoint),
			pyFloat(g.Alpha), pyFloat(g.Beta))
	case model.Ellipse:
		return fmt.Sprintf("Line.Ellipse(no=%d, nodes_no=%s, ellipse_control_point=%s)",
			l.No, pyInts([]int{g.FirstNode, g.SecondNode}), pyPoint(g.ControlPoint))
	case model.Parabola:
		return fmt.Sprintf("Line.Parabola(no=%d, nodes_no=%s, parabola_control_point=%s, parabola_alpha=%s)",
			l.No, pyInts([]int{g.FirstNode, g.SecondNode}), pyPoint(g.ControlPoint), pyFloat(g.Alpha))
	case model.Spline:
		return fmt.Sprintf("Line.Spline(no=%d, nodes_no=%s)", l.No, pyString(model.JoinTags(g.Nodes, " ")))
	case model.NURBS:
		return fmt.Sprintf("Line.NURBS(no=%d, nodes_no=%s, control_points=%s, weights=%s, order=%d)",
			l.No, pyString(model.JoinTags(g.Nodes, " ")), pyPoints(g.ControlPoints), pyFloats(g.Weights), g.Order)
	default:
		return fmt.Sprintf("# Unsupported line type for line %d", l.No)
	}
}

func stiffness(v model.StiffnessVector) string { return pyFloats(v[:]) }

func (g Generator) supports(ss []model.Support) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		switch s := s.(type) {
		case model.NodalSupport:
			out = append(out, fmt.Sprintf("NodalSupport(%d, %s, %s)",
				s.No, pyString(model.JoinTags(s.Nodes, " ")), g.nodalCondition(s.Condition)))
		case model.LineSupport:
			out = append(out, fmt.Sprintf("LineSupport(%d, %s, %s)",
				s.No, pyString(model.JoinTags(s.Lines, " ")), g.lineCondition(s.Condition)))
		}
	}
	return out
}

func (g Generator) nodalCondition(c model.NodalCondition) string {
	switch c := c.(type) {
	case model.NodalSupportType:
		if g.ExplicitStiffness {
			return stiffness(c.Stiffness())
		}
		return "NodalSupportType." + string(c)
	case model.StiffnessVector:
		return stiffness(c)
	}
	return "NodalSupportType." + string(model.NodalHinged)
}

func (g Generator) lineCondition(c model.LineCondition) string {
	switch c := c.(type) {
	case model.LineSupportType:
		if g.ExplicitStiffness {
			return stiffness(c.Stiffness())
		}
		return "LineSupportType." + string(c)
	case model.StiffnessVector:
		return stiffness(c)
	}
	return "LineSupportType." + string(model.LineHinged)
}

// members appends end section, hinges and comment only when they carry
// information beyond the defaults of the target API.
func members(ms []model.Member) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		var b strings.Builder
		fmt.Fprintf(&b, "Member(no=%d, start_node_no=%d, end_node_no=%d, rotation_angle=%s, start_section_no=%d",
			m.No, m.StartNodeNo, m.EndNodeNo, pyFloat(m.RotationAngle), m.StartSectionNo)
		if m.EndSectionNo != m.StartSectionNo {
			fmt.Fprintf(&b, ", end_section_no=%d", m.EndSectionNo)
		}
		if m.StartHingeNo != 0 {
			fmt.Fprintf(&b, ", start_member_hinge_no=%d", m.StartHingeNo)
		}
		if m.EndHingeNo != 0 {
			fmt.Fprintf(&b, ", end_member_hinge_no=%d", m.EndHingeNo)
		}
		if m.Comment != "" {
			fmt.Fprintf(&b, ", comment=%s", pyString(m.Comment))
		}
		b.WriteString(")")
		out = append(out, b.String())
	}
	return out
}

func surfaces(ss []model.Surface) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, fmt.Sprintf("Surface(%d, %s, %d)", s.No, pyString(model.JoinTags(s.BoundaryLines, ",")), s.ThicknessNo))
	}
	return out
}

// loads declares every distinct load case in ascending order before the
// first load statement.
func loads(ls []model.Load) []string {
	if len(ls) == 0 {
		return nil
	}
	seen := map[int]bool{}
	var cases []int
	for _, l := range ls {
		if !seen[l.LoadCaseNo] {
			seen[l.LoadCaseNo] = true
			cases = append(cases, l.LoadCaseNo)
		}
	}
	sort.Ints(cases)
	out := make([]string, 0, len(cases)+len(ls))
	for _, c := range cases {
		out = append(out, "LoadCase("+strconv.Itoa(c)+")")
	}
	for _, l := range ls {
		out = append(out, load(l))
	}
	return out
}

func load(l model.Load) string {
	target := pyString(model.JoinTags(l.AppliedTo, ", "))
	switch d := l.Detail.(type) {
	case model.NodalLoad:
		return fmt.Sprintf("NodalLoad(no=%d, load_case_no=%d, nodes_no=%s, load_direction=NodalLoadDirection.%s, magnitude=%s)",
			l.No, l.LoadCaseNo, target, d.Direction, pyFloat(l.Magnitude))
	case model.MemberLoad:
		return fmt.Sprintf("MemberLoad(no=%d, load_case_no=%d, members_no=%s, load_direction=MemberLoadDirection.%s, magnitude=%s)",
			l.No, l.LoadCaseNo, target, d.Direction, pyFloat(l.Magnitude))
	case model.SurfaceLoad:
		return fmt.Sprintf("SurfaceLoad(no=%d, load_case_no=%d, surface_no=%s, magnitude=%s)",
			l.No, l.LoadCaseNo, target, pyFloat(l.Magnitude))
	case model.LineLoad:
		return fmt.Sprintf("LineLoad(no=%d, load_case_no=%d, lines_no=%s, load_direction=LineLoadDirection.%s, magnitude=%s)",
			l.No, l.LoadCaseNo, target, d.Direction, pyFloat(l.Magnitude))
	default:
		return fmt.Sprintf("# Unsupported load type: %s", l.Type())
	}
}
