package extract

import (
	genai "google.golang.org/genai"

	"rfemassist/internal/model"
)

func str(desc string) *genai.Schema { return &genai.Schema{Type: genai.TypeString, Description: desc} }
func integer(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeInteger, Description: desc}
}
func number(desc string) *genai.Schema { return &genai.Schema{Type: genai.TypeNumber, Description: desc} }

func enum(desc string, values []string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc, Enum: values}
}

func point(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Description: desc + " [X, Y, Z]", Items: number("coordinate in m")}
}

// stiffness is the vector form of a support condition. It replaces the
// enum fields when present.
func stiffness() *genai.Schema {
	s := list("Custom support stiffness [ux, uy, uz, phi_x, phi_y, phi_z]; use instead of support/support_type "+
		"when the restraint is not one of the named types. Use 1e30 for a rigid restraint and 0 for a free one.",
		number("Spring stiffness in N/m or Nm/rad"))
	s.MinItems = genai.Ptr[int64](6)
	s.MaxItems = genai.Ptr[int64](6)
	s.Nullable = genai.Ptr(true)
	return s
}

func list(desc string, item *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Description: desc, Items: item}
}

func object(desc string, props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Description: desc, Properties: props, Required: required}
}

func subLoad(desc, target string, directions []string) *genai.Schema {
	props := map[string]*genai.Schema{
		target: str("Assigned tags, e.g. '1 2'"),
	}
	if directions != nil {
		props["load_direction"] = enum("Load direction", directions)
	}
	s := object(desc, props)
	s.Nullable = genai.Ptr(true)
	return s
}

// TemplateSchema describes the function parameters the model must fill. It
// mirrors the JSON accepted by DecodeTemplate.
func TemplateSchema() *genai.Schema {
	material := object("Material", map[string]*genai.Schema{
		"no":      integer("Material tag"),
		"name":    str("Material name as in the RFEM database, e.g. C30/37"),
		"comment": str("Comment"),
	}, "no", "name")

	section := object("Cross section", map[string]*genai.Schema{
		"no":           integer("Section tag"),
		"section_type": enum("Section type", model.EnumValues(model.SectionTypes)),
		"name":         str("Section name for STANDARD sections, e.g. IPE 200"),
		"material_no":  integer("Material tag"),
		"width":        number("Width of a rectangular section in m"),
		"height":       number("Height of a rectangular section in m"),
		"diameter":     number("Diameter of a circular section in m"),
		"comment":      str("Comment"),
	}, "no", "section_type", "material_no")

	thickness := object("Surface thickness", map[string]*genai.Schema{
		"no":                  integer("Thickness tag"),
		"name":                str("Thickness name"),
		"material_no":         integer("Material tag"),
		"uniform_thickness_d": number("Thickness in m, greater than zero"),
		"comment":             str("Comment"),
	}, "no", "name", "material_no", "uniform_thickness_d")

	node := object("Node", map[string]*genai.Schema{
		"no":           integer("Node tag"),
		"coordinate_X": number("X coordinate in m"),
		"coordinate_Y": number("Y coordinate in m"),
		"coordinate_Z": number("Z coordinate in m"),
		"comment":      str("Comment"),
	}, "no", "coordinate_X", "coordinate_Y", "coordinate_Z")

	lineTypes := make([]string, 0, len(model.LineTypes))
	for _, t := range model.LineTypes {
		lineTypes = append(lineTypes, "TYPE_"+string(t))
	}
	line := object("Line; only the fields of its type are used", map[string]*genai.Schema{
		"no":                                     integer("Line tag"),
		"type":                                   enum("Line type", lineTypes),
		"nodes_no":                               str("Nodes defining the line, e.g. '1 2'"),
		"comment":                                str("Comment"),
		"arc_first_node":                         integer("First node of an arc"),
		"arc_second_node":                        integer("Second node of an arc"),
		"control_point":                          point("Arc control point"),
		"circle_center_coordinate":               point("Circle center"),
		"circle_radius":                          number("Circle radius in m"),
		"point_of_normal_to_circle_plane":        point("Point on the circle plane normal"),
		"elliptical_arc_first_control_point":     point("Elliptical arc control point 1"),
		"elliptical_arc_second_control_point":    point("Elliptical arc control point 2"),
		"elliptical_arc_perimeter_control_point": point("Elliptical arc perimeter control point"),
		"arc_angle_alpha":                        number("Alpha arc angle in rad"),
		"arc_angle_beta":                         number("Beta arc angle in rad"),
		"ellipse_first_node":                     integer("First node of an ellipse"),
		"ellipse_second_node":                    integer("Second node of an ellipse"),
		"ellipse_control_point":                  point("Ellipse control point"),
		"parabola_first_node":                    integer("First node of a parabola"),
		"parabola_second_node":                   integer("Second node of a parabola"),
		"parabola_control_point":                 point("Parabola control point"),
		"parabola_alpha":                         number("Parabola alpha angle in rad"),
		"control_points":                         list("NURBS control points", point("Control point")),
		"weights":                                list("NURBS weights", number("Weight")),
		"order":                                  integer("NURBS order"),
	}, "no", "type")

	member := object("Member", map[string]*genai.Schema{
		"no":                    integer("Member tag"),
		"start_node_no":         integer("Start node tag"),
		"end_node_no":           integer("End node tag"),
		"rotation_angle":        number("Rotation angle in rad"),
		"start_section_no":      integer("Start section tag"),
		"end_section_no":        integer("End section tag"),
		"start_member_hinge_no": integer("Start hinge tag, 0 for none"),
		"end_member_hinge_no":   integer("End hinge tag, 0 for none"),
		"line":                  integer("Line tag"),
		"comment":               str("Comment"),
	}, "no", "start_node_no", "end_node_no", "start_section_no")

	surface := object("Surface", map[string]*genai.Schema{
		"no":             integer("Surface tag"),
		"thickness_no":   integer("Thickness tag"),
		"boundary_lines": list("Boundary line tags forming a closed loop", integer("Line tag")),
		"comment":        str("Comment"),
	}, "no", "thickness_no", "boundary_lines")

	support := object("Nodal or line support", map[string]*genai.Schema{
		"no":           integer("Support tag"),
		"kind":         enum("Support kind", []string{"NODAL", "LINE"}),
		"nodes_no":     str("Supported nodes for a NODAL support, e.g. '1 2'"),
		"lines_no":     str("Supported lines for a LINE support, e.g. '1 2'"),
		"support":      enum("Nodal support type", model.EnumValues(model.NodalSupportTypes)),
		"support_type": enum("Line support type", model.EnumValues(model.LineSupportTypes)),
		"stiffness":    stiffness(),
		"comment":      str("Comment"),
	}, "no", "kind")

	load := object("Load; fill exactly the sub-load matching load_type", map[string]*genai.Schema{
		"no":           integer("Load tag"),
		"load_case_no": integer("Load case tag"),
		"load_type":    enum("Load type", model.EnumValues(model.LoadTypes)),
		"magnitude":    number("Magnitude in N, N/m or N/m2"),
		"applied_to":   list("Tags of the loaded nodes, members, surfaces or lines", integer("Tag")),
		"comment":      str("Comment"),
		"nodal_load":   subLoad("Nodal load details", "nodes_no", model.EnumValues(model.NodalLoadDirections)),
		"member_load":  subLoad("Member load details", "members_no", model.EnumValues(model.MemberLoadDirections)),
		"surface_load": subLoad("Surface load details", "surface_no", nil),
		"line_load":    subLoad("Line load details", "lines_no", model.EnumValues(model.LineLoadDirections)),
	}, "no", "load_case_no", "load_type", "magnitude", "applied_to")

	return object("RFEM structural model", map[string]*genai.Schema{
		"project_name": str("Name of the project"),
		"filename":     str("File name of the project"),
		"input_type":   enum("Input modality", model.EnumValues(model.InputTypes)),
		"materials":    list("All materials", material),
		"sections":     list("All cross sections", section),
		"thicknesses":  list("All surface thicknesses", thickness),
		"nodes":        list("All nodes", node),
		"lines":        list("All lines", line),
		"members":      list("All members", member),
		"surfaces":     list("All surfaces", surface),
		"supports":     list("All supports", support),
		"loads":        list("All loads", load),
	}, "project_name", "materials", "thicknesses", "surfaces", "loads")
}
