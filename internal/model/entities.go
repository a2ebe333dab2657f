package model

import "fmt"

type Material struct {
	No      int    `json:"no"`
	Name    string `json:"name"`
	Comment string `json:"comment,omitempty"`
}

// Section is a cross section. Name is derived from the dimensions for
// rectangular and circular sections.
type Section struct {
	No         int         `json:"no"`
	Type       SectionType `json:"section_type"`
	Name       string      `json:"name"`
	MaterialNo int         `json:"material_no"`
	Width      *float64    `json:"width,omitempty"`
	Height     *float64    `json:"height,omitempty"`
	Diameter   *float64    `json:"diameter,omitempty"`
	Comment    string      `json:"comment,omitempty"`
}

func NewStandardSection(no, materialNo int, name, comment string) (Section, error) {
	if name == "" {
		return Section{}, fmt.Errorf("%w: standard section %d has no name", ErrIncompleteSection, no)
	}
	return Section{No: no, Type: SectionStandard, Name: name, MaterialNo: materialNo, Comment: comment}, nil
}

func NewRectangularSection(no, materialNo int, width, height float64, comment string) (Section, error) {
	if width <= 0 || height <= 0 {
		return Section{}, fmt.Errorf("%w: rectangular section %d needs width and height", ErrIncompleteSection, no)
	}
	return Section{
		No:         no,
		Type:       SectionRectangular,
		Name:       fmt.Sprintf("R_M1 %s/%s", formatDim(width), formatDim(height)),
		MaterialNo: materialNo,
		Width:      &width,
		Height:     &height,
		Comment:    comment,
	}, nil
}

func NewCircularSection(no, materialNo int, diameter float64, comment string) (Section, error) {
	if diameter <= 0 {
		return Section{}, fmt.Errorf("%w: circular section %d needs a diameter", ErrIncompleteSection, no)
	}
	return Section{
		No:         no,
		Type:       SectionCircular,
		Name:       fmt.Sprintf("CIRCLE_M1 %s", formatDim(diameter)),
		MaterialNo: materialNo,
		Diameter:   &diameter,
		Comment:    comment,
	}, nil
}

// NewSection dispatches to the per-type factory. Dimensions that do not
// belong to the type are ignored.
func NewSection(no int, typ SectionType, materialNo int, name string, width, height, diameter *float64, comment string) (Section, error) {
	switch typ {
	case SectionStandard:
		return NewStandardSection(no, materialNo, name, comment)
	case SectionRectangular:
		if width == nil || height == nil {
			return Section{}, fmt.Errorf("%w: rectangular section %d needs width and height", ErrIncompleteSection, no)
		}
		return NewRectangularSection(no, materialNo, *width, *height, comment)
	case SectionCircular:
		if diameter == nil {
			return Section{}, fmt.Errorf("%w: circular section %d needs a diameter", ErrIncompleteSection, no)
		}
		return NewCircularSection(no, materialNo, *diameter, comment)
	default:
		return Section{}, enumError("section_type", string(typ))
	}
}

type Thickness struct {
	No                int     `json:"no"`
	Name              string  `json:"name"`
	MaterialNo        int     `json:"material_no"`
	UniformThicknessD float64 `json:"uniform_thickness_d"`
	Comment           string  `json:"comment,omitempty"`
}

func NewThickness(no int, name string, materialNo int, d float64, comment string) (Thickness, error) {
	if d <= 0 {
		return Thickness{}, fmt.Errorf("%w: thickness %d has d=%g", ErrInvalidThickness, no, d)
	}
	return Thickness{No: no, Name: name, MaterialNo: materialNo, UniformThicknessD: d, Comment: comment}, nil
}

type Node struct {
	No      int     `json:"no"`
	X       float64 `json:"coordinate_X"`
	Y       float64 `json:"coordinate_Y"`
	Z       float64 `json:"coordinate_Z"`
	Comment string  `json:"comment,omitempty"`
}

type Member struct {
	No             int     `json:"no"`
	StartNodeNo    int     `json:"start_node_no"`
	EndNodeNo      int     `json:"end_node_no"`
	RotationAngle  float64 `json:"rotation_angle"`
	StartSectionNo int     `json:"start_section_no"`
	EndSectionNo   int     `json:"end_section_no"`
	StartHingeNo   int     `json:"start_member_hinge_no,omitempty"`
	EndHingeNo     int     `json:"end_member_hinge_no,omitempty"`
	LineNo         *int    `json:"line,omitempty"`
	Comment        string  `json:"comment,omitempty"`
}

type Surface struct {
	No            int    `json:"no"`
	ThicknessNo   int    `json:"thickness_no"`
	BoundaryLines []int  `json:"boundary_lines"`
	Comment       string `json:"comment,omitempty"`
}
