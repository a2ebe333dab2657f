package model

import "strings"

type SectionType string

const (
	SectionStandard    SectionType = "STANDARD"
	SectionRectangular SectionType = "RECTANGULAR"
	SectionCircular    SectionType = "CIRCULAR"
)

var SectionTypes = []SectionType{SectionStandard, SectionRectangular, SectionCircular}

type LineType string

const (
	LinePolyline      LineType = "POLYLINE"
	LineArc           LineType = "ARC"
	LineCircle        LineType = "CIRCLE"
	LineEllipticalArc LineType = "ELLIPTICAL_ARC"
	LineEllipse       LineType = "ELLIPSE"
	LineParabola      LineType = "PARABOLA"
	LineSpline        LineType = "SPLINE"
	LineNURBS         LineType = "NURBS"
)

var LineTypes = []LineType{
	LinePolyline, LineArc, LineCircle, LineEllipticalArc,
	LineEllipse, LineParabola, LineSpline, LineNURBS,
}

type LoadType string

const (
	LoadNodal   LoadType = "NODAL"
	LoadMember  LoadType = "MEMBER"
	LoadSurface LoadType = "SURFACE"
	LoadLine    LoadType = "LINE"
)

var LoadTypes = []LoadType{LoadNodal, LoadMember, LoadSurface, LoadLine}

type NodalLoadDirection string

const (
	NodalGlobalX NodalLoadDirection = "LOAD_DIRECTION_GLOBAL_X_OR_USER_DEFINED_U"
	NodalGlobalY NodalLoadDirection = "LOAD_DIRECTION_GLOBAL_Y_OR_USER_DEFINED_V"
	NodalGlobalZ NodalLoadDirection = "LOAD_DIRECTION_GLOBAL_Z_OR_USER_DEFINED_W"
	NodalLocalX  NodalLoadDirection = "LOAD_DIRECTION_LOCAL_X"
	NodalLocalY  NodalLoadDirection = "LOAD_DIRECTION_LOCAL_Y"
	NodalLocalZ  NodalLoadDirection = "LOAD_DIRECTION_LOCAL_Z"
)

var NodalLoadDirections = []NodalLoadDirection{
	NodalGlobalX, NodalGlobalY, NodalGlobalZ, NodalLocalX, NodalLocalY, NodalLocalZ,
}

type MemberLoadDirection string

const (
	MemberGlobalXProjected MemberLoadDirection = "LOAD_DIRECTION_GLOBAL_X_OR_USER_DEFINED_U_PROJECTED"
	MemberGlobalXTrue      MemberLoadDirection = "LOAD_DIRECTION_GLOBAL_X_OR_USER_DEFINED_U_TRUE"
	MemberGlobalYProjected MemberLoadDirection = "LOAD_DIRECTION_GLOBAL_Y_OR_USER_DEFINED_V_PROJECTED"
	MemberGlobalYTrue      MemberLoadDirection = "LOAD_DIRECTION_GLOBAL_Y_OR_USER_DEFINED_V_TRUE"
	MemberGlobalZProjected MemberLoadDirection = "LOAD_DIRECTION_GLOBAL_Z_OR_USER_DEFINED_W_PROJECTED"
	MemberGlobalZTrue      MemberLoadDirection = "LOAD_DIRECTION_GLOBAL_Z_OR_USER_DEFINED_W_TRUE"
	MemberLocalX           MemberLoadDirection = "LOAD_DIRECTION_LOCAL_X"
	MemberLocalY           MemberLoadDirection = "LOAD_DIRECTION_LOCAL_Y"
	MemberLocalZ           MemberLoadDirection = "LOAD_DIRECTION_LOCAL_Z"
	MemberPrincipalU       MemberLoadDirection = "LOAD_DIRECTION_PRINCIPAL_U"
	MemberPrincipalV       MemberLoadDirection = "LOAD_DIRECTION_PRINCIPAL_V"
)

var MemberLoadDirections = []MemberLoadDirection{
	MemberGlobalXProjected, MemberGlobalXTrue,
	MemberGlobalYProjected, MemberGlobalYTrue,
	MemberGlobalZProjected, MemberGlobalZTrue,
	MemberLocalX, MemberLocalY, MemberLocalZ,
	MemberPrincipalU, MemberPrincipalV,
}

type LineLoadDirection string

const (
	LineGlobalXProjected LineLoadDirection = "LOAD_DIRECTION_GLOBAL_X_OR_USER_DEFINED_U_PROJECTED"
	LineGlobalXTrue      LineLoadDirection = "LOAD_DIRECTION_GLOBAL_X_OR_USER_DEFINED_U_TRUE"
	LineGlobalYProjected LineLoadDirection = "LOAD_DIRECTION_GLOBAL_Y_OR_USER_DEFINED_V_PROJECTED"
	LineGlobalYTrue      LineLoadDirection = "LOAD_DIRECTION_GLOBAL_Y_OR_USER_DEFINED_V_TRUE"
	LineGlobalZProjected LineLoadDirection = "LOAD_DIRECTION_GLOBAL_Z_OR_USER_DEFINED_W_PROJECTED"
	LineGlobalZTrue      LineLoadDirection = "LOAD_DIRECTION_GLOBAL_Z_OR_USER_DEFINED_W_TRUE"
	LineLocalX           LineLoadDirection = "LOAD_DIRECTION_LOCAL_X"
	LineLocalY           LineLoadDirection = "LOAD_DIRECTION_LOCAL_Y"
	LineLocalZ           LineLoadDirection = "LOAD_DIRECTION_LOCAL_Z"
)

var LineLoadDirections = []LineLoadDirection{
	LineGlobalXProjected, LineGlobalXTrue,
	LineGlobalYProjected, LineGlobalYTrue,
	LineGlobalZProjected, LineGlobalZTrue,
	LineLocalX, LineLocalY, LineLocalZ,
}

// InputType is the modality an IR instance was extracted from.
type InputType string

const (
	InputText  InputType = "text"
	InputImage InputType = "image"
	InputAudio InputType = "audio"
)

var InputTypes = []InputType{InputText, InputImage, InputAudio}

func ParseSectionType(raw string) (SectionType, error) {
	return parseEnum("section_type", raw, SectionTypes)
}

// ParseLineType accepts both "ARC" and the target API spelling "TYPE_ARC".
func ParseLineType(raw string) (LineType, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	v = strings.TrimPrefix(v, "TYPE_")
	return parseEnum("line type", v, LineTypes)
}

func ParseLoadType(raw string) (LoadType, error) {
	return parseEnum("load_type", raw, LoadTypes)
}

func ParseNodalLoadDirection(raw string) (NodalLoadDirection, error) {
	return parseEnum("nodal load_direction", raw, NodalLoadDirections)
}

func ParseMemberLoadDirection(raw string) (MemberLoadDirection, error) {
	return parseEnum("member load_direction", raw, MemberLoadDirections)
}

func ParseLineLoadDirection(raw string) (LineLoadDirection, error) {
	return parseEnum("line load_direction", raw, LineLoadDirections)
}

func ParseNodalSupportType(raw string) (NodalSupportType, error) {
	return parseEnum("nodal support", raw, NodalSupportTypes)
}

func ParseLineSupportType(raw string) (LineSupportType, error) {
	return parseEnum("line support_type", raw, LineSupportTypes)
}

func ParseInputType(raw string) (InputType, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, t := range InputTypes {
		if string(t) == v {
			return t, nil
		}
	}
	return "", enumError("input_type", raw)
}

func parseEnum[T ~string](field, raw string, allowed []T) (T, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	for _, a := range allowed {
		if string(a) == v {
			return a, nil
		}
	}
	var zero T
	return zero, enumError(field, raw)
}

// EnumValues converts a typed enum set into plain strings (schema building).
func EnumValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
