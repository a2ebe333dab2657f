package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type NodalSupportType string

const (
	NodalFixed     NodalSupportType = "FIXED"
	NodalHinged    NodalSupportType = "HINGED"
	NodalRoller    NodalSupportType = "ROLLER"
	NodalRollerInX NodalSupportType = "ROLLER_IN_X"
	NodalRollerInY NodalSupportType = "ROLLER_IN_Y"
	NodalRollerInZ NodalSupportType = "ROLLER_IN_Z"
	NodalFree      NodalSupportType = "FREE"
)

var NodalSupportTypes = []NodalSupportType{
	NodalFixed, NodalHinged, NodalRoller, NodalRollerInX, NodalRollerInY, NodalRollerInZ, NodalFree,
}

type LineSupportType string

const (
	LineFixed          LineSupportType = "FIXED"
	LineHinged         LineSupportType = "HINGED"
	LineSlidingInXAndY LineSupportType = "SLIDING_IN_X_AND_Y"
	LineSlidingInX     LineSupportType = "SLIDING_IN_X"
	LineSlidingInY     LineSupportType = "SLIDING_IN_Y"
	LineSlidingInZ     LineSupportType = "SLIDING_IN_Z"
	LineFree           LineSupportType = "FREE"
)

var LineSupportTypes = []LineSupportType{
	LineFixed, LineHinged, LineSlidingInXAndY, LineSlidingInX, LineSlidingInY, LineSlidingInZ, LineFree,
}

// StiffnessVector holds translational (ux, uy, uz) then rotational (phix,
// phiy, phiz) spring constants. +Inf means fully restrained.
type StiffnessVector [6]float64

func NewStiffnessVector(v []float64) (StiffnessVector, error) {
	if len(v) != 6 {
		return StiffnessVector{}, fmt.Errorf("%w: got %d", ErrInvalidSupportVector, len(v))
	}
	var out StiffnessVector
	copy(out[:], v)
	return out, nil
}

// NodalCondition is either a NodalSupportType or a StiffnessVector.
type NodalCondition interface{ isNodalCondition() }

// LineCondition is either a LineSupportType or a StiffnessVector.
type LineCondition interface{ isLineCondition() }

func (NodalSupportType) isNodalCondition() {}
func (StiffnessVector) isNodalCondition()  {}
func (LineSupportType) isLineCondition()   {}
func (StiffnessVector) isLineCondition()   {}

var inf = math.Inf(1)

func (t NodalSupportType) Stiffness() StiffnessVector {
	switch t {
	case NodalFixed:
		return StiffnessVector{inf, inf, inf, inf, inf, inf}
	case NodalHinged:
		return StiffnessVector{inf, inf, inf, 0, 0, inf}
	case NodalRoller:
		return StiffnessVector{0, 0, inf, 0, 0, inf}
	case NodalRollerInX:
		return StiffnessVector{0, inf, inf, 0, 0, inf}
	case NodalRollerInY:
		return StiffnessVector{inf, 0, inf, 0, 0, inf}
	case NodalRollerInZ:
		return StiffnessVector{inf, inf, 0, 0, 0, inf}
	default:
		return StiffnessVector{}
	}
}

// Stiffness of LineFree is all zero: an unconstrained edge.
func (t LineSupportType) Stiffness() StiffnessVector {
	switch t {
	case LineFixed:
		return StiffnessVector{inf, inf, inf, inf, inf, inf}
	case LineHinged:
		return StiffnessVector{inf, inf, inf, 0, 0, 0}
	case LineSlidingInXAndY:
		return StiffnessVector{0, 0, inf, 0, 0, inf}
	case LineSlidingInX:
		return StiffnessVector{0, inf, inf, 0, 0, inf}
	case LineSlidingInY:
		return StiffnessVector{inf, 0, inf, 0, 0, inf}
	case LineSlidingInZ:
		return StiffnessVector{inf, inf, 0, 0, 0, inf}
	default:
		return StiffnessVector{}
	}
}

// Support is either a NodalSupport or a LineSupport.
type Support interface {
	SupportNo() int
	isSupport()
}

type NodalSupport struct {
	No        int
	Nodes     []int
	Condition NodalCondition
	Comment   string
}

type LineSupport struct {
	No        int
	Lines     []int
	Condition LineCondition
	Comment   string
}

func (s NodalSupport) SupportNo() int { return s.No }
func (s LineSupport) SupportNo() int  { return s.No }
func (NodalSupport) isSupport()       {}
func (LineSupport) isSupport()        {}

// supportWire covers both support shapes. "support" carries the nodal
// condition and "support_type" the line condition; either may be an enum
// name or a 6-value list. A non-null "stiffness" list overrides both.
type supportWire struct {
	No          int             `json:"no"`
	Kind        string          `json:"kind,omitempty"`
	NodesNo     *TagList        `json:"nodes_no,omitempty"`
	LinesNo     *TagList        `json:"lines_no,omitempty"`
	Support     json.RawMessage `json:"support,omitempty"`
	SupportType json.RawMessage `json:"support_type,omitempty"`
	Stiffness   json.RawMessage `json:"stiffness,omitempty"`
	Comment     string          `json:"comment,omitempty"`
}

func (w supportWire) isLine() bool {
	switch w.Kind {
	case "LINE", "line":
		return true
	case "NODAL", "nodal":
		return false
	}
	return w.LinesNo != nil && w.NodesNo == nil
}

func isNullRaw(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// conditionRaw splits a raw condition into its enum name or vector form.
func conditionRaw(raw json.RawMessage) (name string, vec []float64, isVec bool, err error) {
	if isNullRaw(raw) {
		return "", nil, false, nil
	}
	if err := json.Unmarshal(raw, &name); err == nil {
		return name, nil, false, nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return "", nil, false, fmt.Errorf("model: support condition must be a name or a list: %w", err)
	}
	vec = make([]float64, 0, len(items))
	for _, it := range items {
		switch x := it.(type) {
		case float64:
			vec = append(vec, x)
		case string:
			switch strings.ToLower(strings.TrimPrefix(x, "+")) {
			case "inf", "infinity":
				vec = append(vec, inf)
			default:
				return "", nil, false, fmt.Errorf("model: invalid stiffness value %q", x)
			}
		default:
			return "", nil, false, fmt.Errorf("model: invalid stiffness value %v", it)
		}
	}
	return "", vec, true, nil
}

func (w supportWire) build() (Support, error) {
	raw := w.Support
	if isNullRaw(raw) {
		raw = w.SupportType
	}
	if !isNullRaw(w.Stiffness) {
		raw = w.Stiffness
	}
	name, vec, isVec, err := conditionRaw(raw)
	if err != nil {
		return nil, err
	}
	if w.isLine() {
		s := LineSupport{No: w.No, Comment: w.Comment}
		if w.LinesNo != nil {
			s.Lines = []int(*w.LinesNo)
		}
		switch {
		case isVec:
			v, err := NewStiffnessVector(vec)
			if err != nil {
				return nil, err
			}
			s.Condition = v
		case name == "":
			s.Condition = LineHinged
		default:
			t, err := ParseLineSupportType(name)
			if err != nil {
				return nil, err
			}
			s.Condition = t
		}
		return s, nil
	}
	s := NodalSupport{No: w.No, Comment: w.Comment}
	if w.NodesNo != nil {
		s.Nodes = []int(*w.NodesNo)
	}
	switch {
	case isVec:
		v, err := NewStiffnessVector(vec)
		if err != nil {
			return nil, err
		}
		s.Condition = v
	case name == "":
		s.Condition = NodalHinged
	default:
		t, err := ParseNodalSupportType(name)
		if err != nil {
			return nil, err
		}
		s.Condition = t
	}
	return s, nil
}

func conditionJSON(c any) json.RawMessage {
	var b []byte
	switch v := c.(type) {
	case StiffnessVector:
		vals := make([]any, len(v))
		for i, f := range v {
			if math.IsInf(f, 1) {
				vals[i] = "inf"
			} else {
				vals[i] = f
			}
		}
		b, _ = json.Marshal(vals)
	default:
		b, _ = json.Marshal(v)
	}
	return b
}

func (s NodalSupport) MarshalJSON() ([]byte, error) {
	nodes := TagList(s.Nodes)
	return json.Marshal(supportWire{No: s.No, Kind: "NODAL", NodesNo: &nodes, Support: conditionJSON(s.Condition), Comment: s.Comment})
}

func (s LineSupport) MarshalJSON() ([]byte, error) {
	lines := TagList(s.Lines)
	return json.Marshal(supportWire{No: s.No, Kind: "LINE", LinesNo: &lines, SupportType: conditionJSON(s.Condition), Comment: s.Comment})
}

// DecodeSupport builds a NodalSupport or LineSupport from its wire form.
func DecodeSupport(raw json.RawMessage) (Support, error) {
	var w supportWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return w.build()
}
