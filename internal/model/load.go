package model

import (
	"encoding/json"
	"fmt"
)

// LoadDetail is implemented by exactly one struct per LoadType. Each variant
// keeps the raw target string the applied tags were parsed from.
type LoadDetail interface {
	LoadType() LoadType
	Target() string
	isLoadDetail()
}

type NodalLoad struct {
	NodesNo   string
	Direction NodalLoadDirection
}

type MemberLoad struct {
	MembersNo string
	Direction MemberLoadDirection
}

type SurfaceLoad struct {
	SurfacesNo string
}

type LineLoad struct {
	LinesNo   string
	Direction LineLoadDirection
}

func (NodalLoad) LoadType() LoadType   { return LoadNodal }
func (MemberLoad) LoadType() LoadType  { return LoadMember }
func (SurfaceLoad) LoadType() LoadType { return LoadSurface }
func (LineLoad) LoadType() LoadType    { return LoadLine }

func (d NodalLoad) Target() string   { return d.NodesNo }
func (d MemberLoad) Target() string  { return d.MembersNo }
func (d SurfaceLoad) Target() string { return d.SurfacesNo }
func (d LineLoad) Target() string    { return d.LinesNo }

func (NodalLoad) isLoadDetail()   {}
func (MemberLoad) isLoadDetail()  {}
func (SurfaceLoad) isLoadDetail() {}
func (LineLoad) isLoadDetail()    {}

// Load is a single load assigned to a load case. AppliedTo is always parsed
// from Detail.Target() by the constructors.
type Load struct {
	No         int
	LoadCaseNo int
	Magnitude  float64
	AppliedTo  []int
	Comment    string
	Detail     LoadDetail
}

func (l Load) Type() LoadType {
	if l.Detail == nil {
		return ""
	}
	return l.Detail.LoadType()
}

// NewLoad builds a load from a declared type and its detail.
func NewLoad(no, loadCaseNo int, typ LoadType, detail LoadDetail, magnitude float64, comment string) (Load, error) {
	if detail == nil {
		return Load{}, fmt.Errorf("%w: %s load %d", ErrMissingLoadDetail, typ, no)
	}
	if detail.LoadType() != typ {
		return Load{}, fmt.Errorf("%w: declared %s, got %s detail", ErrLoadTypeMismatch, typ, detail.LoadType())
	}
	applied, err := ParseTags(detail.Target())
	if err != nil {
		return Load{}, fmt.Errorf("load %d: %w", no, err)
	}
	return Load{
		No:         no,
		LoadCaseNo: loadCaseNo,
		Magnitude:  magnitude,
		AppliedTo:  applied,
		Comment:    comment,
		Detail:     detail,
	}, nil
}

func NewNodalLoad(no, loadCaseNo int, nodesNo string, dir NodalLoadDirection, magnitude float64, comment string) (Load, error) {
	return NewLoad(no, loadCaseNo, LoadNodal, NodalLoad{NodesNo: nodesNo, Direction: dir}, magnitude, comment)
}

func NewMemberLoad(no, loadCaseNo int, membersNo string, dir MemberLoadDirection, magnitude float64, comment string) (Load, error) {
	return NewLoad(no, loadCaseNo, LoadMember, MemberLoad{MembersNo: membersNo, Direction: dir}, magnitude, comment)
}

func NewSurfaceLoad(no, loadCaseNo int, surfacesNo string, magnitude float64, comment string) (Load, error) {
	return NewLoad(no, loadCaseNo, LoadSurface, SurfaceLoad{SurfacesNo: surfacesNo}, magnitude, comment)
}

func NewLineLoad(no, loadCaseNo int, linesNo string, dir LineLoadDirection, magnitude float64, comment string) (Load, error) {
	return NewLoad(no, loadCaseNo, LoadLine, LineLoad{LinesNo: linesNo, Direction: dir}, magnitude, comment)
}

type subLoadWire struct {
	LoadDirection string   `json:"load_direction,omitempty"`
	NodesNo       *TagList `json:"nodes_no,omitempty"`
	MembersNo     *TagList `json:"members_no,omitempty"`
	SurfaceNo     *TagList `json:"surface_no,omitempty"`
	LinesNo       *TagList `json:"lines_no,omitempty"`
	Magnitude     *float64 `json:"magnitude,omitempty"`
}

type loadWire struct {
	No          int          `json:"no"`
	LoadCaseNo  int          `json:"load_case_no"`
	LoadType    string       `json:"load_type"`
	Magnitude   *float64     `json:"magnitude,omitempty"`
	AppliedTo   []int        `json:"applied_to,omitempty"`
	Comment     string       `json:"comment,omitempty"`
	NodalLoad   *subLoadWire `json:"nodal_load,omitempty"`
	MemberLoad  *subLoadWire `json:"member_load,omitempty"`
	SurfaceLoad *subLoadWire `json:"surface_load,omitempty"`
	LineLoad    *subLoadWire `json:"line_load,omitempty"`
}

func (w loadWire) sub(t LoadType) *subLoadWire {
	switch t {
	case LoadNodal:
		return w.NodalLoad
	case LoadMember:
		return w.MemberLoad
	case LoadSurface:
		return w.SurfaceLoad
	default:
		return w.LineLoad
	}
}

// target prefers the sub-load's own identifier list, falling back to the
// comma-joined applied_to list of the payload.
func (w loadWire) target(own *TagList) string {
	if own != nil && len(*own) > 0 {
		return JoinTags(*own, ",")
	}
	return JoinTags(w.AppliedTo, ",")
}

func (w loadWire) build() (Load, error) {
	typ, err := ParseLoadType(w.LoadType)
	if err != nil {
		return Load{}, err
	}
	sub := w.sub(typ)
	if sub == nil {
		for _, other := range LoadTypes {
			if other != typ && w.sub(other) != nil {
				return Load{}, fmt.Errorf("%w: load %d declared %s but carries %s detail", ErrLoadTypeMismatch, w.No, typ, other)
			}
		}
		return Load{}, fmt.Errorf("%w: %s load %d", ErrMissingLoadDetail, typ, w.No)
	}
	lc := w.LoadCaseNo
	if lc == 0 {
		lc = 1
	}
	var magnitude float64
	switch {
	case w.Magnitude != nil:
		magnitude = *w.Magnitude
	case sub.Magnitude != nil:
		magnitude = *sub.Magnitude
	}
	switch typ {
	case LoadNodal:
		dir, err := ParseNodalLoadDirection(orDefault(sub.LoadDirection, string(NodalGlobalZ)))
		if err != nil {
			return Load{}, err
		}
		return NewNodalLoad(w.No, lc, w.target(sub.NodesNo), dir, magnitude, w.Comment)
	case LoadMember:
		dir, err := ParseMemberLoadDirection(orDefault(sub.LoadDirection, string(MemberGlobalZTrue)))
		if err != nil {
			return Load{}, err
		}
		return NewMemberLoad(w.No, lc, w.target(sub.MembersNo), dir, magnitude, w.Comment)
	case LoadSurface:
		return NewSurfaceLoad(w.No, lc, w.target(sub.SurfaceNo), magnitude, w.Comment)
	default:
		dir, err := ParseLineLoadDirection(orDefault(sub.LoadDirection, string(LineGlobalZTrue)))
		if err != nil {
			return Load{}, err
		}
		return NewLineLoad(w.No, lc, w.target(sub.LinesNo), dir, magnitude, w.Comment)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (l *Load) UnmarshalJSON(b []byte) error {
	var w loadWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	built, err := w.build()
	if err != nil {
		return err
	}
	*l = built
	return nil
}

func (l Load) MarshalJSON() ([]byte, error) {
	mag := l.Magnitude
	w := loadWire{
		No:         l.No,
		LoadCaseNo: l.LoadCaseNo,
		LoadType:   string(l.Type()),
		Magnitude:  &mag,
		AppliedTo:  l.AppliedTo,
		Comment:    l.Comment,
	}
	tags := TagList(l.AppliedTo)
	switch d := l.Detail.(type) {
	case NodalLoad:
		w.NodalLoad = &subLoadWire{LoadDirection: string(d.Direction), NodesNo: &tags}
	case MemberLoad:
		w.MemberLoad = &subLoadWire{LoadDirection: string(d.Direction), MembersNo: &tags}
	case SurfaceLoad:
		w.SurfaceLoad = &subLoadWire{SurfaceNo: &tags}
	case LineLoad:
		w.LineLoad = &subLoadWire{LoadDirection: string(d.Direction), LinesNo: &tags}
	}
	return json.Marshal(w)
}
