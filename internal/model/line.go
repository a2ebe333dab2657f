package model

import (
	"encoding/json"
	"fmt"
)

const AlphaAdjustmentBeginningOfArc = "ALPHA_ADJUSTMENT_TARGET_BEGINNING_OF_ARC"

// Point3 is an [X, Y, Z] coordinate in meters.
type Point3 [3]float64

func NewPoint3(v []float64) (Point3, error) {
	if len(v) != 3 {
		return Point3{}, fmt.Errorf("%w: got %d", ErrInvalidPoint, len(v))
	}
	return Point3{v[0], v[1], v[2]}, nil
}

// LineGeometry is implemented by exactly one struct per LineType.
type LineGeometry interface {
	LineType() LineType
	isLineGeometry()
}

type Polyline struct{ Nodes []int }

type Arc struct {
	FirstNode             int
	SecondNode            int
	ControlPoint          Point3
	AlphaAdjustmentTarget string
}

type Circle struct {
	Center      Point3
	Radius      float64
	NormalPoint Point3
}

type EllipticalArc struct {
	FirstControlPoint     Point3
	SecondControlPoint    Point3
	PerimeterControlPoint Point3
	Alpha                 float64
	Beta                  float64
}

type Ellipse struct {
	FirstNode    int
	SecondNode   int
	ControlPoint Point3
}

type Parabola struct {
	FirstNode    int
	SecondNode   int
	ControlPoint Point3
	Alpha        float64
}

type Spline struct{ Nodes []int }

type NURBS struct {
	Nodes         []int
	ControlPoints []Point3
	Weights       []float64
	Order         int
}

func (Polyline) LineType() LineType      { return LinePolyline }
func (Arc) LineType() LineType           { return LineArc }
func (Circle) LineType() LineType        { return LineCircle }
func (EllipticalArc) LineType() LineType { return LineEllipticalArc }
func (Ellipse) LineType() LineType       { return LineEllipse }
func (Parabola) LineType() LineType      { return LineParabola }
func (Spline) LineType() LineType        { return LineSpline }
func (NURBS) LineType() LineType         { return LineNURBS }

func (Polyline) isLineGeometry()      {}
func (Arc) isLineGeometry()           {}
func (Circle) isLineGeometry()        {}
func (EllipticalArc) isLineGeometry() {}
func (Ellipse) isLineGeometry()       {}
func (Parabola) isLineGeometry()      {}
func (Spline) isLineGeometry()        {}
func (NURBS) isLineGeometry()         {}

type Line struct {
	No       int
	Comment  string
	Geometry LineGeometry
}

func (l Line) Type() LineType {
	if l.Geometry == nil {
		return ""
	}
	return l.Geometry.LineType()
}

func incompleteLine(no int, typ LineType, what string) error {
	return fmt.Errorf("%w: %s line %d %s", ErrIncompleteLine, typ, no, what)
}

func NewPolyline(no int, nodes []int, comment string) (Line, error) {
	if len(nodes) < 2 {
		return Line{}, incompleteLine(no, LinePolyline, "needs at least two nodes")
	}
	return Line{No: no, Comment: comment, Geometry: Polyline{Nodes: nodes}}, nil
}

func NewArc(no, firstNode, secondNode int, controlPoint Point3, comment string) (Line, error) {
	if firstNode == 0 || secondNode == 0 {
		return Line{}, incompleteLine(no, LineArc, "needs two end nodes")
	}
	return Line{No: no, Comment: comment, Geometry: Arc{
		FirstNode:             firstNode,
		SecondNode:            secondNode,
		ControlPoint:          controlPoint,
		AlphaAdjustmentTarget: AlphaAdjustmentBeginningOfArc,
	}}, nil
}

func NewCircle(no int, center Point3, radius float64, normalPoint Point3, comment string) (Line, error) {
	if radius <= 0 {
		return Line{}, incompleteLine(no, LineCircle, "needs a positive radius")
	}
	return Line{No: no, Comment: comment, Geometry: Circle{Center: center, Radius: radius, NormalPoint: normalPoint}}, nil
}

func NewEllipticalArc(no int, p1, p2, p3 Point3, alpha, beta float64, comment string) (Line, error) {
	return Line{No: no, Comment: comment, Geometry: EllipticalArc{
		FirstControlPoint:     p1,
		SecondControlPoint:    p2,
		PerimeterControlPoint: p3,
		Alpha:                 alpha,
		Beta:                  beta,
	}}, nil
}

func NewEllipse(no, firstNode, secondNode int, controlPoint Point3, comment string) (Line, error) {
	if firstNode == 0 || secondNode == 0 {
		return Line{}, incompleteLine(no, LineEllipse, "needs two nodes")
	}
	return Line{No: no, Comment: comment, Geometry: Ellipse{FirstNode: firstNode, SecondNode: secondNode, ControlPoint: controlPoint}}, nil
}

func NewParabola(no, firstNode, secondNode int, controlPoint Point3, alpha float64, comment string) (Line, error) {
	if firstNode == 0 || secondNode == 0 {
		return Line{}, incompleteLine(no, LineParabola, "needs two end nodes")
	}
	return Line{No: no, Comment: comment, Geometry: Parabola{FirstNode: firstNode, SecondNode: secondNode, ControlPoint: controlPoint, Alpha: alpha}}, nil
}

func NewSpline(no int, nodes []int, comment string) (Line, error) {
	if len(nodes) < 2 {
		return Line{}, incompleteLine(no, LineSpline, "needs at least two nodes")
	}
	return Line{No: no, Comment: comment, Geometry: Spline{Nodes: nodes}}, nil
}

func NewNURBS(no int, nodes []int, controlPoints []Point3, weights []float64, order int, comment string) (Line, error) {
	if len(nodes) < 2 {
		return Line{}, incompleteLine(no, LineNURBS, "needs at least two nodes")
	}
	if len(weights) > 0 && len(weights) != len(controlPoints) {
		return Line{}, incompleteLine(no, LineNURBS, "needs one weight per control point")
	}
	return Line{No: no, Comment: comment, Geometry: NURBS{Nodes: nodes, ControlPoints: controlPoints, Weights: weights, Order: order}}, nil
}

// lineWire is the flat representation used by the extraction payload.
type lineWire struct {
	No      int      `json:"no"`
	Type    string   `json:"type"`
	NodesNo *TagList `json:"nodes_no,omitempty"`
	Comment string   `json:"comment,omitempty"`

	ArcFirstNode          int       `json:"arc_first_node,omitempty"`
	ArcSecondNode         int       `json:"arc_second_node,omitempty"`
	ControlPoint          []float64 `json:"control_point,omitempty"`
	AlphaAdjustmentTarget string    `json:"alpha_adjustment_target,omitempty"`

	CircleCenter      []float64 `json:"circle_center_coordinate,omitempty"`
	CircleRadius      float64   `json:"circle_radius,omitempty"`
	CircleNormalPoint []float64 `json:"point_of_normal_to_circle_plane,omitempty"`

	EllipticalArcFirst     []float64 `json:"elliptical_arc_first_control_point,omitempty"`
	EllipticalArcSecond    []float64 `json:"elliptical_arc_second_control_point,omitempty"`
	EllipticalArcPerimeter []float64 `json:"elliptical_arc_perimeter_control_point,omitempty"`
	ArcAngleAlpha          float64   `json:"arc_angle_alpha,omitempty"`
	ArcAngleBeta           float64   `json:"arc_angle_beta,omitempty"`

	EllipseFirstNode    int       `json:"ellipse_first_node,omitempty"`
	EllipseSecondNode   int       `json:"ellipse_second_node,omitempty"`
	EllipseControlPoint []float64 `json:"ellipse_control_point,omitempty"`

	ParabolaFirstNode    int       `json:"parabola_first_node,omitempty"`
	ParabolaSecondNode   int       `json:"parabola_second_node,omitempty"`
	ParabolaControlPoint []float64 `json:"parabola_control_point,omitempty"`
	ParabolaAlpha        float64   `json:"parabola_alpha,omitempty"`

	ControlPoints [][]float64 `json:"control_points,omitempty"`
	Weights       []float64   `json:"weights,omitempty"`
	Order         int         `json:"order,omitempty"`
}

func (w lineWire) nodes() []int {
	if w.NodesNo == nil {
		return nil
	}
	return []int(*w.NodesNo)
}

// endNodes prefers the variant-specific node fields and falls back to nodes_no.
func (w lineWire) endNodes(first, second int) (int, int) {
	if first != 0 && second != 0 {
		return first, second
	}
	if n := w.nodes(); len(n) >= 2 {
		return n[0], n[1]
	}
	return first, second
}

func (w lineWire) point(no int, typ LineType, field string, v []float64) (Point3, error) {
	p, err := NewPoint3(v)
	if err != nil {
		return Point3{}, incompleteLine(no, typ, "has invalid "+field)
	}
	return p, nil
}

func (w lineWire) build() (Line, error) {
	typ := LinePolyline
	if w.Type != "" {
		t, err := ParseLineType(w.Type)
		if err != nil {
			return Line{}, err
		}
		typ = t
	}
	switch typ {
	case LinePolyline:
		return NewPolyline(w.No, w.nodes(), w.Comment)
	case LineArc:
		cp, err := w.point(w.No, typ, "control_point", w.ControlPoint)
		if err != nil {
			return Line{}, err
		}
		a, b := w.endNodes(w.ArcFirstNode, w.ArcSecondNode)
		return NewArc(w.No, a, b, cp, w.Comment)
	case LineCircle:
		c, err := w.point(w.No, typ, "circle_center_coordinate", w.CircleCenter)
		if err != nil {
			return Line{}, err
		}
		n, err := w.point(w.No, typ, "point_of_normal_to_circle_plane", w.CircleNormalPoint)
		if err != nil {
			return Line{}, err
		}
		return NewCircle(w.No, c, w.CircleRadius, n, w.Comment)
	case LineEllipticalArc:
		p1, err := w.point(w.No, typ, "elliptical_arc_first_control_point", w.EllipticalArcFirst)
		if err != nil {
			return Line{}, err
		}
		p2, err := w.point(w.No, typ, "elliptical_arc_second_control_point", w.EllipticalArcSecond)
		if err != nil {
			return Line{}, err
		}
		p3, err := w.point(w.No, typ, "elliptical_arc_perimeter_control_point", w.EllipticalArcPerimeter)
		if err != nil {
			return Line{}, err
		}
		return NewEllipticalArc(w.No, p1, p2, p3, w.ArcAngleAlpha, w.ArcAngleBeta, w.Comment)
	case LineEllipse:
		cp, err := w.point(w.No, typ, "ellipse_control_point", w.EllipseControlPoint)
		if err != nil {
			return Line{}, err
		}
		a, b := w.endNodes(w.EllipseFirstNode, w.EllipseSecondNode)
		return NewEllipse(w.No, a, b, cp, w.Comment)
	case LineParabola:
		cp, err := w.point(w.No, typ, "parabola_control_point", w.ParabolaControlPoint)
		if err != nil {
			return Line{}, err
		}
		a, b := w.endNodes(w.ParabolaFirstNode, w.ParabolaSecondNode)
		return NewParabola(w.No, a, b, cp, w.ParabolaAlpha, w.Comment)
	case LineSpline:
		return NewSpline(w.No, w.nodes(), w.Comment)
	default:
		pts := make([]Point3, 0, len(w.ControlPoints))
		for _, raw := range w.ControlPoints {
			p, err := w.point(w.No, typ, "control_points", raw)
			if err != nil {
				return Line{}, err
			}
			pts = append(pts, p)
		}
		return NewNURBS(w.No, w.nodes(), pts, w.Weights, w.Order, w.Comment)
	}
}

func (l *Line) UnmarshalJSON(b []byte) error {
	var w lineWire
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

func (l Line) MarshalJSON() ([]byte, error) {
	w := lineWire{No: l.No, Type: string(l.Type()), Comment: l.Comment}
	tags := func(n []int) *TagList {
		t := TagList(n)
		return &t
	}
	switch g := l.Geometry.(type) {
	case Polyline:
		w.NodesNo = tags(g.Nodes)
	case Arc:
		w.NodesNo = tags([]int{g.FirstNode, g.SecondNode})
		w.ArcFirstNode, w.ArcSecondNode = g.FirstNode, g.SecondNode
		w.ControlPoint = g.ControlPoint[:]
		w.AlphaAdjustmentTarget = g.AlphaAdjustmentTarget
	case Circle:
		w.CircleCenter = g.Center[:]
		w.CircleRadius = g.Radius
		w.CircleNormalPoint = g.NormalPoint[:]
	case EllipticalArc:
		w.EllipticalArcFirst = g.FirstControlPoint[:]
		w.EllipticalArcSecond = g.SecondControlPoint[:]
		w.EllipticalArcPerimeter = g.PerimeterControlPoint[:]
		w.ArcAngleAlpha, w.ArcAngleBeta = g.Alpha, g.Beta
	case Ellipse:
		w.NodesNo = tags([]int{g.FirstNode, g.SecondNode})
		w.EllipseFirstNode, w.EllipseSecondNode = g.FirstNode, g.SecondNode
		w.EllipseControlPoint = g.ControlPoint[:]
	case Parabola:
		w.NodesNo = tags([]int{g.FirstNode, g.SecondNode})
		w.ParabolaFirstNode, w.ParabolaSecondNode = g.FirstNode, g.SecondNode
		w.ParabolaControlPoint = g.ControlPoint[:]
		w.ParabolaAlpha = g.Alpha
	case Spline:
		w.NodesNo = tags(g.Nodes)
	case NURBS:
		w.NodesNo = tags(g.Nodes)
		for _, p := range g.ControlPoints {
			w.ControlPoints = append(w.ControlPoints, []float64{p[0], p[1], p[2]})
		}
		w.Weights = g.Weights
		w.Order = g.Order
	}
	return json.Marshal(w)
}
