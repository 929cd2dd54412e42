package shapes

import (
	"encoding/json"
	"fmt"
	"math"
)

// Kind is the tag discriminating the six shape variants.
type Kind string

const (
	KindFreehand Kind = "freehand"
	KindLine     Kind = "line"
	KindRect     Kind = "rect"
	KindEllipse  Kind = "ellipse"
	KindArrow    Kind = "arrow"
	KindText     Kind = "text"
)

// Point is an integer pixel coordinate, matching the (i32,i32) points that
// make up a freehand stroke.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an axis-aligned bounding box in pixel space.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether the rectangle has non-positive width or height.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Union returns the smallest rect containing both r and o; an empty
// operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

func inflate(r Rect, margin float64) Rect {
	return Rect{r.X - margin, r.Y - margin, r.W + 2*margin, r.H + 2*margin}
}

// Shape is a closed sum type: rendering, bounding-box computation and
// serialization all dispatch on Kind() rather than through an interface
// hierarchy. Every field needed to redraw the shape from scratch is
// stored on the shape itself.
type Shape struct {
	kind Kind

	// Freehand
	Points    []Point `json:"points,omitempty"`
	Thickness float64 `json:"thickness,omitempty"`
	Color     Color   `json:"color,omitempty"`

	// Line / Rect / Ellipse / Arrow geometry (reused per-kind)
	X1, Y1, X2, Y2 float64 `json:"-"`
	X, Y, W, H     float64 `json:"-"`
	Cx, Cy, Rx, Ry float64 `json:"-"`

	HeadLength   float64 `json:"head_length,omitempty"`
	HeadAngleDeg float64 `json:"head_angle_deg,omitempty"`

	// Text
	Text               string         `json:"text,omitempty"`
	Size               float64        `json:"size,omitempty"`
	Font               FontDescriptor `json:"font,omitempty"`
	BackgroundEnabled  bool           `json:"background_enabled,omitempty"`
}

// Kind reports the shape's variant tag.
func (s Shape) Kind() Kind { return s.kind }

// NewFreehand builds a freehand stroke from an ordered point sequence.
func NewFreehand(points []Point, color Color, thickness float64) Shape {
	cp := make([]Point, len(points))
	copy(cp, points)
	return Shape{kind: KindFreehand, Points: cp, Color: color, Thickness: thickness}
}

// NewLine builds a line between two endpoints.
func NewLine(x1, y1, x2, y2 float64, color Color, thickness float64) Shape {
	return Shape{kind: KindLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Color: color, Thickness: thickness}
}

// NewRect normalizes a drag between two corners into a non-negative
// width/height rectangle per §4.1.
func NewRect(ax, ay, cx, cy float64, color Color, thickness float64) Shape {
	x := math.Min(ax, cx)
	y := math.Min(ay, cy)
	w := math.Abs(cx - ax)
	h := math.Abs(cy - ay)
	return Shape{kind: KindRect, X: x, Y: y, W: w, H: h, Color: color, Thickness: thickness}
}

// NewEllipse derives center/radii from two drag points per §4.1. The
// caller should check IsRenderable before drawing: a zero radius on
// either axis means the shape is not rendered.
func NewEllipse(x1, y1, x2, y2 float64, color Color, thickness float64) Shape {
	return Shape{
		kind: KindEllipse,
		Cx:   (x1 + x2) / 2, Cy: (y1 + y2) / 2,
		Rx: math.Abs(x2-x1) / 2, Ry: math.Abs(y2-y1) / 2,
		Color: color, Thickness: thickness,
	}
}

// NewArrow builds an arrow with its head at (x1,y1) and tail at (x2,y2).
func NewArrow(x1, y1, x2, y2 float64, color Color, thickness, headLength, headAngleDeg float64) Shape {
	return Shape{
		kind: KindArrow, X1: x1, Y1: y1, X2: x2, Y2: y2,
		Color: color, Thickness: thickness,
		HeadLength: headLength, HeadAngleDeg: headAngleDeg,
	}
}

// NewText builds a text shape at the given anchor.
func NewText(x, y float64, text string, color Color, size float64, font FontDescriptor, background bool) Shape {
	return Shape{
		kind: KindText, X: x, Y: y, Text: text, Color: color, Size: size,
		Font: font, BackgroundEnabled: background,
	}
}

// IsRenderable reports whether the shape should be painted: an ellipse
// with either radius zero is suppressed per §4.1.
func (s Shape) IsRenderable() bool {
	if s.kind == KindEllipse {
		return s.Rx > 0 && s.Ry > 0
	}
	return true
}

// ArrowHeadPoints returns the two leg endpoints of the arrowhead per the
// §4.1 geometry: φ = atan2(y2-y1, x2-x1), legs at φ±θ from the head.
func (s Shape) ArrowHeadPoints() (Point, Point) {
	phi := math.Atan2(s.Y2-s.Y1, s.X2-s.X1)
	theta := s.HeadAngleDeg * math.Pi / 180
	l := s.HeadLength
	leg := func(angle float64) Point {
		return Point{
			X: int(math.Round(s.X1 + l*math.Cos(angle))),
			Y: int(math.Round(s.Y1 + l*math.Sin(angle))),
		}
	}
	return leg(phi + theta), leg(phi - theta)
}

// BoundingBox computes the shape's axis-aligned bounding rectangle,
// inflated by ⌈thickness/2⌉ plus the antialias margin. Text uses the
// supplied metrics function to measure its rendered extent: the box
// spans the measured width and height above the baseline at (X, Y) and
// is not inflated; with a nil measureText its width is zero.
func (s Shape) BoundingBox(measureText func(Shape) (w, h float64)) Rect {
	switch s.kind {
	case KindFreehand:
		if len(s.Points) == 0 {
			return Rect{}
		}
		minX, minY := float64(s.Points[0].X), float64(s.Points[0].Y)
		maxX, maxY := minX, minY
		for _, p := range s.Points[1:] {
			minX = math.Min(minX, float64(p.X))
			minY = math.Min(minY, float64(p.Y))
			maxX = math.Max(maxX, float64(p.X))
			maxY = math.Max(maxY, float64(p.Y))
		}
		return inflate(Rect{minX, minY, maxX - minX, maxY - minY}, thicknessInflate(s.Thickness))
	case KindLine, KindArrow:
		minX := math.Min(s.X1, s.X2)
		minY := math.Min(s.Y1, s.Y2)
		maxX := math.Max(s.X1, s.X2)
		maxY := math.Max(s.Y1, s.Y2)
		r := Rect{minX, minY, maxX - minX, maxY - minY}
		if s.kind == KindArrow {
			a, b := s.ArrowHeadPoints()
			r = r.Union(Rect{float64(a.X), float64(a.Y), 0, 0})
			r = r.Union(Rect{float64(b.X), float64(b.Y), 0, 0})
		}
		return inflate(r, thicknessInflate(s.Thickness))
	case KindRect:
		w, h := s.W, s.H
		x, y := s.X, s.Y
		if w < 0 {
			x += w
			w = -w
		}
		if h < 0 {
			y += h
			h = -h
		}
		return inflate(Rect{x, y, w, h}, thicknessInflate(s.Thickness))
	case KindEllipse:
		return inflate(Rect{s.Cx - s.Rx, s.Cy - s.Ry, 2 * s.Rx, 2 * s.Ry}, thicknessInflate(s.Thickness))
	case KindText:
		w, h := 0.0, s.Size
		if measureText != nil {
			w, h = measureText(s)
		}
		return Rect{s.X, s.Y - h, w, h}
	default:
		return Rect{}
	}
}

// wireShape is the JSON representation: externally tagged by variant
// name, with geometry fields spelled out per-kind so the on-disk format
// matches §6 exactly.
type wireShape struct {
	Freehand *wireFreehand `json:"Freehand,omitempty"`
	Line     *wireLine     `json:"Line,omitempty"`
	Rect     *wireRect     `json:"Rect,omitempty"`
	Ellipse  *wireEllipse  `json:"Ellipse,omitempty"`
	Arrow    *wireArrow    `json:"Arrow,omitempty"`
	Text     *wireText     `json:"Text,omitempty"`
}

type wireFreehand struct {
	Points    [][2]int `json:"points"`
	Color     Color    `json:"color"`
	Thickness float64  `json:"thickness"`
}

type wireLine struct {
	X1, Y1, X2, Y2 float64
	Color          Color
	Thickness      float64
}

type wireRect struct {
	X, Y, W, H float64
	Color      Color
	Thickness  float64
}

type wireEllipse struct {
	Cx, Cy, Rx, Ry float64
	Color          Color
	Thickness      float64
}

type wireArrow struct {
	X1, Y1, X2, Y2           float64
	Color                    Color
	Thickness                float64
	HeadLength, HeadAngleDeg float64
}

type wireText struct {
	X, Y              float64
	Text              string
	Color             Color
	Size              float64
	Font              FontDescriptor
	BackgroundEnabled bool
}

// MarshalJSON externally tags the shape by variant name, matching the
// session file format in §6.
func (s Shape) MarshalJSON() ([]byte, error) {
	var w wireShape
	switch s.kind {
	case KindFreehand:
		pts := make([][2]int, len(s.Points))
		for i, p := range s.Points {
			pts[i] = [2]int{p.X, p.Y}
		}
		w.Freehand = &wireFreehand{Points: pts, Color: s.Color, Thickness: s.Thickness}
	case KindLine:
		w.Line = &wireLine{s.X1, s.Y1, s.X2, s.Y2, s.Color, s.Thickness}
	case KindRect:
		w.Rect = &wireRect{s.X, s.Y, s.W, s.H, s.Color, s.Thickness}
	case KindEllipse:
		w.Ellipse = &wireEllipse{s.Cx, s.Cy, s.Rx, s.Ry, s.Color, s.Thickness}
	case KindArrow:
		w.Arrow = &wireArrow{s.X1, s.Y1, s.X2, s.Y2, s.Color, s.Thickness, s.HeadLength, s.HeadAngleDeg}
	case KindText:
		w.Text = &wireText{s.X, s.Y, s.Text, s.Color, s.Size, s.Font, s.BackgroundEnabled}
	default:
		return nil, fmt.Errorf("shapes: unknown kind %q", s.kind)
	}
	return json.Marshal(w)
}

// UnmarshalJSON reverses MarshalJSON, tolerant of legacy files that may
// store negative Rect width/height (kept as stored; BoundingBox
// normalizes them).
func (s *Shape) UnmarshalJSON(data []byte) error {
	var w wireShape
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch {
	case w.Freehand != nil:
		pts := make([]Point, len(w.Freehand.Points))
		for i, p := range w.Freehand.Points {
			pts[i] = Point{p[0], p[1]}
		}
		*s = Shape{kind: KindFreehand, Points: pts, Color: w.Freehand.Color, Thickness: w.Freehand.Thickness}
	case w.Line != nil:
		l := w.Line
		*s = Shape{kind: KindLine, X1: l.X1, Y1: l.Y1, X2: l.X2, Y2: l.Y2, Color: l.Color, Thickness: l.Thickness}
	case w.Rect != nil:
		r := w.Rect
		*s = Shape{kind: KindRect, X: r.X, Y: r.Y, W: r.W, H: r.H, Color: r.Color, Thickness: r.Thickness}
	case w.Ellipse != nil:
		e := w.Ellipse
		*s = Shape{kind: KindEllipse, Cx: e.Cx, Cy: e.Cy, Rx: e.Rx, Ry: e.Ry, Color: e.Color, Thickness: e.Thickness}
	case w.Arrow != nil:
		a := w.Arrow
		*s = Shape{kind: KindArrow, X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2, Color: a.Color, Thickness: a.Thickness, HeadLength: a.HeadLength, HeadAngleDeg: a.HeadAngleDeg}
	case w.Text != nil:
		t := w.Text
		*s = Shape{kind: KindText, X: t.X, Y: t.Y, Text: t.Text, Color: t.Color, Size: t.Size, Font: t.Font, BackgroundEnabled: t.BackgroundEnabled}
	default:
		return fmt.Errorf("shapes: shape payload has no recognized variant")
	}
	return nil
}
