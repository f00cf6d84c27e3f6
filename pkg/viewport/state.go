package viewport

import (
	"fmt"
	"strconv"
)

// Point is a 2-D offset in screen pixels.
type Point struct {
	X float64 `json:"x" bson:"x" toml:"x"`
	Y float64 `json:"y" bson:"y" toml:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Phase is the controller state.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Animating
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Animating:
		return "animating"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is a snapshot of the viewport.
type State struct {
	Zoom        float64 `json:"zoom" bson:"zoom"`
	Position    Point   `json:"position" bson:"position"`
	IsDragging  bool    `json:"is_dragging" bson:"is_dragging"`
	IsAnimating bool    `json:"is_animating" bson:"is_animating"`
}

// Transform is the combined translate+scale applied to the whole chart:
// screen = layout*Scale + Translate.
type Transform struct {
	Scale     float64
	Translate Point
}

// Transform returns the transform described by s.
func (s State) Transform() Transform {
	return Transform{Scale: s.Zoom, Translate: s.Position}
}

// Apply maps a layout point to screen coordinates.
func (t Transform) Apply(p Point) Point {
	return Point{p.X*t.Scale + t.Translate.X, p.Y*t.Scale + t.Translate.Y}
}

// Invert maps a screen point back to layout coordinates.
func (t Transform) Invert(p Point) Point {
	if t.Scale == 0 {
		return Point{}
	}
	return Point{(p.X - t.Translate.X) / t.Scale, (p.Y - t.Translate.Y) / t.Scale}
}

// SVG returns the transform as an SVG transform attribute value.
func (t Transform) SVG() string {
	return "translate(" + num(t.Translate.X) + " " + num(t.Translate.Y) + ") scale(" + num(t.Scale) + ")"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
