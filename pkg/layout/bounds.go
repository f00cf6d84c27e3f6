package layout

import (
	"math"

	"github.com/matzehuels/orgchart/pkg/org"
)

// Bounds is an axis-aligned box in layout coordinates.
type Bounds struct {
	MinX float64 `json:"min_x" bson:"min_x"`
	MinY float64 `json:"min_y" bson:"min_y"`
	MaxX float64 `json:"max_x" bson:"max_x"`
	MaxY float64 `json:"max_y" bson:"max_y"`
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// CenterX returns the horizontal center.
func (b Bounds) CenterX() float64 { return (b.MinX + b.MaxX) / 2 }

// CenterY returns the vertical center.
func (b Bounds) CenterY() float64 { return (b.MinY + b.MaxY) / 2 }

// IsEmpty reports whether the box has no area.
func (b Bounds) IsEmpty() bool { return b.Width() <= 0 || b.Height() <= 0 }

// Pad returns b grown by margin on every side.
func (b Bounds) Pad(margin float64) Bounds {
	return Bounds{MinX: b.MinX - margin, MinY: b.MinY - margin, MaxX: b.MaxX + margin, MaxY: b.MaxY + margin}
}

// BoundsOf returns the box enclosing every node's card. Pass the visible
// list: hidden nodes carry stale coordinates. An empty list yields the zero
// Bounds.
func BoundsOf(nodes []*org.Node) Bounds {
	if len(nodes) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, n := range nodes {
		b.MinX = min(b.MinX, n.X)
		b.MinY = min(b.MinY, n.Y)
		b.MaxX = max(b.MaxX, n.X+n.Width)
		b.MaxY = max(b.MaxY, n.Y+n.Height)
	}
	return b
}
