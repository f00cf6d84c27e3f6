// Package connector routes the orthogonal lines between parent and child
// cards.
//
// Every connector leaves its parent at the bottom-center, drops to the
// horizontal midpoint between the two cards, runs across to the child's
// center and drops into the child's top-center:
//
//	parent
//	   |
//	   +-------+   midY
//	           |
//	         child
//
// Connectors carry no state; they are recomputed from positions whenever
// the layout changes.
package connector

import (
	"strconv"
	"strings"

	"github.com/matzehuels/orgchart/pkg/org"
)

// Point is a position in layout coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Connector is the routed line from one parent to one child.
type Connector struct {
	FromID string  `json:"from" bson:"from"`
	ToID   string  `json:"to" bson:"to"`
	Start  Point   `json:"start" bson:"start"`
	End    Point   `json:"end" bson:"end"`
	MidY   float64 `json:"mid_y" bson:"mid_y"`
}

// Between routes the connector from parent to child.
func Between(parent, child *org.Node) Connector {
	start := Point{X: parent.X + parent.Width/2, Y: parent.Y + parent.Height}
	end := Point{X: child.X + child.Width/2, Y: child.Y}
	return Connector{
		FromID: parent.ID,
		ToID:   child.ID,
		Start:  start,
		End:    end,
		MidY:   start.Y + (end.Y-start.Y)/2,
	}
}

// Route returns one connector per visible (parent, child) pair of a
// positioned forest, in depth-first order of the children. Collapsed nodes
// contribute none.
func Route(forest []*org.Node) []Connector {
	var out []Connector
	for _, n := range org.Visible(forest) {
		if !n.IsExpanded {
			continue
		}
		for _, c := range n.Children {
			out = append(out, Between(n, c))
		}
	}
	return out
}

// Points returns the four corners of the route: start, the two turns on
// midY, and end. Segments alternate vertical, horizontal, vertical.
func (c Connector) Points() []Point {
	return []Point{
		c.Start,
		{X: c.Start.X, Y: c.MidY},
		{X: c.End.X, Y: c.MidY},
		c.End,
	}
}

// Path returns the route as SVG path data: "M x1 y1 V midY H x2 V y2".
func (c Connector) Path() string {
	var b strings.Builder
	b.WriteString("M ")
	b.WriteString(num(c.Start.X))
	b.WriteByte(' ')
	b.WriteString(num(c.Start.Y))
	b.WriteString(" V ")
	b.WriteString(num(c.MidY))
	b.WriteString(" H ")
	b.WriteString(num(c.End.X))
	b.WriteString(" V ")
	b.WriteString(num(c.End.Y))
	return b.String()
}

// IsStraight reports whether parent and child are vertically aligned, so the
// horizontal segment has zero length.
func (c Connector) IsStraight() bool { return c.Start.X == c.End.X }

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
