// Package chart defines the serialized output of the org chart core: the
// visible positioned cards, the connector routes and the viewport state,
// in one document.
//
// It is the wire format for JSON files, API responses and cached results.
// Renderers work from a [Chart] rather than from the live forest, so a chart
// loaded from disk or from a cache renders the same way.
package chart

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/orgchart/pkg/connector"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/viewport"
)

// =============================================================================
// Chart - Positioned Output
// =============================================================================

// Chart is a positioned, visible slice of an org forest.
type Chart struct {
	Title      string                `json:"title,omitempty" bson:"title,omitempty"`
	Cards      []Card                `json:"cards" bson:"cards"`
	Connectors []connector.Connector `json:"connectors" bson:"connectors"`
	Bounds     layout.Bounds         `json:"bounds" bson:"bounds"`
	Viewport   viewport.State        `json:"viewport" bson:"viewport"`
}

// Card is one visible node, ready to be drawn at (X, Y, Width, Height).
type Card struct {
	ID            string       `json:"id" bson:"id"`
	Type          org.NodeType `json:"type" bson:"type"`
	Label         string       `json:"label" bson:"label"`
	Subtitle      string       `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Color         string       `json:"color,omitempty" bson:"color,omitempty"`
	HierarchyID   string       `json:"hierarchy_id,omitempty" bson:"hierarchy_id,omitempty"`
	HierarchyPath []string     `json:"hierarchy_path,omitempty" bson:"hierarchy_path,omitempty"`
	ParentID      string       `json:"parent_id,omitempty" bson:"parent_id,omitempty"`

	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Level  int     `json:"level" bson:"level"`

	Expanded    bool `json:"expanded" bson:"expanded"`
	ChildCount  int  `json:"child_count,omitempty" bson:"child_count,omitempty"`
	HiddenCount int  `json:"hidden_count,omitempty" bson:"hidden_count,omitempty"`

	Email     string `json:"email,omitempty" bson:"email,omitempty"`
	IsManager bool   `json:"is_manager,omitempty" bson:"is_manager,omitempty"`
}

// CenterX returns the horizontal center of the card.
func (c Card) CenterX() float64 { return c.X + c.Width/2 }

// Collapsible reports whether the card can be toggled.
func (c Card) Collapsible() bool { return c.ChildCount > 0 }

// New builds a chart from a positioned forest. Only visible nodes become
// cards; connectors are routed between them.
func New(positioned []*org.Node, vp viewport.State) Chart {
	visible := org.Visible(positioned)
	parents := make(map[string]string, len(visible))
	for _, n := range visible {
		if n.IsExpanded {
			for _, c := range n.Children {
				parents[c.ID] = n.ID
			}
		}
	}

	cards := make([]Card, len(visible))
	for i, n := range visible {
		cards[i] = cardOf(n, parents[n.ID])
	}

	conns := connector.Route(positioned)
	if conns == nil {
		conns = []connector.Connector{}
	}
	return Chart{
		Cards:      cards,
		Connectors: conns,
		Bounds:     layout.BoundsOf(visible),
		Viewport:   vp,
	}
}

func cardOf(n *org.Node, parentID string) Card {
	c := Card{
		ID:            n.ID,
		Type:          n.Type,
		Label:         n.DisplayLabel(),
		Subtitle:      n.Subtitle,
		Color:         n.Color,
		HierarchyID:   n.HierarchyID,
		HierarchyPath: n.HierarchyPath,
		ParentID:      parentID,
		X:             n.X,
		Y:             n.Y,
		Width:         n.Width,
		Height:        n.Height,
		Level:         n.Level,
		Expanded:      n.IsExpanded,
		ChildCount:    len(n.Children),
		HiddenCount:   org.HiddenCount(n),
	}
	if n.Employee != nil {
		c.Email = n.Employee.Email
		c.IsManager = n.Employee.IsManager
	}
	return c
}

// Card returns the card with the given id.
func (c *Chart) Card(id string) (Card, bool) {
	for _, card := range c.Cards {
		if card.ID == id {
			return card, true
		}
	}
	return Card{}, false
}

// NodeCount returns the size of the forest the chart was cut from: the
// visible cards plus everything hidden under collapsed ones.
func (c *Chart) NodeCount() int {
	n := len(c.Cards)
	for _, card := range c.Cards {
		if !card.Expanded {
			n += card.HiddenCount
		}
	}
	return n
}

// IsEmpty reports whether the chart has nothing to draw.
func (c *Chart) IsEmpty() bool { return len(c.Cards) == 0 }

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a chart to pretty-printed JSON bytes.
func Marshal(c Chart) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Unmarshal deserializes JSON bytes into a chart and checks that every
// connector references a card.
func Unmarshal(data []byte) (Chart, error) {
	var c Chart
	if err := json.Unmarshal(data, &c); err != nil {
		return Chart{}, fmt.Errorf("unmarshal chart: %w", err)
	}
	ids := make(map[string]bool, len(c.Cards))
	for _, card := range c.Cards {
		if card.ID == "" {
			return Chart{}, fmt.Errorf("chart card without id")
		}
		ids[card.ID] = true
	}
	for _, conn := range c.Connectors {
		if !ids[conn.FromID] || !ids[conn.ToID] {
			return Chart{}, fmt.Errorf("connector %s->%s references an unknown card", conn.FromID, conn.ToID)
		}
	}
	return c, nil
}

// WriteFile writes a chart to a JSON file.
func WriteFile(c Chart, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads a chart from a JSON file.
func ReadFile(path string) (Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Chart{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
