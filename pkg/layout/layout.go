package layout

import "github.com/matzehuels/orgchart/pkg/org"

// Reference spacing in pixels.
const (
	DefaultHorizontalSpacing = 20.0
	DefaultVerticalSpacing   = 300.0
)

// Config holds the spacing constants of the engine.
type Config struct {
	// HorizontalSpacing is the gap between adjacent sibling subtrees.
	HorizontalSpacing float64 `toml:"horizontal_spacing" json:"horizontal_spacing"`
	// VerticalSpacing is the distance between a parent's top edge and its
	// children's top edges.
	VerticalSpacing float64 `toml:"vertical_spacing" json:"vertical_spacing"`
}

// DefaultConfig returns the reference spacing (gap 20, level distance 300).
func DefaultConfig() Config {
	return Config{
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
	}
}

// SetDefaults fills non-positive vertical spacing and negative horizontal
// spacing. A zero horizontal gap is allowed.
func (c *Config) SetDefaults() {
	if c.HorizontalSpacing < 0 {
		c.HorizontalSpacing = DefaultHorizontalSpacing
	}
	if c.VerticalSpacing <= 0 {
		c.VerticalSpacing = DefaultVerticalSpacing
	}
}

// SubtreeWidth returns the horizontal space n and its visible descendants
// need.
func (c Config) SubtreeWidth(n *org.Node) float64 {
	if !n.IsExpanded || len(n.Children) == 0 {
		return n.Width
	}
	return max(n.Width, c.rowWidth(n.Children))
}

// rowWidth is the width of a row of sibling subtrees, gaps included.
func (c Config) rowWidth(nodes []*org.Node) float64 {
	var total float64
	for _, n := range nodes {
		total += c.SubtreeWidth(n)
	}
	if len(nodes) > 1 {
		total += c.HorizontalSpacing * float64(len(nodes)-1)
	}
	return total
}

// Layout returns a positioned copy of forest. The roots are centered as one
// row on startX with their top edges at startY; a single root is centered
// exactly on startX. The input forest is not modified.
func (c Config) Layout(forest []*org.Node, startX, startY float64) []*org.Node {
	out := org.CloneForest(forest)
	c.place(out, startX, startY, 0)
	return out
}

// Layout positions forest with the default configuration.
func Layout(forest []*org.Node, startX, startY float64) []*org.Node {
	return DefaultConfig().Layout(forest, startX, startY)
}

// place centers a row of sibling subtrees on centerX.
func (c Config) place(row []*org.Node, centerX, y float64, level int) {
	cursor := centerX - c.rowWidth(row)/2
	for _, n := range row {
		w := c.SubtreeWidth(n)
		c.position(n, cursor+w/2, y, level)
		cursor += w + c.HorizontalSpacing
	}
}

func (c Config) position(n *org.Node, centerX, y float64, level int) {
	n.X = centerX - n.Width/2
	n.Y = y
	n.Level = level
	if !n.IsExpanded || len(n.Children) == 0 {
		return
	}
	// Centering the row rather than starting at centerX - width(n)/2 only
	// differs when the node is wider than its children's row.
	c.place(n.Children, centerX, y+c.VerticalSpacing, level+1)
}
