package builder

import "github.com/matzehuels/orgchart/pkg/org"

// Size is a card size in pixels.
type Size struct {
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
}

// DefaultPalette colors nodes by level when their department has no
// explicit color.
var DefaultPalette = []string{
	"#4C78A8", // level 0
	"#F58518",
	"#54A24B",
	"#B279A2",
	"#E45756",
}

// DefaultFallbackColor is used past the end of the palette.
const DefaultFallbackColor = "#9D9D9D"

// DefaultExpandDepth expands the roots and their direct children.
const DefaultExpandDepth = 1

// Options controls how payloads are turned into nodes.
type Options struct {
	// ExpandDepth: nodes at level <= ExpandDepth start expanded.
	// A negative value collapses everything, roots included.
	ExpandDepth int

	// Palette maps level to color. FallbackColor is used when the level is
	// past the end of Palette or Palette is empty.
	Palette       []string
	FallbackColor string

	DepartmentSize Size
	EmployeeSize   Size
}

// DefaultOptions returns the reference sizing: 280x140 cards for both node
// types, the default palette and expansion depth 1.
func DefaultOptions() Options {
	return Options{
		ExpandDepth:    DefaultExpandDepth,
		Palette:        DefaultPalette,
		FallbackColor:  DefaultFallbackColor,
		DepartmentSize: Size{Width: org.DefaultWidth, Height: org.DefaultHeight},
		EmployeeSize:   Size{Width: org.DefaultWidth, Height: org.DefaultHeight},
	}
}

// SetDefaults fills zero-valued sizes and the fallback color. Palette and
// ExpandDepth are left alone: an empty palette and depth 0 are meaningful.
func (o *Options) SetDefaults() {
	if o.DepartmentSize.Width <= 0 {
		o.DepartmentSize.Width = org.DefaultWidth
	}
	if o.DepartmentSize.Height <= 0 {
		o.DepartmentSize.Height = org.DefaultHeight
	}
	if o.EmployeeSize.Width <= 0 {
		o.EmployeeSize.Width = org.DefaultWidth
	}
	if o.EmployeeSize.Height <= 0 {
		o.EmployeeSize.Height = org.DefaultHeight
	}
	if o.FallbackColor == "" {
		o.FallbackColor = DefaultFallbackColor
	}
}

// LevelColor returns the palette color for level, or the fallback.
func (o Options) LevelColor(level int) string {
	if level >= 0 && level < len(o.Palette) {
		return o.Palette[level]
	}
	return o.FallbackColor
}
