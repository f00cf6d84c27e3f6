package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/viewport"
)

const cardCSS = `
    .card { stroke: #444; stroke-width: 1.5; fill: #fff; }
    .card-band { stroke: none; }
    .card-label { font-family: Helvetica, Arial, sans-serif; font-weight: bold; fill: #222; }
    .card-sub { font-family: Helvetica, Arial, sans-serif; fill: #555; }
    .badge { fill: #333; }
    .badge-text { font-family: Helvetica, Arial, sans-serif; font-size: 14px; fill: #fff; }
    .connector { fill: none; stroke: #888; stroke-width: 2; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	padding    float64
	surface    *surface
	badges     bool
	background string
	title      bool
}

type surface struct {
	width, height float64
}

// WithPadding sets the margin around the chart bounds (default 40).
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = p } }

// WithViewport renders into a fixed width x height surface and applies the
// chart's viewport transform to the whole tree, as an interactive viewer
// would show it. Without it the output is framed on the chart bounds.
func WithViewport(width, height float64) SVGOption {
	return func(r *svgRenderer) { r.surface = &surface{width: width, height: height} }
}

// WithoutBadges hides the "+N" hidden-descendant badges on collapsed cards.
func WithoutBadges() SVGOption { return func(r *svgRenderer) { r.badges = false } }

// WithBackground fills the canvas with a color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTitle draws the chart title above the tree.
func WithTitle() SVGOption { return func(r *svgRenderer) { r.title = true } }

// RenderSVG draws the chart's cards and connectors. An empty chart renders
// an empty canvas.
func RenderSVG(c chart.Chart, opts ...SVGOption) []byte {
	r := svgRenderer{padding: 40, badges: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	width, height, transform := r.frame(c.Bounds, c.Viewport)
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(width), num(height), width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cardCSS)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}
	if r.title && c.Title != "" {
		fmt.Fprintf(&buf, `  <text x="%s" y="28" class="card-label" font-size="22">%s</text>`+"\n",
			num(r.padding), escapeXML(c.Title))
	}

	fmt.Fprintf(&buf, `  <g id="chart" transform="%s">`+"\n", transform.SVG())
	for _, conn := range c.Connectors {
		fmt.Fprintf(&buf, `    <path class="connector" d="%s" data-from="%s" data-to="%s"/>`+"\n",
			conn.Path(), escapeXML(conn.FromID), escapeXML(conn.ToID))
	}
	for _, card := range c.Cards {
		r.renderCard(&buf, card)
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

// frame returns the canvas size and the transform from layout coordinates
// to canvas coordinates.
func (r *svgRenderer) frame(b layout.Bounds, vp viewport.State) (float64, float64, viewport.Transform) {
	if r.surface != nil {
		zoom := vp.Zoom
		if zoom == 0 {
			zoom = 1
		}
		return r.surface.width, r.surface.height, viewport.Transform{Scale: zoom, Translate: vp.Position}
	}
	padded := b.Pad(r.padding)
	w, h := max(padded.Width(), 1), max(padded.Height(), 1)
	return w, h, viewport.Transform{Scale: 1, Translate: viewport.Point{X: -padded.MinX, Y: -padded.MinY}}
}

func (r *svgRenderer) renderCard(buf *bytes.Buffer, c chart.Card) {
	fmt.Fprintf(buf, `    <g class="node node-%s" id="node-%s" data-level="%d">`+"\n",
		c.Type, escapeXML(c.ID), c.Level)
	fmt.Fprintf(buf, `      <rect class="card" x="%s" y="%s" width="%s" height="%s" rx="10"/>`+"\n",
		num(c.X), num(c.Y), num(c.Width), num(c.Height))

	band := c.Height * 0.12
	if c.Color != "" {
		fmt.Fprintf(buf, `      <rect class="card-band" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(c.X+1), num(c.Y+1), num(c.Width-2), num(band), escapeXML(c.Color))
	}

	avail := c.Width * 0.85
	size := labelFontSize(avail, c.Height, len([]rune(c.Label)))
	fmt.Fprintf(buf, `      <text class="card-label" x="%s" y="%s" font-size="%s" text-anchor="middle">%s</text>`+"\n",
		num(c.CenterX()), num(c.Y+band+c.Height*0.35), num(size), escapeXML(truncate(c.Label, avail, size)))

	if c.Subtitle != "" {
		sub := size * subFontRatio
		fmt.Fprintf(buf, `      <text class="card-sub" x="%s" y="%s" font-size="%s" text-anchor="middle">%s</text>`+"\n",
			num(c.CenterX()), num(c.Y+band+c.Height*0.6), num(sub), escapeXML(truncate(c.Subtitle, avail, sub)))
	}

	if r.badges && !c.Expanded && c.HiddenCount > 0 {
		cx, cy := c.CenterX(), c.Y+c.Height
		fmt.Fprintf(buf, `      <circle class="badge" cx="%s" cy="%s" r="16"/>`+"\n", num(cx), num(cy))
		fmt.Fprintf(buf, `      <text class="badge-text" x="%s" y="%s" text-anchor="middle">+%d</text>`+"\n",
			num(cx), num(cy+5), c.HiddenCount)
	}
	buf.WriteString("    </g>\n")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
