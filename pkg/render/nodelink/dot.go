package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/render"
)

// pointsPerInch converts layout pixels to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link diagram generation.
type Options struct {
	// Detailed adds the level and hierarchy id to node labels.
	Detailed bool
	// Pinned fixes every node at its card position and switches the
	// graph to the neato engine, which honors fixed positions.
	Pinned bool
}

// ToDOT converts a chart to Graphviz DOT format.
// Collapsed cards with hidden descendants get a dashed outline.
func ToDOT(c chart.Chart, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=ortho;\n")
	if opts.Pinned {
		buf.WriteString("  layout=neato;\n")
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"#888888\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, card := range c.Cards {
		attrs := fmtAttrs(card, fmtLabel(card, opts.Detailed))
		if opts.Pinned {
			attrs = append(attrs,
				fmt.Sprintf("pos=\"%s,%s!\"", inches(card.CenterX()), inches(-(card.Y+card.Height/2))),
				fmt.Sprintf("width=%s", inches(card.Width)),
				fmt.Sprintf("height=%s", inches(card.Height)),
				"fixedsize=true",
			)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", card.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range c.Connectors {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.FromID, e.ToID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c chart.Card, detailed bool) string {
	parts := []string{c.Label}
	if c.Subtitle != "" {
		parts = append(parts, c.Subtitle)
	}
	if detailed {
		parts = append(parts, fmt.Sprintf("level: %d", c.Level))
		if c.HierarchyID != "" {
			parts = append(parts, "hierarchy: "+c.HierarchyID)
		}
	}
	if !c.Expanded && c.HiddenCount > 0 {
		parts = append(parts, fmt.Sprintf("+%d", c.HiddenCount))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(c chart.Card, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if c.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", c.Color), "penwidth=2")
	}
	if !c.Expanded && c.HiddenCount > 0 {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
