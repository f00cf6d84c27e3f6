package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/render"
	"github.com/matzehuels/orgchart/pkg/render/nodelink"
)

// Render generates one artifact per requested format.
func Render(ctx context.Context, c chart.Chart, opts Options) (map[render.Format][]byte, error) {
	artifacts := make(map[render.Format][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, c, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat generates a single artifact. JSON and DOT are the same for
// both renderers; SVG, PNG and PDF come from the selected renderer.
func RenderFormat(ctx context.Context, c chart.Chart, format render.Format, opts Options) ([]byte, error) {
	switch format {
	case render.FormatJSON:
		return chart.Marshal(c)
	case render.FormatDOT:
		return []byte(nodelink.ToDOT(c, nodelink.Options{Detailed: opts.Detailed})), nil
	}

	if opts.IsNodelink() {
		return renderNodelink(ctx, c, format, opts)
	}
	return renderCards(ctx, c, format, opts)
}

func renderCards(ctx context.Context, c chart.Chart, format render.Format, opts Options) ([]byte, error) {
	svg := render.RenderSVG(c, svgOptions(opts)...)
	switch format {
	case render.FormatSVG:
		return svg, nil
	case render.FormatPNG:
		return render.ToPNG(ctx, svg, opts.Scale)
	case render.FormatPDF:
		return render.ToPDF(ctx, svg)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "cards renderer cannot produce %s", format)
	}
}

func renderNodelink(ctx context.Context, c chart.Chart, format render.Format, opts Options) ([]byte, error) {
	dot := nodelink.ToDOT(c, nodelink.Options{Detailed: opts.Detailed, Pinned: true})
	switch format {
	case render.FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case render.FormatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.Scale)
	case render.FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "nodelink renderer cannot produce %s", format)
	}
}

func svgOptions(opts Options) []render.SVGOption {
	svgOpts := []render.SVGOption{render.WithPadding(opts.Padding)}
	if opts.NoBadges {
		svgOpts = append(svgOpts, render.WithoutBadges())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, render.WithTitle())
	}
	return svgOpts
}
