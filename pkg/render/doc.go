// Package render draws org charts.
//
// # Overview
//
// Renderers consume a [chart.Chart]: the visible cards at their layout
// positions, the orthogonal connector routes and the viewport state. They
// never lay anything out themselves.
//
//   - [RenderSVG] draws cards and connectors as SVG, either framed on the
//     chart bounds or through the viewport transform ([WithViewport]).
//   - The nodelink subpackage exports the same tree as Graphviz DOT and
//     lets Graphviz draw it.
//   - [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert
//     tool (from librsvg).
//
//	svg := render.RenderSVG(c, render.WithPadding(20))
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
package render
