// Package nodelink renders org charts as Graphviz node-link diagrams.
//
// # Overview
//
// [ToDOT] turns a [chart.Chart] into Graphviz DOT source: one rounded box per
// visible card, one edge per connector, orthogonal splines, top-to-bottom
// ranks. By default Graphviz lays the tree out itself with dot; with
// [Options.Pinned] every node is fixed at its card position and the graph
// is drawn by neato, so the picture matches the layout engine.
//
//	dot := nodelink.ToDOT(c, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
