// Package pkg provides the core libraries for orgchart, an interactive
// organizational chart engine.
//
// # Overview
//
// orgchart turns a hierarchy payload (a flat employee list, or nested
// departments with their employees) into a positioned chart of cards joined
// by elbow connectors, and renders or navigates it. The pkg directory is
// organized into these areas:
//
//  1. [hierarchy] and [source] - payload types, decoding and loading
//  2. [org] and [org/builder] - the uniform tree and its expand/collapse state
//  3. [layout] and [connector] - geometry of cards and their links
//  4. [chart] and [render] - the render model and its SVG, DOT, PNG and PDF sinks
//  5. [viewport] - pan, zoom and animated fit for an interactive surface
//  6. [pipeline] - orchestration (load → build → layout → chart → render)
//  7. [cache], [config], [errors], [observability], [buildinfo] - infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	JSON/YAML payload (file, stdin or HTTP)
//	         ↓
//	    [hierarchy] package (decode + validate)
//	         ↓
//	    [org/builder] package (tree of department and employee nodes)
//	         ↓
//	    [org] package (toggle, expand to depth, visible set)
//	         ↓
//	    [layout] package (subtree-width positioning)
//	         ↓
//	    [chart] package (cards + connectors + bounds)
//	         ↓
//	    SVG/DOT/PNG/PDF/JSON output, or the [viewport] driven viewer
//
// # Quick Start
//
// Build a chart from a file and render it to SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/orgchart/pkg/pipeline"
//	    "github.com/matzehuels/orgchart/pkg/render"
//	)
//
//	opts := pipeline.DefaultOptions()
//	opts.Source = "org.json"
//	opts.Formats = []render.Format{render.FormatSVG}
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	result, _ := runner.Execute(context.Background(), opts)
//	svg := result.Artifacts[render.FormatSVG]
//
// # Caching
//
// [pipeline.Runner] caches HTTP source responses, charts and rendered
// artifacts through the [cache.Cache] interface. The file backend suits the
// CLI; Redis and MongoDB backends share a cache between server replicas.
//
// # Error Handling
//
// All packages return coded errors from [errors]. Use errors.Is against the
// sentinel values and [errors.HTTPStatus] to map them onto HTTP responses.
package pkg
