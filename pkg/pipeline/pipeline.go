// Package pipeline provides the org chart pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read and validate a hierarchy payload from a source
//  2. Chart: build the node forest, apply expansion changes, lay it out and
//     route connectors
//  3. Render: produce artifacts (SVG, PNG, PDF, JSON, DOT) from the chart
//
// Each stage can be run on its own. The chart and render stages are cached
// by content hash through a [cache.Cache].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Source = "org.yaml"
//	opts.Formats = []render.Format{render.FormatSVG}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[render.FormatSVG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/org/builder"
	"github.com/matzehuels/orgchart/pkg/render"
	"github.com/matzehuels/orgchart/pkg/viewport"
)

// =============================================================================
// Default Values
// =============================================================================

// Renderers.
const (
	RendererCards    = "cards"
	RendererNodelink = "nodelink"
)

const (
	// DefaultRenderer draws positioned cards.
	DefaultRenderer = RendererCards

	// DefaultPadding is the margin around the chart bounds in pixels.
	DefaultPadding = 40.0

	// DefaultScale is the PNG rasterization scale.
	DefaultScale = 2.0
)

// ValidRenderers is the set of supported renderers.
var ValidRenderers = map[string]bool{
	RendererCards:    true,
	RendererNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Load options
	Source      string           `json:"source,omitempty"`
	InputFormat hierarchy.Format `json:"input_format,omitempty"`
	Refresh     bool             `json:"refresh,omitempty"`

	// Chart options
	Build       builder.Options `json:"-"`
	Branch      string          `json:"branch,omitempty"`
	ExpandAll   bool            `json:"expand_all,omitempty"`
	CollapseAll bool            `json:"collapse_all,omitempty"`
	Toggles     []string        `json:"toggles,omitempty"`
	Layout      layout.Config   `json:"layout"`
	Viewport    viewport.State  `json:"viewport"`
	Title       string          `json:"title,omitempty"`

	// Render options
	Formats  []render.Format `json:"formats,omitempty"`
	Renderer string          `json:"renderer,omitempty"`
	Padding  float64         `json:"padding,omitempty"`
	NoBadges bool            `json:"no_badges,omitempty"`
	Detailed bool            `json:"detailed,omitempty"`
	Scale    float64         `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// DefaultOptions returns options with the reference builder, layout and
// viewport settings, rendering SVG cards.
func DefaultOptions() Options {
	return Options{
		Build:    builder.DefaultOptions(),
		Layout:   layout.DefaultConfig(),
		Viewport: viewport.State{Zoom: viewport.DefaultInitialZoom},
		Formats:  []render.Format{render.FormatSVG},
		Renderer: DefaultRenderer,
		Padding:  DefaultPadding,
		Scale:    DefaultScale,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Payload is the loaded hierarchy document.
	Payload *hierarchy.Payload

	// Forest is the positioned forest. It is nil when the chart came from
	// the cache.
	Forest []*org.Node

	// Chart is the visible positioned output.
	Chart chart.Chart

	// ChartHash is the content hash of the serialized chart.
	ChartHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[render.Format][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	VisibleCount int
	LoadTime     time.Duration
	ChartTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	ChartHit  bool
	RenderHit bool
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields. Build.Palette is defaulted only when nil,
// so an explicit empty palette keeps every node on the fallback color.
func (o *Options) SetDefaults() {
	o.Build.SetDefaults()
	if o.Build.Palette == nil {
		o.Build.Palette = builder.DefaultPalette
	}
	o.Layout.SetDefaults()
	if o.Viewport.Zoom == 0 {
		o.Viewport.Zoom = viewport.DefaultInitialZoom
	}
	if len(o.Formats) == 0 {
		o.Formats = []render.Format{render.FormatSVG}
	}
	if o.Renderer == "" {
		o.Renderer = DefaultRenderer
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the option values. Source is not required: a payload can
// be passed to [Runner.Chart] directly.
func (o *Options) Validate() error {
	for _, f := range o.Formats {
		if _, err := render.ParseFormat(string(f)); err != nil {
			return err
		}
	}
	if !ValidRenderers[o.Renderer] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid renderer %q (must be one of: cards, nodelink)", o.Renderer)
	}
	if o.ExpandAll && o.CollapseAll {
		return errors.New(errors.ErrCodeInvalidInput, "expand_all and collapse_all are mutually exclusive")
	}
	if o.Branch != "" {
		if err := errors.ValidateID("branch", o.Branch); err != nil {
			return err
		}
	}
	for _, id := range o.Toggles {
		if err := errors.ValidateID("node", id); err != nil {
			return err
		}
	}
	if o.Layout.HorizontalSpacing < 0 || o.Layout.VerticalSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout spacing cannot be negative")
	}
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "padding cannot be negative")
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale cannot be negative")
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a source is set.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	return nil
}

// IsNodelink reports whether the Graphviz renderer is selected.
func (o *Options) IsNodelink() bool {
	return o.Renderer == RendererNodelink
}

// ChartKeyOpts returns cache key options for the chart stage.
func (o *Options) ChartKeyOpts() cache.ChartKeyOpts {
	b := o.Build
	return cache.ChartKeyOpts{
		Branch:            o.Branch,
		ExpandDepth:       b.ExpandDepth,
		ExpandAll:         o.ExpandAll,
		CollapseAll:       o.CollapseAll,
		Toggles:           o.Toggles,
		HorizontalSpacing: o.Layout.HorizontalSpacing,
		VerticalSpacing:   o.Layout.VerticalSpacing,
		Palette:           b.Palette,
		FallbackColor:     b.FallbackColor,
		DepartmentSize:    [2]float64{b.DepartmentSize.Width, b.DepartmentSize.Height},
		EmployeeSize:      [2]float64{b.EmployeeSize.Width, b.EmployeeSize.Height},
		Viewport:          [3]float64{o.Viewport.Zoom, o.Viewport.Position.X, o.Viewport.Position.Y},
		Title:             o.Title,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format render.Format) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   string(format),
		Renderer: o.Renderer,
		Padding:  o.Padding,
		Badges:   !o.NoBadges,
		Detailed: o.Detailed,
		Scale:    o.Scale,
	}
}
