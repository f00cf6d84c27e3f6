package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/render"
	"github.com/matzehuels/orgchart/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer] and a nil logger means [log.Default].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → chart → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	loadStart := time.Now()
	p, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	loadTime := time.Since(loadStart)

	result, err := r.ExecutePayload(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = loadTime
	return result, nil
}

// ExecutePayload runs chart → render on an already loaded payload.
func (r *Runner) ExecutePayload(ctx context.Context, p *hierarchy.Payload, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{Payload: p}

	chartStart := time.Now()
	c, forest, hit, err := r.ChartWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	result.Chart = c
	result.Forest = forest
	result.Stats.ChartTime = time.Since(chartStart)
	result.Stats.NodeCount = c.NodeCount()
	result.Stats.VisibleCount = len(c.Cards)
	result.CacheInfo.ChartHit = hit

	r.Logger.Info("computed chart",
		"nodes", result.Stats.NodeCount,
		"visible", result.Stats.VisibleCount,
		"cached", hit,
		"duration", result.Stats.ChartTime)

	renderStart := time.Now()
	artifacts, chartHash, hit, err := r.renderWithCacheInfo(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.ChartHash = chartHash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"renderer", opts.Renderer,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load opens opts.Source and decodes the payload. HTTP sources cache the
// fetched document through the runner's cache.
func (r *Runner) Load(ctx context.Context, opts Options) (*hierarchy.Payload, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	start := time.Now()
	src, err := source.Open(opts.Source, source.Options{
		Format:  opts.InputFormat,
		Cache:   r.Cache,
		Keyer:   r.Keyer,
		Refresh: opts.Refresh,
	})
	if err != nil {
		return nil, err
	}

	p, err := src.Load(ctx)
	kind := ""
	if p != nil {
		kind = string(p.Kind)
	}
	observability.Pipeline().OnLoadComplete(ctx, src.Ref(), kind, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded hierarchy", "source", src.Ref(), "kind", kind, "duration", time.Since(start))
	return p, nil
}

// ChartWithCacheInfo builds and lays out the chart for p, consulting the
// cache first. The forest is nil on a cache hit.
func (r *Runner) ChartWithCacheInfo(ctx context.Context, p *hierarchy.Payload, opts Options) (chart.Chart, []*org.Node, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return chart.Chart{}, nil, false, err
	}

	payloadData, err := hierarchy.Encode(p, hierarchy.FormatJSON)
	if err != nil {
		return chart.Chart{}, nil, false, fmt.Errorf("serialize payload for cache key: %w", err)
	}
	key := r.Keyer.ChartKey(cache.Hash(payloadData), opts.ChartKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if c, err := chart.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "chart")
				return c, nil, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "chart")
	}

	buildStart := time.Now()
	forest, err := BuildForest(p, opts)
	observability.Pipeline().OnBuildComplete(ctx, string(p.Kind), org.Count(forest), time.Since(buildStart), err)
	if err != nil {
		return chart.Chart{}, nil, false, err
	}

	layoutStart := time.Now()
	positioned := Position(forest, opts.Layout)
	c := NewChart(positioned, opts)
	observability.Pipeline().OnLayoutComplete(ctx, len(c.Cards), time.Since(layoutStart))

	if data, err := chart.Marshal(c); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLChart); err == nil {
			observability.Cache().OnCacheSet(ctx, "chart", len(data))
		} else {
			r.Logger.Warn("cache write failed", "stage", "chart", "error", err)
		}
	}
	return c, positioned, false, nil
}

// Render produces artifacts for c with caching.
func (r *Runner) Render(ctx context.Context, c chart.Chart, opts Options) (map[render.Format][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	artifacts, _, _, err := r.renderWithCacheInfo(ctx, c, opts)
	return artifacts, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, c chart.Chart, opts Options) (map[render.Format][]byte, string, bool, error) {
	chartData, err := chart.Marshal(c)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize chart for cache key: %w", err)
	}
	chartHash := cache.Hash(chartData)

	artifacts := make(map[render.Format][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(chartHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			allCached = false
			observability.Cache().OnCacheMiss(ctx, "artifact")
			continue
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	if allCached {
		return artifacts, chartHash, true, nil
	}

	for _, format := range opts.Formats {
		if _, ok := artifacts[format]; ok {
			continue
		}
		start := time.Now()
		data, err := RenderFormat(ctx, c, format, opts)
		observability.Pipeline().OnRenderComplete(ctx, string(format), len(data), time.Since(start), err)
		if err != nil {
			return nil, "", false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		key := r.Keyer.ArtifactKey(chartHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, chartHash, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
