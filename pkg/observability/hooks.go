// Package observability provides hooks for metrics, tracing and logging.
//
// Library packages emit events through the registered hooks without knowing
// which backend, if any, consumes them. The defaults are no-ops; the server
// registers [Metrics], which turns every event into Prometheus series.
//
// Register hooks once at startup:
//
//	m := observability.NewMetrics(prometheus.DefaultRegisterer)
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetHTTPHooks(m)
//	observability.SetViewHooks(m)
//
// Emit events from library code:
//
//	start := time.Now()
//	forest, err := build(payload)
//	observability.Pipeline().OnBuildComplete(ctx, string(payload.Kind), org.Count(forest), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the org chart pipeline.
type PipelineHooks interface {
	// OnLoadComplete fires after a hierarchy source was read and decoded.
	OnLoadComplete(ctx context.Context, ref, kind string, duration time.Duration, err error)

	// OnBuildComplete fires after a payload was turned into a node forest.
	OnBuildComplete(ctx context.Context, kind string, nodeCount int, duration time.Duration, err error)

	// OnLayoutComplete fires after positions were assigned.
	OnLayoutComplete(ctx context.Context, visibleCount int, duration time.Duration)

	// OnRenderComplete fires once per rendered artifact.
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache lookups. keyType is one of
// "http", "payload", "chart" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from outgoing HTTP requests made by sources.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// View Hooks
// =============================================================================

// ViewHooks receives events about server-side chart views.
type ViewHooks interface {
	OnViewCreated(ctx context.Context, id string, nodeCount int)
	OnViewToggled(ctx context.Context, id, nodeID string, expanded bool)
	// OnViewEvicted fires when the store drops a view to make room.
	OnViewEvicted(ctx context.Context, id string)
	// OnViewDeleted fires when a client deletes a view.
	OnViewDeleted(ctx context.Context, id string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadComplete(context.Context, string, string, time.Duration, error) {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, string, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration)                 {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error)  {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopViewHooks ignores every view event.
type NoopViewHooks struct{}

func (NoopViewHooks) OnViewCreated(context.Context, string, int)          {}
func (NoopViewHooks) OnViewToggled(context.Context, string, string, bool) {}
func (NoopViewHooks) OnViewEvicted(context.Context, string)               {}
func (NoopViewHooks) OnViewDeleted(context.Context, string)               {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	viewHooks     ViewHooks     = NoopViewHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetViewHooks registers view hooks. Nil is ignored.
func SetViewHooks(h ViewHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		viewHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// View returns the registered view hooks.
func View() ViewHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return viewHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
	viewHooks = NoopViewHooks{}
}
