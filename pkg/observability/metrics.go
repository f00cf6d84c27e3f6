package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements every hook interface on top of Prometheus collectors.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	builtNodes    prometheus.Histogram
	visibleNodes  prometheus.Histogram
	artifactBytes *prometheus.HistogramVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	views        prometheus.Gauge
	viewsRemoved *prometheus.CounterVec
	viewToggles  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orgchart",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgchart",
			Name:      "stage_errors_total",
			Help:      "Pipeline stage failures.",
		}, []string{"stage"}),
		builtNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "orgchart",
			Name:      "built_nodes",
			Help:      "Nodes per built forest.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		visibleNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "orgchart",
			Name:      "visible_nodes",
			Help:      "Visible nodes per layout pass.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		artifactBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orgchart",
			Name:      "artifact_bytes",
			Help:      "Size of rendered artifacts.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}, []string{"format"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgchart",
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgchart",
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"key_type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgchart",
			Name:      "source_requests_total",
			Help:      "Outgoing hierarchy source requests by result.",
		}, []string{"host", "result"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orgchart",
			Name:      "source_request_duration_seconds",
			Help:      "Latency of hierarchy source requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		views: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orgchart",
			Name:      "views",
			Help:      "Live server-side chart views.",
		}),
		viewsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgchart",
			Name:      "views_removed_total",
			Help:      "Views removed from the store, by reason (evicted, deleted).",
		}, []string{"reason"}),
		viewToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgchart",
			Name:      "view_toggles_total",
			Help:      "Expand and collapse operations on views.",
		}, []string{"action"}),
	}
	if reg != nil {
		reg.MustRegister(m.Collectors()...)
	}
	return m
}

// Collectors lists every collector owned by m.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.stageDuration, m.stageErrors, m.builtNodes, m.visibleNodes, m.artifactBytes,
		m.cacheEvents, m.cacheBytes, m.httpRequests, m.httpDuration,
		m.views, m.viewsRemoved, m.viewToggles,
	}
}

func (m *Metrics) observeStage(stage string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) OnLoadComplete(_ context.Context, _, _ string, d time.Duration, err error) {
	m.observeStage("load", d, err)
}

func (m *Metrics) OnBuildComplete(_ context.Context, _ string, nodes int, d time.Duration, err error) {
	m.observeStage("build", d, err)
	if err == nil {
		m.builtNodes.Observe(float64(nodes))
	}
}

func (m *Metrics) OnLayoutComplete(_ context.Context, visible int, d time.Duration) {
	m.observeStage("layout", d, nil)
	m.visibleNodes.Observe(float64(visible))
}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	m.observeStage("render", d, err)
	if err == nil {
		m.artifactBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	result := "ok"
	if status >= 400 {
		result = "http_error"
	}
	m.httpRequests.WithLabelValues(host, result).Inc()
	m.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.httpRequests.WithLabelValues(host, "network_error").Inc()
}

func (m *Metrics) OnViewCreated(context.Context, string, int) { m.views.Inc() }

func (m *Metrics) OnViewToggled(_ context.Context, _, _ string, expanded bool) {
	action := "collapse"
	if expanded {
		action = "expand"
	}
	m.viewToggles.WithLabelValues(action).Inc()
}

func (m *Metrics) OnViewEvicted(context.Context, string) {
	m.views.Dec()
	m.viewsRemoved.WithLabelValues("evicted").Inc()
}

func (m *Metrics) OnViewDeleted(context.Context, string) {
	m.views.Dec()
	m.viewsRemoved.WithLabelValues("deleted").Inc()
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
	_ ViewHooks     = (*Metrics)(nil)
)
