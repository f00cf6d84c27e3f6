// Package server implements the orgchart HTTP API.
//
// Clients upload a hierarchy payload and get back a view id. Each view keeps
// its own expansion state in memory; clients toggle nodes, fetch the current
// positioned chart as JSON, or fetch it rendered as SVG, PNG, PDF or DOT.
//
//	POST   /api/views                         create a view from a payload
//	GET    /api/views/{id}                    current chart
//	DELETE /api/views/{id}                    drop the view
//	POST   /api/views/{id}/toggle/{nodeID}    flip one node
//	POST   /api/views/{id}/expand-all         expand every node
//	POST   /api/views/{id}/collapse-all       collapse every node
//	PUT    /api/views/{id}/viewport           record the client's viewport
//	GET    /api/views/{id}/chart.{format}     rendered chart
//	GET    /api/views/{id}/branch/{hid}       chart of one department or unit
//	GET    /api/views/{id}/path/{nodeID}      breadcrumb from a root
//	GET    /healthz
//	GET    /metrics
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// Options configures a Server.
type Options struct {
	Config config.Config
	Cache  cache.Cache
	Logger *log.Logger

	// Registry receives the server's metrics. Nil creates a private one.
	Registry *prometheus.Registry
}

// Server serves the orgchart API.
type Server struct {
	cfg      config.Config
	runner   *pipeline.Runner
	store    *Store
	logger   *log.Logger
	registry *prometheus.Registry
	requests *prometheus.HistogramVec
	router   chi.Router
}

// New wires the router, the view store and the metrics. It registers the
// pipeline, cache, HTTP and view hooks globally.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	m := observability.NewMetrics(opts.Registry)
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
	observability.SetViewHooks(m)

	s := &Server{
		cfg:      opts.Config,
		runner:   pipeline.NewRunner(opts.Cache, nil, opts.Logger),
		store:    NewStore(opts.Config.Server.MaxViews),
		logger:   opts.Logger,
		registry: opts.Registry,
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orgchart",
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	opts.Registry.MustRegister(s.requests)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api/views", func(r chi.Router) {
		r.Post("/", s.handleCreateView)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetView)
			r.Delete("/", s.handleDeleteView)
			r.Post("/toggle/{nodeID}", s.handleToggle)
			r.Post("/expand-all", s.handleExpandAll)
			r.Post("/collapse-all", s.handleCollapseAll)
			r.Put("/viewport", s.handleViewport)
			r.Get("/chart.{format}", s.handleRender)
			r.Get("/branch/{hierarchyID}", s.handleBranch)
			r.Get("/path/{nodeID}", s.handlePath)
		})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Store returns the view store.
func (s *Server) Store() *Store { return s.store }

// ListenAndServe serves on the configured address until ctx is canceled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Close releases the runner's cache.
func (s *Server) Close() error {
	return s.runner.Close()
}
