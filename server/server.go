// Package server exposes the event planner over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/logging"
	"github.com/hupe1980/eventcrew/planner"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
)

// Planner runs one event-planning crew.
type Planner interface {
	Run(ctx context.Context, d planner.EventDetails, creds core.Credentials) (*planner.Result, error)
}

// Options configure a Server.
type Options struct {
	Addr   string
	Logger logging.Logger
	// RunTimeout bounds a single planning run (0 = no limit).
	RunTimeout  time.Duration
	CORSOrigins []string
	// RateLimit is the sustained /run-event rate per client in requests per
	// second (0 disables limiting).
	RateLimit float64
	RateBurst int
	// Registry receives the server metrics; a fresh registry is used when nil.
	Registry *prometheus.Registry
}

// Server is the HTTP front end of the planner.
type Server struct {
	planner    Planner
	store      core.ArtifactStore
	opts       Options
	logger     logging.Logger
	metrics    *Metrics
	limiter    *RateLimiter
	validator  *RequestValidator
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server reading artifacts back from store.
func New(p Planner, store core.ArtifactStore, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:        ":8000",
		CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		RateLimit:   0,
		RateBurst:   5,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		planner:   p,
		store:     store,
		opts:      opts,
		logger:    opts.Logger,
		metrics:   NewMetrics(opts.Registry),
		validator: NewRequestValidator(),
		router:    chi.NewRouter(),
	}

	if opts.RateLimit > 0 {
		s.limiter = NewRateLimiter(opts.RateLimit, opts.RateBurst)
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoverMiddleware)
	s.router.Use(CORSMiddleware(s.opts.CORSOrigins))

	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealth)
	s.router.With(s.rateLimitMiddleware).Post("/run-event", s.handleRunEvent)
	s.router.Get("/runs/{runID}/artifacts/{name}", s.handleGetArtifact)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
}

// Handler returns the routed handler with response compression.
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server.start", "addr", s.opts.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server.shutdown")
	return s.httpServer.Shutdown(ctx)
}
