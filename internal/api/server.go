// Package api serves word clouds over HTTP.
//
// Routes:
//
//	POST /v1/clouds          analyze, lay out and render a document
//	POST /v1/analyze         frequency table and stopword candidates only
//	GET  /v1/tables          recently stored tables
//	GET  /v1/tables/{id}     a stored table as JSON, or CSV with a .csv suffix
//	GET  /v1/palettes        built-in palettes
//	GET  /healthz            liveness and build information
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/wordmosaic/pkg/observability"
	"github.com/matzehuels/wordmosaic/pkg/pipeline"
	"github.com/matzehuels/wordmosaic/pkg/store"
)

// Server defaults.
const (
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxBodyBytes   = 16 << 20
	shutdownTimeout       = 5 * time.Second
)

// Config configures a Server.
type Config struct {
	Runner *pipeline.Runner
	// Store backs the /v1/tables routes; nil disables them.
	Store  store.Store
	Logger *log.Logger
	// Defaults fill options a request leaves unset.
	Defaults       pipeline.Options
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Server is the HTTP front end of the pipeline.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options
	timeout  time.Duration
	maxBody  int64
	router   chi.Router
}

// New creates a server. Runner is required.
func New(cfg Config) (*Server, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("api: runner is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		runner:   cfg.Runner,
		store:    cfg.Store,
		logger:   cfg.Logger.WithPrefix("api"),
		defaults: cfg.Defaults,
		timeout:  cfg.RequestTimeout,
		maxBody:  cfg.MaxBodyBytes,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/clouds", s.handleClouds)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/tables", s.handleTables)
		r.Get("/tables/{id}", s.handleTable)
		r.Get("/palettes", s.handlePalettes)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is canceled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(listener)
	}()
	s.logger.Info("listening", "address", listener.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	s.logger.Info("stopped")
	return nil
}

// observe reports every request to the registered HTTP hooks.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		start := time.Now()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		}()
		next.ServeHTTP(ww, r)
	})
}
