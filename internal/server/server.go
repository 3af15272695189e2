// Package server hosts treemap charts over HTTP.
//
// It offers two styles of use. POST /render is stateless: it renders one
// query response through the cached pipeline and returns the artifact.
// The /charts routes keep live chart instances that are updated with new
// responses and receive hover and click events, mirroring how an embedding
// page drives a chart.
//
//	GET    /healthz
//	POST   /render?format=svg|html|json|png|pdf
//	GET    /charts
//	POST   /charts                  {"width":800,"height":600,"color_range":[...]}
//	PUT    /charts/{id}             query response body
//	GET    /charts/{id}?format=svg
//	GET    /charts/{id}/hover?x=&y=
//	DELETE /charts/{id}/hover
//	POST   /charts/{id}/click       {"x":..,"y":..,"scroll_x":..,"scroll_y":..}
//	DELETE /charts/{id}
//
// Errors are returned as JSON {"code": ..., "message": ...}.
package server

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
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxBody         = 32 << 20
)

// Options configures a [Server].
type Options struct {
	// Runner renders POST /render requests. A runner without a cache is
	// used when nil.
	Runner *pipeline.Runner

	// Defaults supplies width, height, colours and value format for
	// requests that leave them out.
	Defaults pipeline.Options

	Logger          *log.Logger
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// Server is the HTTP host. Create it with [New].
type Server struct {
	runner          *pipeline.Runner
	defaults        pipeline.Options
	logger          *log.Logger
	charts          *Registry
	router          chi.Router
	shutdownTimeout time.Duration
	maxBody         int64
}

// New builds a server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	runner := opts.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		runner:          runner,
		defaults:        opts.Defaults,
		logger:          logger,
		charts:          NewRegistry(),
		shutdownTimeout: opts.ShutdownTimeout,
		maxBody:         opts.MaxBodyBytes,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = defaultShutdownTimeout
	}
	if s.maxBody <= 0 {
		s.maxBody = defaultMaxBody
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)

	r.Route("/charts", func(r chi.Router) {
		r.Get("/", s.handleListCharts)
		r.Post("/", s.handleCreateChart)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", s.handleUpdateChart)
			r.Get("/", s.handleGetChart)
			r.Delete("/", s.handleDeleteChart)
			r.Get("/hover", s.handleHover)
			r.Delete("/hover", s.handleLeave)
			r.Post("/click", s.handleClick)
		})
	})
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Charts returns the registry of live charts.
func (s *Server) Charts() *Registry { return s.charts }

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully and closes every chart.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.charts.Close()
		s.logger.Info("stopped")
		return err
	})
	return g.Wait()
}

// observe reports every request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", d)
	})
}
