// Package server exposes interactive radial views over HTTP.
//
// Clients create a session rooted at a type, then send select and hover
// events. Every select returns the delta between the old and new model so
// that a browser renderer can animate the transition.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/schemamap/pkg/pipeline"
	"github.com/matzehuels/schemamap/pkg/schema"
	"github.com/matzehuels/schemamap/pkg/session"
)

// Config holds the server dependencies.
type Config struct {
	Addr   string
	Schema *schema.Schema
	// Layout is the base configuration for every session and render. A
	// zero canvas selects pipeline.DefaultOptions.
	Layout pipeline.Options
	// Runner renders cached one-shot artifacts. Nil uses an uncached runner.
	Runner   *pipeline.Runner
	Sessions session.Store
	// CleanupInterval is how often expired sessions are removed.
	CleanupInterval time.Duration
	Logger          *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	addr     string
	schema   *schema.Schema
	layout   pipeline.Options
	runner   *pipeline.Runner
	sessions session.Store
	cleanup  time.Duration
	logger   *log.Logger
}

// New creates a server from cfg, filling unset dependencies.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewMemoryStore(session.DefaultTTL)
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.Layout.Width == 0 && cfg.Layout.Height == 0 {
		cfg.Layout = pipeline.DefaultOptions()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return &Server{
		addr:     cfg.Addr,
		schema:   cfg.Schema,
		layout:   cfg.Layout,
		runner:   cfg.Runner,
		sessions: cfg.Sessions,
		cleanup:  cfg.CleanupInterval,
		logger:   cfg.Logger,
	}
}

// Handler returns the router with all API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.logRequests,
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/types", s.handleTypes)
		r.Get("/render/{root}", s.handleRender)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/select", s.handleSelect)
				r.Post("/back", s.handleBack)
				r.Post("/hover", s.handleHover)
				r.Delete("/hover", s.handleUnhover)
				r.Get("/svg", s.handleSessionSVG)
			})
		})
	})
	return r
}

// Serve listens on the configured address until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		s.logger.Info("serving", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		ticker := time.NewTicker(s.cleanup)
		defer ticker.Stop()
		for {
			select {
			case <-egctx.Done():
				return nil
			case <-ticker.C:
				if n, err := s.sessions.Cleanup(egctx); err != nil {
					s.logger.Warn("session cleanup failed", "err", err)
				} else if n > 0 {
					s.logger.Debug("expired sessions removed", "count", n)
				}
			}
		}
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
