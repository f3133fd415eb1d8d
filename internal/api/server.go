// ABOUTME: HTTP JSON API over the stored uploads and the aggregation queries.
// ABOUTME: chi router with render for JSON, promhttp for /metrics, graceful shutdown.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/harperreed/liftlog/internal/ingest"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/storage"
)

const (
	defaultTopLimit = 10
	maxUploadBytes  = 32 << 20
	shutdownTimeout = 5 * time.Second
)

// Server serves the lifting log over HTTP.
type Server struct {
	repo     storage.Repository
	reader   *ingest.Reader
	metrics  *Metrics
	logger   *log.Logger
	topLimit int
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and pipeline logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics shares a Metrics instance instead of creating one.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTopLimit sets the default limit for /api/top-sets.
func WithTopLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.topLimit = n
		}
	}
}

// NewServer builds the router for repo.
func NewServer(repo storage.Repository, opts ...Option) (*Server, error) {
	if repo == nil {
		return nil, errors.New("api server needs a repository")
	}

	s := &Server{
		repo:     repo,
		reader:   ingest.NewReader(),
		logger:   logging.Get(),
		topLimit: defaultTopLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/records", s.handleRecords)
		r.Get("/top-sets", s.handleTopSets)
		r.Get("/exercises", s.handleExercises)
		r.Get("/sources", s.handleSources)
		r.Get("/overview", s.handleOverview)
		r.Get("/progression", s.handleProgression)

		r.Route("/uploads", func(r chi.Router) {
			r.Get("/", s.handleListUploads)
			r.Post("/", s.handleUpload)
			r.Delete("/{source}", s.handleDeleteUpload)
		})
	})

	return r
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
