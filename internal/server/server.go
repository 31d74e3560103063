// Package server exposes fabric generation over HTTP.
//
// Routes:
//   - GET  /healthz       liveness and build version
//   - POST /v1/generate   run the pipeline on inline documents
//
// Every request gets a run id, returned in the X-Run-ID header and in the
// response body, and attached to every log line of the run. Requests share
// one [pipeline.Runner] and its cache; nothing else is shared between them.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/structasic/fabgen/pkg/cache"
	"github.com/structasic/fabgen/pkg/observability"
	"github.com/structasic/fabgen/pkg/pipeline"
)

const (
	// DefaultMaxBodyBytes bounds the size of a generate request.
	DefaultMaxBodyBytes = 16 << 20

	// KeyPrefix namespaces the server's cache entries.
	KeyPrefix = "fabgen:api:"

	shutdownTimeout = 5 * time.Second
)

// Config configures a Server.
type Config struct {
	Cache        cache.Cache // nil disables caching
	Logger       *log.Logger
	MaxBodyBytes int64
}

// Server serves the generation API.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
}

// New creates a server. Cache keys are scoped with [KeyPrefix].
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Server{
		runner:  pipeline.NewRunner(cfg.Cache, cache.NewScopedKeyer(nil, KeyPrefix), logger),
		logger:  logger,
		maxBody: maxBody,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.track)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/generate", s.handleGenerate)
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the runner's cache.
func (s *Server) Close() error {
	return s.runner.Close()
}

// =============================================================================
// Middleware
// =============================================================================

type runIDKey struct{}

// RunIDHeader carries the run id of a request.
const RunIDHeader = "X-Run-ID"

// track assigns the run id and reports the request to the HTTP hooks.
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		ctx := context.WithValue(r.Context(), runIDKey{}, id)
		w.Header().Set(RunIDHeader, id)

		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(ctx, r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request served", "run_id", id, "method", r.Method, "path", r.URL.Path,
			"status", status, "duration", elapsed)
	})
}

// RunID returns the run id of a request context.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
