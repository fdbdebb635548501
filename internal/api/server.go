// Package api serves the conjunction-search HTTP API.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kvsankar/sattosat/internal/auth"
	"github.com/kvsankar/sattosat/internal/config"
	"github.com/kvsankar/sattosat/internal/health"
	"github.com/kvsankar/sattosat/internal/metrics"
)

// Server wires the handlers, middleware and HTTP server together.
type Server struct {
	cfg     *config.Config
	pairs   *PairSet
	logger  *slog.Logger
	checker *health.Checker
}

// NewServer builds a server around the loaded pairs.
func NewServer(cfg *config.Config, pairs *PairSet, logger *slog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		pairs:   pairs,
		logger:  logger,
		checker: &health.Checker{},
	}
}

// SetReady flips the readiness probe once startup completes.
func (s *Server) SetReady() { s.checker.SetReady() }

// Handler returns the fully assembled HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.checker.Healthz)
	mux.HandleFunc("GET /readyz", s.checker.Readyz)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/v1/pairs", s.handlePairs)
	mux.HandleFunc("GET /api/v1/conjunctions", s.handleConjunctions)
	mux.HandleFunc("GET /api/v1/envelope", s.handleEnvelope)

	var token string
	if s.cfg.Auth.Enabled {
		token = s.cfg.Auth.Token
	}

	// Outermost first: metrics observe everything, logging sees the final
	// status, auth guards the handlers.
	var h http.Handler = mux
	h = auth.Middleware(token, h)
	h = s.loggingMiddleware(h)
	h = metrics.Middleware(h)
	return h
}

// HTTPServer returns a configured http.Server. Scan handlers can run long,
// so the write timeout is generous.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Handler(),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
}

// probePath reports paths too noisy to access-log.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz" || path == "/metrics"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if probePath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", rec.status,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}
