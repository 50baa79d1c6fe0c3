package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
	"github.com/couchcryptid/eruption-atlas/internal/observability"
)

// TableSource serves the enriched table and reports whether it is built.
type TableSource interface {
	sharedobs.ReadinessChecker
	Table(ctx context.Context) (*domain.EnrichedTable, error)
}

// Server exposes health, readiness, metrics, and the eruption query API.
type Server struct {
	httpServer    *http.Server
	source        TableSource
	minPerCountry int
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and /api routes.
// minPerCountry is the summary threshold below which countries fold into "Other".
// /readyz reports ready only when the source and every dependency are ready.
func NewServer(addr string, source TableSource, minPerCountry int, logger *slog.Logger, metrics *observability.Metrics, deps ...sharedobs.ReadinessChecker) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source:        source,
		minPerCountry: minPerCountry,
		logger:        logger,
		metrics:       metrics,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(append(readinessChecks{source}, deps...)))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/eruptions", s.handleEruptions)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/bounds", s.handleBounds)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// readinessChecks is ready when all of its checkers are.
type readinessChecks []sharedobs.ReadinessChecker

func (c readinessChecks) CheckReadiness(ctx context.Context) error {
	for _, checker := range c {
		if err := checker.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
