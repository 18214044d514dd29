// Package api provides the HTTP API for taskrank.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	metrics observability.Metrics
	tasks   *TaskHandler
	analyze *AnalyzeHandler
	health  *observability.HealthRegistry
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server. The health registry is optional.
func NewServer(cfg ServerConfig, tasks *TaskHandler, analyze *AnalyzeHandler, health *observability.HealthRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	s := &Server{
		mux:     mux,
		logger:  logger,
		metrics: observability.NoopMetrics{},
		tasks:   tasks,
		analyze: analyze,
		health:  health,
	}

	// Register routes
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRequestContext(s.mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	// Health check
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Task API v1
	s.mux.HandleFunc("GET /api/v1/strategies", s.analyze.ListStrategies)
	s.mux.HandleFunc("GET /api/v1/tasks", s.tasks.ListTasks)
	s.mux.HandleFunc("POST /api/v1/tasks", s.tasks.CreateTask)
	s.mux.HandleFunc("GET /api/v1/tasks/{taskID}", s.tasks.GetTask)
	s.mux.HandleFunc("PATCH /api/v1/tasks/{taskID}", s.tasks.UpdateTask)
	s.mux.HandleFunc("DELETE /api/v1/tasks/{taskID}", s.tasks.DeleteTask)
	s.mux.HandleFunc("POST /api/v1/tasks/{taskID}/complete", s.tasks.CompleteTask)

	// Analysis
	s.mux.HandleFunc("POST /api/v1/tasks/analyze", s.analyze.AnalyzeTasks)
	s.mux.HandleFunc("GET /api/v1/tasks/suggest", s.analyze.SuggestTasks)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	overall := s.health.GetOverallHealth(r.Context())
	status := http.StatusOK
	if overall.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, overall)
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// SetMetrics replaces the metrics collector (noop by default).
func (s *Server) SetMetrics(m observability.Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// withRequestContext tags each request with a fresh correlation ID and
// records its duration.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		corrID := r.Header.Get("X-Correlation-ID")
		ctx := observability.NewRequestContext(r.Context(), corrID)

		timer := observability.StartTimer(r.Method + " " + r.URL.Path).
			WithMetrics(s.metrics)
		next.ServeHTTP(w, r.WithContext(ctx))
		timer.Stop()
	})
}

// Handler returns the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Log error but can't do much at this point
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}
