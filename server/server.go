// Package server wires the HTTP surface of heartserve: the prediction
// endpoint, the Prometheus scrape endpoint, and the health endpoint,
// with timing instrumentation wrapped around every route.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/c360/heartserve/audit"
	"github.com/c360/heartserve/config"
	"github.com/c360/heartserve/health"
	"github.com/c360/heartserve/metric"
	"github.com/c360/heartserve/model"
)

// serviceName labels aggregated health output.
const serviceName = "heartserve"

// Server hosts the prediction service endpoints. It holds no per-request
// state; the predictor is read-only and the audit logger serializes its
// own writes.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	registry  *metric.Registry
	predictor *model.Predictor
	auditLog  *audit.Logger
	monitor   *health.Monitor

	httpServer *http.Server
}

// New assembles a server from its dependencies. All dependencies are
// injected so tests can construct isolated instances.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	registry *metric.Registry,
	predictor *model.Predictor,
	auditLog *audit.Logger,
	monitor *health.Monitor,
) *Server {
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		registry:  registry,
		predictor: predictor,
		auditLog:  auditLog,
		monitor:   monitor,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/predict", s.handlePredict)
	mux.Handle("/metrics", metric.Handler(registry))
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.instrument(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the fully instrumented handler chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves HTTP until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "addr", s.cfg.Server.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth serves the aggregated component health. Degraded still
// answers 200 so a lagging audit disk does not pull the service out of
// rotation; only unhealthy turns the status line.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	status := s.monitor.AggregateHealth(serviceName)
	code := http.StatusOK
	if status.IsUnhealthy() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// errorResponse is the domain-error payload shape.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already gone; nothing to do beyond noting it.
		slog.Debug("response encode failed", "error", err)
	}
}
