package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/c360/heartserve/audit"
	"github.com/c360/heartserve/feature"
	"github.com/c360/heartserve/model"
)

// predictResponse is the success payload shape.
type predictResponse struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
}

// handlePredict runs one request through validate → classify → audit →
// respond.
//
// Domain failures (validation, inference) are answered with HTTP 200 and
// an {"error": ...} body: this endpoint's callers treat errors as data,
// and the status line only signals transport faults (unparsable body,
// wrong method). Audit write failures never reach the client; they are
// logged, counted, and reflected in /health.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.cfg.Server.RequestTimeout))
	defer cancel()

	metrics := s.registry.Metrics()

	record, err := feature.Validate(raw)
	if err != nil {
		metrics.RecordFailedPrediction()
		s.logger.Warn("request validation failed", "error", err)
		writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()})
		return
	}

	prediction, err := s.predictor.Classify(record)
	if err != nil {
		// Inference can only fail if the artifact disagrees with the
		// feature schema, which is a deployment bug worth an alert.
		metrics.RecordFailedPrediction()
		s.logger.Error("inference failed", "error", err)
		s.monitor.UpdateUnhealthy("model", "inference failing")
		writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()})
		return
	}

	// The deadline is checked before the audit append commits: an aborted
	// request leaves no partial state behind.
	if ctx.Err() != nil {
		s.logger.Warn("request deadline exceeded before audit commit", "error", ctx.Err())
		return
	}

	s.persistAudit(record, prediction)

	metrics.RecordPrediction()
	writeJSON(w, http.StatusOK, predictResponse{
		Prediction:  prediction.Label,
		Probability: prediction.Probability,
	})
}

// persistAudit appends the scored request to the audit log, best-effort.
func (s *Server) persistAudit(record feature.Record, prediction model.Prediction) {
	err := s.auditLog.Append(audit.Record{
		Features:   record,
		Prediction: prediction,
		Timestamp:  time.Now(),
	})
	if err != nil {
		// Drift monitoring now has incomplete data; make that visible.
		s.registry.Metrics().RecordAuditWriteFailure()
		s.monitor.UpdateDegraded("audit", "last audit write failed")
		s.logger.Error("audit write failed", "error", err)
		return
	}
	s.monitor.UpdateHealthy("audit", "audit log writable")
}
