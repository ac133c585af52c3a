package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// instrument wraps the whole handler chain with timing instrumentation
// and request IDs. Every route is counted and timed, the metrics and
// health endpoints included, matching the behavior existing dashboards
// were built against.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)

		metrics := s.registry.Metrics()
		metrics.RecordRequest()
		metrics.ObserveLatency(elapsed)

		s.logger.Debug("request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}
