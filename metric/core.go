package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the service-level metrics for the prediction pipeline.
//
// Metric names are part of the scrape contract with the external collector
// and match the names the previous generation of this service exposed; do
// not rename them without coordinating the collector's dashboards.
type Metrics struct {
	RequestCount       prometheus.Counter
	RequestLatency     prometheus.Histogram
	PredictionsTotal   prometheus.Counter
	FailedPredictions  prometheus.Counter
	AuditWriteFailures prometheus.Counter
	ModelLoaded        prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all service metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RequestCount: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "request_count",
				Help: "Total number of requests",
			},
		),

		RequestLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "request_latency_seconds",
				Help:    "Request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		PredictionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "predictions_total",
				Help: "Total number of predictions made",
			},
		),

		FailedPredictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "failed_predictions_total",
				Help: "Total number of failed predictions",
			},
		),

		AuditWriteFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "audit_write_failures_total",
				Help: "Total number of audit log writes that failed",
			},
		),

		ModelLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "model_loaded",
				Help: "Whether the model artifact is loaded (0=no, 1=yes)",
			},
		),
	}
}

// RecordRequest increments the request counter
func (m *Metrics) RecordRequest() {
	m.RequestCount.Inc()
}

// ObserveLatency records one request's handling time
func (m *Metrics) ObserveLatency(duration time.Duration) {
	m.RequestLatency.Observe(duration.Seconds())
}

// RecordPrediction increments the successful prediction counter
func (m *Metrics) RecordPrediction() {
	m.PredictionsTotal.Inc()
}

// RecordFailedPrediction increments the failed prediction counter
func (m *Metrics) RecordFailedPrediction() {
	m.FailedPredictions.Inc()
}

// RecordAuditWriteFailure increments the audit write failure counter
func (m *Metrics) RecordAuditWriteFailure() {
	m.AuditWriteFailures.Inc()
}

// SetModelLoaded updates the model load status gauge
func (m *Metrics) SetModelLoaded(loaded bool) {
	value := 0.0
	if loaded {
		value = 1.0
	}
	m.ModelLoaded.Set(value)
}
