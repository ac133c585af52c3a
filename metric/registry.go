package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry owns a non-global Prometheus registry carrying the service
// metrics plus Go runtime and process collectors. Constructing one per
// server (instead of using the package-global default registry) keeps
// tests isolated and makes the metric surface explicit.
type Registry struct {
	prometheusRegistry *prometheus.Registry
	metrics            *Metrics
}

// NewRegistry creates a registry with all service metrics registered
func NewRegistry() *Registry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &Registry{
		prometheusRegistry: prometheusRegistry,
		metrics:            NewMetrics(),
	}
	registry.registerMetrics()

	// Add Go runtime metrics
	prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// Metrics returns the service metrics
func (r *Registry) Metrics() *Metrics {
	return r.metrics
}

// registerMetrics registers all service metrics
func (r *Registry) registerMetrics() {
	r.prometheusRegistry.MustRegister(
		r.metrics.RequestCount,
		r.metrics.RequestLatency,
		r.metrics.PredictionsTotal,
		r.metrics.FailedPredictions,
		r.metrics.AuditWriteFailures,
		r.metrics.ModelLoaded,
	)
}
