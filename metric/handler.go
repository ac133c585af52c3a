package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the HTTP handler serving the registry's metrics in the
// Prometheus text exposition format. The handler is safe to serve
// concurrently with any number of in-flight metric updates.
func Handler(registry *Registry) http.Handler {
	return promhttp.HandlerFor(
		registry.PrometheusRegistry(),
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	)
}
