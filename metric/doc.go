// Package metric provides Prometheus-based metrics collection for the
// prediction service.
//
// The package offers a per-server registry managing the service metrics
// (request counters, latency histogram, prediction/failure counters) plus
// Go runtime collectors, and an HTTP handler exposing them in Prometheus
// format for an external pull-based collector.
//
// # Basic Usage
//
// Setting up metrics collection and the scrape endpoint:
//
//	registry := metric.NewRegistry()
//	mux.Handle("/metrics", metric.Handler(registry))
//
//	metrics := registry.Metrics()
//	metrics.RecordRequest()
//	metrics.ObserveLatency(elapsed)
//
// Counters are atomic and safe to increment from any request goroutine;
// scraping never blocks writers.
package metric
