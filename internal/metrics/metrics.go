// Package metrics exposes Prometheus collectors for paste API calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIMetrics counts and times calls made through the API client.
type APIMetrics struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewAPIMetrics registers the collectors on a fresh registry.
func NewAPIMetrics() *APIMetrics {
	m := &APIMetrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pasteshare",
			Subsystem: "api_client",
			Name:      "requests_total",
			Help:      "Paste API calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pasteshare",
			Subsystem: "api_client",
			Name:      "request_duration_seconds",
			Help:      "Paste API call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		m.calls,
		m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one call. Its signature matches apiclient.Observer.
func (m *APIMetrics) Observe(operation, outcome string, elapsed time.Duration) {
	m.calls.WithLabelValues(operation, outcome).Inc()
	m.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *APIMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *APIMetrics) Registry() *prometheus.Registry { return m.registry }
