// Package metrics holds the prometheus collectors for the HTTP API and the upload flow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeRejected    = "rejected"
	OutcomeFailed      = "failed"
	OutcomeStale       = "stale"
	OutcomeInProgress  = "in_progress"
	OutcomeDegraded    = "degraded"
	OutcomeTimeout     = "timeout"
	OutcomeUnsupported = "unsupported"
)

// Collectors groups every metric the service exports. Each instance owns its registry
// so tests can build as many as they like.
type Collectors struct {
	registry *prometheus.Registry

	requestDuration *prometheus.SummaryVec
	requestTotal    *prometheus.CounterVec
	uploads         *prometheus.CounterVec
	adapterDuration *prometheus.HistogramVec
	adapterOutcomes *prometheus.CounterVec
}

// New registers the collectors on a fresh registry together with the Go and process collectors.
func New() *Collectors {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Collectors{
		registry: reg,
		requestDuration: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.005,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		requestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_uploads_total",
				Help: "Resume uploads by role and outcome",
			},
			[]string{"role", "outcome"},
		),
		adapterDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfolio_adapter_duration_seconds",
				Help:    "Model adapter call duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
			},
			[]string{"adapter", "provider"},
		),
		adapterOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_adapter_results_total",
				Help: "Model adapter results by adapter and outcome",
			},
			[]string{"adapter", "outcome"},
		),
	}
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveRequest records one finished HTTP request.
func (c *Collectors) ObserveRequest(method, path string, status int, d time.Duration) {
	if c == nil {
		return
	}
	code := strconv.Itoa(status)
	c.requestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	c.requestTotal.WithLabelValues(method, path, code).Inc()
}

// Upload counts an upload attempt that ended with outcome.
func (c *Collectors) Upload(role, outcome string) {
	if c == nil {
		return
	}
	c.uploads.WithLabelValues(role, outcome).Inc()
}

// Adapter records one adapter call.
func (c *Collectors) Adapter(adapter, provider, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.adapterDuration.WithLabelValues(adapter, provider).Observe(d.Seconds())
	c.adapterOutcomes.WithLabelValues(adapter, outcome).Inc()
}
