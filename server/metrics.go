package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the server.
type Metrics struct {
	RequestCounter     *prometheus.CounterVec
	LatencyHistogram   *prometheus.HistogramVec
	RateLimitHits      prometheus.Counter
	ValidationFailures prometheus.Counter
	RunCounter         *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	registry           *prometheus.Registry
}

// NewMetrics creates the collectors and registers them with registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventcrew_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		LatencyHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eventcrew_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RateLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventcrew_rate_limit_hits_total",
			Help: "Total number of rejected /run-event requests",
		}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventcrew_validation_failures_total",
			Help: "Total number of /run-event requests failing schema validation",
		}),
		RunCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventcrew_runs_total",
				Help: "Total number of planning runs by outcome",
			},
			[]string{"status"},
		),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventcrew_run_duration_seconds",
			Help:    "Planning run duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.RequestCounter,
		m.LatencyHistogram,
		m.RateLimitHits,
		m.ValidationFailures,
		m.RunCounter,
		m.RunDuration,
	)

	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	m.RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.LatencyHistogram.WithLabelValues(method, route).Observe(seconds)
}

// IncrementRateLimitHit counts a rejected request.
func (m *Metrics) IncrementRateLimitHit() { m.RateLimitHits.Inc() }

// IncrementValidationFailure counts a request rejected with 422.
func (m *Metrics) IncrementValidationFailure() { m.ValidationFailures.Inc() }

// RecordRun records the outcome of a planning run.
func (m *Metrics) RecordRun(err error, seconds float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RunCounter.WithLabelValues(status).Inc()
	m.RunDuration.Observe(seconds)
}

// Handler returns the Prometheus exposition handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
