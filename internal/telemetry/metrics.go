package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis outcomes used as metric labels
const (
	OutcomeOK         = "ok"
	OutcomeEmptyInput = "empty_input"
	OutcomeModelError = "model_error"
)

// Metrics holds the service's Prometheus collectors
type Metrics struct {
	Registry *prometheus.Registry

	analyses        *prometheus.CounterVec
	analysisLatency *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	breakerState    prometheus.Gauge
}

// NewMetrics registers every collector on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentiment",
			Name:      "analyses_total",
			Help:      "Sentiment analyses by outcome, dominant sentiment and detected language.",
		}, []string{"outcome", "sentiment", "language"}),
		analysisLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sentiment",
			Name:      "analysis_duration_seconds",
			Help:      "Time spent normalizing and classifying one text.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"outcome"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentiment",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sentiment",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		breakerState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentiment",
			Name:      "model_circuit_state",
			Help:      "Model circuit breaker state: 0 closed, 1 open, 2 half-open.",
		}),
	}
}

// ObserveAnalysis records one analysis. sentiment is empty on failure.
func (m *Metrics) ObserveAnalysis(outcome, sentiment, language string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome, sentiment, language).Inc()
	m.analysisLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SetBreakerState records the model circuit breaker state
func (m *Metrics) SetBreakerState(state int) {
	if m == nil {
		return
	}
	m.breakerState.Set(float64(state))
}
