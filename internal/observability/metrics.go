package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for upstream calls and pipeline stages.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint, status
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint
	PipelineRuns     *prometheus.CounterVec   // labels: operation={geocode,historical,forecast}, outcome
	RefreshRuns      prometheus.Counter
}

// NewMetrics creates and registers all metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.PipelineRuns,
		m.RefreshRuns,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "upstream_requests_total",
			Help:      "Requests to geocoding and weather APIs by endpoint and HTTP status.",
		}, []string{"endpoint", "status"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_dashboard",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "pipeline_runs_total",
			Help:      "Pipeline stage executions by operation and outcome.",
		}, []string{"operation", "outcome"}),
		RefreshRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "refresh_runs_total",
			Help:      "Scheduled refresh jobs executed.",
		}),
	}
}

// ObserveUpstream records one upstream HTTP call.
func (m *Metrics) ObserveUpstream(endpoint, status string, elapsed time.Duration) {
	m.UpstreamRequests.WithLabelValues(endpoint, status).Inc()
	m.UpstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObservePipeline records the outcome of one pipeline stage.
func (m *Metrics) ObservePipeline(operation, outcome string) {
	m.PipelineRuns.WithLabelValues(operation, outcome).Inc()
}
