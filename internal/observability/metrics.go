package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	staleReports    prometheus.Counter
	pollTicks       *prometheus.CounterVec
	rpcRequests     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_backend_requests_total",
			Help: "Backend requests by endpoint and outcome (ok, no_data, unavailable).",
		}, []string{"endpoint", "outcome"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_backend_request_duration_seconds",
			Help:    "Histogram of backend request durations by endpoint.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		staleReports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_stale_report_responses_total",
			Help: "Report responses discarded because a newer query was issued.",
		}),
		pollTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_poll_ticks_total",
			Help: "Data refresh ticks by view.",
		}, []string{"view"}),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_rpc_requests_total",
			Help: "Gateway RPCs by method and status code.",
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.backendRequests,
		m.backendDuration,
		m.staleReports,
		m.pollTicks,
		m.rpcRequests,
	)
	return m
}

func (m *Metrics) ObserveBackendRequest(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.backendRequests.WithLabelValues(endpoint, outcome).Inc()
	m.backendDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) StaleReportDiscarded() {
	if m == nil {
		return
	}
	m.staleReports.Inc()
}

func (m *Metrics) PollTick(view string) {
	if m == nil {
		return
	}
	m.pollTicks.WithLabelValues(view).Inc()
}

func (m *Metrics) ObserveRPC(method, code string) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(method, code).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
