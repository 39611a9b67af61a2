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

// Metrics holds the service's collectors on a registry of its own.
type Metrics struct {
	registry *prometheus.Registry

	AuditEntries        *prometheus.CounterVec
	AuditFailures       *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AuditEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accounts_audit_log_entries_total",
			Help: "User manipulation log entries written, by action",
		}, []string{"action"}),
		AuditFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accounts_audit_log_failures_total",
			Help: "User manipulation log entries that could not be written, by action",
		}, []string{"action"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accounts_http_requests_total",
			Help: "HTTP requests served, by route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accounts_http_request_duration_seconds",
			Help:    "HTTP request latency, by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) AuditEntryWritten(action string) {
	m.AuditEntries.WithLabelValues(action).Inc()
}

func (m *Metrics) AuditEntryFailed(action string) {
	m.AuditFailures.WithLabelValues(action).Inc()
}

// ObserveRequest records one served request. Call with time.Now() taken at the start.
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
