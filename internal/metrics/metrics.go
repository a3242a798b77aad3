package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nest"

// Metrics owns a private registry so tests can build as many as they like.
// It implements dashboard.Recorder.
type Metrics struct {
	registry      *prometheus.Registry
	intents       *prometheus.CounterVec
	backendErrors *prometheus.CounterVec
	dashboards    prometheus.Gauge
	requests      *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "User intents handled by dashboards, by outcome.",
		}, []string{"intent", "result"}),
		backendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_errors_total",
			Help:      "Failed backend calls, by operation.",
		}, []string{"op"}),
		dashboards: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dashboards_active",
			Help:      "Dashboards currently held in memory.",
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route pattern and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}

	m.registry.MustRegister(
		m.intents,
		m.backendErrors,
		m.dashboards,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Intent(intent, result string) {
	m.intents.WithLabelValues(intent, result).Inc()
}

func (m *Metrics) BackendError(op string) {
	m.backendErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) Dashboards(active int) {
	m.dashboards.Set(float64(active))
}

// ObserveRequest records one HTTP request. route is the matched pattern,
// never the raw path, to keep cardinality bounded.
func (m *Metrics) ObserveRequest(route string, status int, seconds float64) {
	m.requests.WithLabelValues(route, statusClass(status)).Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
