package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	queryLatency *prometheus.HistogramVec
	cacheResults *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "justdo",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "justdo",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		queryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "justdo",
			Name:      "query_duration_seconds",
			Help:      "Todo query pipeline latency by kind (list, paged) and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "outcome"}),
		cacheResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "justdo",
			Name:      "query_cache_total",
			Help:      "Query cache lookups by kind and result (hit, miss, error).",
		}, []string{"kind", "result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpLatency,
		m.queryLatency,
		m.cacheResults,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(route, method string, code int, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpLatency.WithLabelValues(route, method).Observe(took.Seconds())
}

func (m *Metrics) ObserveQuery(kind string, err error, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.queryLatency.WithLabelValues(kind, outcome).Observe(took.Seconds())
}

func (m *Metrics) CacheResult(kind, result string) {
	if m == nil {
		return
	}
	m.cacheResults.WithLabelValues(kind, result).Inc()
}
