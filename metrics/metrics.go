package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the data API.
type Metrics struct {
	registry               *prometheus.Registry
	requestsTotal          prometheus.Counter
	errorsTotal            prometheus.Counter
	upstreamErrorsTotal    *prometheus.CounterVec
	snapshotFallbacksTotal prometheus.Counter
	feedCacheHitsTotal     prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bellhop_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bellhop_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	upstreamErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bellhop_upstream_errors_total",
		Help: "Total number of failed calls to upstream services",
	}, []string{"upstream"})
	snapshotFallbacksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bellhop_snapshot_fallbacks_total",
		Help: "Total number of now playing responses served from the cached snapshot or default track",
	})
	feedCacheHitsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bellhop_feed_cache_hits_total",
		Help: "Total number of activity feed responses served from the in-process cache",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		upstreamErrorsTotal,
		snapshotFallbacksTotal,
		feedCacheHitsTotal,
	)

	return &Metrics{
		registry:               registry,
		requestsTotal:          requestsTotal,
		errorsTotal:            errorsTotal,
		upstreamErrorsTotal:    upstreamErrorsTotal,
		snapshotFallbacksTotal: snapshotFallbacksTotal,
		feedCacheHitsTotal:     feedCacheHitsTotal,
	}
}

func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncUpstreamErrors records a failed call to the named upstream
// service, e.g. "spotify" or "letterboxd".
func (m *Metrics) IncUpstreamErrors(upstream string) {
	m.upstreamErrorsTotal.WithLabelValues(upstream).Inc()
}

func (m *Metrics) IncSnapshotFallbacks() {
	m.snapshotFallbacksTotal.Inc()
}

func (m *Metrics) IncFeedCacheHits() {
	m.feedCacheHitsTotal.Inc()
}

// Handler returns an http.Handler that serves the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
