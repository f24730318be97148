// Package metrics holds the Prometheus collectors shared by the client and the server
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	cacheHits        *prometheus.CounterVec
	fallbacks        *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "park_terminal",
		Name:      "upstream_requests_total",
		Help:      "NPS API requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
	m.upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "park_terminal",
		Name:      "upstream_request_duration_seconds",
		Help:      "Time spent waiting on the NPS API",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
	m.cacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "park_terminal",
		Name:      "cache_hits_total",
		Help:      "Responses served from the freshness window cache",
	}, []string{"endpoint"})
	m.fallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "park_terminal",
		Name:      "query_fallbacks_total",
		Help:      "Query functions that returned their empty fallback after an error",
	}, []string{"query"})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "park_terminal",
		Name:      "http_requests_total",
		Help:      "Local HTTP requests by route and status code",
	}, []string{"route", "code"})

	m.registry.MustRegister(
		m.upstreamRequests, m.upstreamDuration, m.cacheHits,
		m.fallbacks, m.httpRequests,
	)
	return m
}

// ObserveUpstream records one NPS API call
func (m *Metrics) ObserveUpstream(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// CacheHit records a response served without a network call
func (m *Metrics) CacheHit(endpoint string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(endpoint).Inc()
}

// Fallback records a query that swallowed an error
func (m *Metrics) Fallback(query string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(query).Inc()
}

// HTTPRequest records one served local request
func (m *Metrics) HTTPRequest(route, code string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, code).Inc()
}

// Registry exposes the underlying registry for tests and custom gatherers
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
