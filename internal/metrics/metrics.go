// Package metrics exposes Prometheus counters for the HTTP surface, pipeline
// transitions and sub-resource mutations.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	transitions *prometheus.CounterVec
	refused     *prometheus.CounterVec
	mutations   *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewCollector registers every metric on reg. Pass prometheus.NewRegistry()
// in tests to avoid duplicate registration.
func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_grid_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "candidate_grid_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_grid_pipeline_transitions_total",
			Help: "Applied pipeline stage transitions",
		}, []string{"kind", "from", "to"}),
		refused: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_grid_pipeline_transitions_refused_total",
			Help: "Transitions answered with a signal instead of a mutation",
		}, []string{"kind", "reason"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_grid_mutations_total",
			Help: "Create/update/delete operations by resource",
		}, []string{"resource", "op"}),
		gatherer: reg,
	}

	reg.MustRegister(c.requests, c.latency, c.transitions, c.refused, c.mutations)
	return c
}

func (c *Collector) RecordRequest(method, route string, status int, seconds float64) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(seconds)
}

func (c *Collector) RecordTransition(kind, from, to string) {
	c.transitions.WithLabelValues(kind, from, to).Inc()
}

func (c *Collector) RecordRefused(kind, reason string) {
	c.refused.WithLabelValues(kind, reason).Inc()
}

func (c *Collector) RecordMutation(resource, op string) {
	c.mutations.WithLabelValues(resource, op).Inc()
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
