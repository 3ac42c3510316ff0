// Package metrics is the export adapter around the aggregation store:
// it feeds every tracked event into both the store and a Prometheus
// registry from one call site, and optionally forwards snapshot
// aggregates to a remote-write endpoint.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"metricscollector/internal/store"
)

var eventLabels = []string{"event", "service", "status"}

// Collector owns the Prometheus view of tracked events. The counter
// and the store advance in lockstep from Track, with identical label
// normalization on both sides, so the exposition and the JSON views
// always agree on key identity.
type Collector struct {
	store    *store.Store
	registry *prometheus.Registry

	events  *prometheus.CounterVec
	latency *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func NewCollector(st *store.Store) *Collector {
	c := &Collector{
		store:    st,
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mc_events_total",
			Help: "Tracked events (labelled).",
		}, eventLabels),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "mc_event_latency_seconds",
			Help: "Observed latency (seconds) when value is provided.",
		}, eventLabels),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mc_http_requests_total",
			Help: "HTTP requests served by the collector itself.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "mc_http_request_duration_seconds",
			Help: "HTTP request latency of the collector itself.",
		}, []string{"method", "path"}),
	}

	keys := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "mc_store_keys",
		Help: "Distinct label keys seen by the aggregation store.",
	}, func() float64 { return float64(st.KeyCount()) })

	c.registry.MustRegister(c.events, c.latency, c.httpRequests, c.httpDuration, keys)
	return c
}

// Track records one event in both sinks. The count always advances;
// the histogram, like the store's series, observes only supplied
// values. Callers pass already-normalized labels.
func (c *Collector) Track(event string, value *float64, service, status string) {
	c.store.Track(event, value, service, status)
	c.events.WithLabelValues(event, service, status).Inc()
	if value != nil {
		c.latency.WithLabelValues(event, service, status).Observe(*value)
	}
}

// ObserveRequest feeds the collector's own HTTP self-metrics.
func (c *Collector) ObserveRequest(method, path string, status int, seconds float64) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, path).Observe(seconds)
}

// Exposition serves the registry in Prometheus text format.
func (c *Collector) Exposition() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
