package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds the cart's Prometheus collectors on a private registry.
type MetricsManager struct {
	Registry             *prometheus.Registry
	MutationsTotal       *prometheus.CounterVec
	StaleIndexTotal      *prometheus.CounterVec
	PersistFailuresTotal *prometheus.CounterVec
	SnapshotLoadsTotal   *prometheus.CounterVec
	CartLines            prometheus.Gauge
	CartItems            prometheus.Gauge
	HTTPRequestLatency   *prometheus.HistogramVec
}

func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		MutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations applied, by operation.",
		}, []string{"operation"}),
		StaleIndexTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_stale_index_total",
			Help:      "Positional operations ignored because the index no longer exists.",
		}, []string{"operation"}),
		PersistFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_persist_failures_total",
			Help:      "Snapshot writes or erases that failed.",
		}, []string{"operation"}),
		SnapshotLoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_snapshot_loads_total",
			Help:      "Snapshot loads at startup, by outcome.",
		}, []string{"outcome"}),
		CartLines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_lines",
			Help:      "Distinct line items currently in the cart.",
		}),
		CartItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_items",
			Help:      "Sum of quantities currently in the cart.",
		}),
		HTTPRequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_latency_seconds",
			Help:      "Latency of HTTP requests by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}

	registry.MustRegister(
		m.MutationsTotal,
		m.StaleIndexTotal,
		m.PersistFailuresTotal,
		m.SnapshotLoadsTotal,
		m.CartLines,
		m.CartItems,
		m.HTTPRequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
