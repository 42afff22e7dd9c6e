// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "billsplittr"

// Metrics holds every collector on its own registry, so tests can create as many
// instances as they like.
type Metrics struct {
	Registry *prometheus.Registry

	// RPCRequests counts Connect calls by procedure and result code.
	RPCRequests *prometheus.CounterVec

	// RPCDuration observes Connect call latency by procedure.
	RPCDuration *prometheus.HistogramVec

	// SessionsActive tracks live wizard sessions.
	SessionsActive prometheus.Gauge

	// ReceiptImports counts receipt pipeline outcomes
	// (ok, cache_hit, low_confidence, no_text, failed, rejected).
	ReceiptImports *prometheus.CounterVec

	// ReceiptStageDuration observes OCR and parsing latency, retries included.
	ReceiptStageDuration *prometheus.HistogramVec

	// ReceiptRetries counts retried upstream attempts by stage.
	ReceiptRetries *prometheus.CounterVec
}

// New creates and registers all collectors, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Connect RPC calls by procedure and code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Connect RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Wizard sessions currently held in memory.",
		}),
		ReceiptImports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipt_imports_total",
			Help:      "Receipt pipeline runs by outcome.",
		}, []string{"outcome"}),
		ReceiptStageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "receipt_stage_duration_seconds",
			Help:      "Time spent in each receipt pipeline stage.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"stage"}),
		ReceiptRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipt_retries_total",
			Help:      "Retried upstream attempts by stage.",
		}, []string{"stage"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RPCRequests,
		m.RPCDuration,
		m.SessionsActive,
		m.ReceiptImports,
		m.ReceiptStageDuration,
		m.ReceiptRetries,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
