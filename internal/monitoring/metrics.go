package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector handles metrics collection and reporting. A nil *Collector is
// valid and records nothing, so components can run without metrics.
type Collector struct {
	registry  *prometheus.Registry
	startTime time.Time

	utterances     *prometheus.CounterVec
	intents        *prometheus.CounterVec
	basketOps      *prometheus.CounterVec
	checkouts      prometheus.Counter
	llmLatency     *prometheus.HistogramVec
	activeSessions prometheus.Gauge
}

// NewCollector creates a collector on its own registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry:  registry,
		startTime: time.Now(),
		utterances: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "olif_assistant_utterances_total",
				Help: "Utterances handled by the assistant, by outcome",
			},
			[]string{"outcome"},
		),
		intents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "olif_assistant_intents_total",
				Help: "Extracted intents, by kind",
			},
			[]string{"kind"},
		),
		basketOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "olif_basket_operations_total",
				Help: "Basket mutations, by operation",
			},
			[]string{"op"},
		),
		checkouts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "olif_checkouts_total",
				Help: "Completed checkouts",
			},
		),
		llmLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "olif_llm_call_duration_seconds",
				Help:    "Latency of language-model calls",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 8),
			},
			[]string{"call", "status"},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "olif_active_sessions",
				Help: "Sessions currently held in memory",
			},
		),
	}

	registry.MustRegister(
		c.utterances,
		c.intents,
		c.basketOps,
		c.checkouts,
		c.llmLatency,
		c.activeSessions,
	)
	return c
}

// Handler serves the collector's registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Uptime returns the time since the collector was created
func (c *Collector) Uptime() time.Duration {
	if c == nil {
		return 0
	}
	return time.Since(c.startTime)
}

// RecordUtterance counts a handled utterance
func (c *Collector) RecordUtterance(outcome string) {
	if c == nil {
		return
	}
	c.utterances.WithLabelValues(outcome).Inc()
}

// RecordIntent counts an extracted intent
func (c *Collector) RecordIntent(kind string) {
	if c == nil {
		return
	}
	c.intents.WithLabelValues(kind).Inc()
}

// RecordBasketOp counts n basket mutations of one kind
func (c *Collector) RecordBasketOp(op string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.basketOps.WithLabelValues(op).Add(float64(n))
}

// RecordCheckout counts a completed checkout
func (c *Collector) RecordCheckout() {
	if c == nil {
		return
	}
	c.checkouts.Inc()
}

// ObserveLLMCall records the latency of one provider call
func (c *Collector) ObserveLLMCall(call string, d time.Duration, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.llmLatency.WithLabelValues(call, status).Observe(d.Seconds())
}

// SetActiveSessions sets the live session gauge
func (c *Collector) SetActiveSessions(n int) {
	if c == nil {
		return
	}
	c.activeSessions.Set(float64(n))
}
