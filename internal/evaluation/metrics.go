package evaluation

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exports evaluation scores to prometheus
type MetricsCollector struct {
	scores  *prometheus.GaugeVec
	runs    *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewMetricsCollector creates the evaluation metrics and registers them on reg
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	c := &MetricsCollector{
		scores: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "olif_intent_evaluation_score",
				Help: "Latest intent evaluation score per model, scenario and metric",
			},
			[]string{"model", "scenario", "metric"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "olif_intent_evaluation_runs_total",
				Help: "Number of scenario evaluations run",
			},
			[]string{"model", "scenario"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "olif_intent_evaluation_latency_seconds",
				Help:    "Extraction latency observed during evaluation",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"model"},
		),
	}
	reg.MustRegister(c.scores, c.runs, c.latency)
	return c
}

// Record exports a scenario result
func (c *MetricsCollector) Record(r *EvaluationResult) {
	if c == nil || r == nil {
		return
	}
	c.runs.WithLabelValues(r.Model, r.Scenario).Inc()
	for metric, v := range r.Metrics {
		if metric == MetricLatency {
			c.latency.WithLabelValues(r.Model).Observe(v)
			continue
		}
		c.scores.WithLabelValues(r.Model, r.Scenario, metric).Set(v)
	}
}
