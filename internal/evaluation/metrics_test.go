package evaluation_test

import (
	"testing"

	"olif/internal/evaluation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := evaluation.NewMetricsCollector(reg)

	assert.NotNil(t, collector)
	// a second collector on the same registry is a programming error
	assert.Panics(t, func() { evaluation.NewMetricsCollector(reg) })
}

func TestRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := evaluation.NewMetricsCollector(reg)

	collector.Record(&evaluation.EvaluationResult{
		Model:    "gemini/gemini-2.0-flash",
		Scenario: "single_item",
		Metrics: map[string]float64{
			evaluation.MetricItemRecall: 1,
			evaluation.MetricOverall:    0.75,
			evaluation.MetricLatency:    0.4,
		},
	})
	collector.Record(&evaluation.EvaluationResult{
		Model:    "gemini/gemini-2.0-flash",
		Scenario: "single_item",
		Metrics:  map[string]float64{evaluation.MetricOverall: 1},
	})

	// two score series, one run counter and one latency histogram
	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestRecord_NilSafe(t *testing.T) {
	var collector *evaluation.MetricsCollector
	assert.NotPanics(t, func() { collector.Record(&evaluation.EvaluationResult{}) })

	collector = evaluation.NewMetricsCollector(prometheus.NewRegistry())
	assert.NotPanics(t, func() { collector.Record(nil) })
}
