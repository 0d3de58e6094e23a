package evaluation

import (
	"time"
)

// Expectation is what a correct extractor returns for a scenario's utterance
type Expectation struct {
	// Items maps catalog item ids to the quantity the shopper asked for
	Items      map[string]int `json:"items"`
	Unresolved int            `json:"unresolved"`
	IsOrder    bool           `json:"isOrder"`
	Checkout   bool           `json:"checkout"`
}

// Scenario represents an evaluation scenario
type Scenario struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Utterance   string      `json:"utterance"`
	Expect      Expectation `json:"expect"`
}

// EvaluationResult contains the scores of one extractor on one scenario
type EvaluationResult struct {
	Model    string             `json:"model"`
	Scenario string             `json:"scenario"`
	Metrics  map[string]float64 `json:"metrics"`
	Events   []EventLog         `json:"events,omitempty"`
}

// EventLog captures what happened while a scenario ran
type EventLog struct {
	Timestamp time.Time              `json:"timestamp"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
}

// Report aggregates the results of a full run
type Report struct {
	Model   string             `json:"model"`
	Results []EvaluationResult `json:"results"`
	Summary map[string]float64 `json:"summary"`
}

// Metric names reported for every scenario
const (
	MetricItemPrecision    = "item_precision"
	MetricItemRecall       = "item_recall"
	MetricQuantityAccuracy = "quantity_accuracy"
	MetricOrderFlag        = "order_flag_accuracy"
	MetricCheckout         = "checkout_accuracy"
	MetricOverall          = "overall_score"
	MetricLatency          = "latency_seconds"
)

var scoreMetrics = []string{
	MetricItemPrecision,
	MetricItemRecall,
	MetricQuantityAccuracy,
	MetricOrderFlag,
	MetricCheckout,
}
