package evaluation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"olif/internal/assistant"
	"olif/internal/catalog"
	"olif/internal/logger"
)

var log = logger.GetLogger()

// Resolver maps extracted dish names to catalog entries
type Resolver interface {
	FindByName(name string) (catalog.Entry, bool)
}

// Evaluator scores intent extractors against scripted utterances. Scores
// are computed on catalog item ids, so "Jollof" and "Jollof Rice" count as
// the same dish when they resolve to the same item.
type Evaluator struct {
	resolver  Resolver
	scenarios map[string]*Scenario
	order     []string
	metrics   *MetricsCollector
	now       func() time.Time
}

// NewEvaluator creates an evaluator with the built-in scenarios
func NewEvaluator(resolver Resolver, metrics *MetricsCollector) *Evaluator {
	e := &Evaluator{
		resolver:  resolver,
		scenarios: make(map[string]*Scenario),
		metrics:   metrics,
		now:       time.Now,
	}
	for _, s := range builtinScenarios() {
		e.AddScenario(s)
	}
	return e
}

// AddScenario registers or replaces a scenario
func (e *Evaluator) AddScenario(s *Scenario) {
	if _, exists := e.scenarios[s.ID]; !exists {
		e.order = append(e.order, s.ID)
	}
	e.scenarios[s.ID] = s
}

// HasScenario checks if a scenario exists
func (e *Evaluator) HasScenario(id string) bool {
	_, exists := e.scenarios[id]
	return exists
}

// GetScenarios returns all scenarios in registration order
func (e *Evaluator) GetScenarios() []*Scenario {
	scenarios := make([]*Scenario, 0, len(e.order))
	for _, id := range e.order {
		scenarios = append(scenarios, e.scenarios[id])
	}
	return scenarios
}

// Evaluate runs one scenario against an extractor
func (e *Evaluator) Evaluate(ctx context.Context, model string, ex assistant.Extractor, scenarioID string) (*EvaluationResult, error) {
	scenario, exists := e.scenarios[scenarioID]
	if !exists {
		return nil, fmt.Errorf("scenario not found: %s", scenarioID)
	}

	result := &EvaluationResult{Model: model, Scenario: scenarioID, Metrics: make(map[string]float64)}
	e.event(result, "utterance_sent", map[string]interface{}{"utterance": scenario.Utterance})

	start := e.now()
	intent, err := ex.ExtractIntent(ctx, scenario.Utterance)
	result.Metrics[MetricLatency] = e.now().Sub(start).Seconds()
	if err != nil {
		log.Warnf("evaluation of %s on %s: extraction failed: %v", model, scenarioID, err)
		e.event(result, "extraction_failed", map[string]interface{}{"error": err.Error()})
		for _, m := range scoreMetrics {
			result.Metrics[m] = 0
		}
		result.Metrics[MetricOverall] = 0
		e.metrics.Record(result)
		return result, nil
	}
	intent = intent.Normalize()

	got, unresolved := e.resolve(intent)
	e.event(result, "intent_extracted", map[string]interface{}{
		"items":      got,
		"unresolved": unresolved,
		"isOrder":    intent.IsOrder,
		"checkout":   intent.IsCheckoutIntent,
	})

	score(result.Metrics, scenario.Expect, got, unresolved, intent)
	e.metrics.Record(result)
	return result, nil
}

// EvaluateAll runs every scenario and averages the scores
func (e *Evaluator) EvaluateAll(ctx context.Context, model string, ex assistant.Extractor) (*Report, error) {
	report := &Report{Model: model, Summary: make(map[string]float64)}
	for _, id := range e.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := e.Evaluate(ctx, model, ex, id)
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, *res)
	}

	if n := float64(len(report.Results)); n > 0 {
		for _, r := range report.Results {
			for k, v := range r.Metrics {
				report.Summary[k] += v / n
			}
		}
	}
	return report, nil
}

func (e *Evaluator) resolve(intent assistant.Intent) (map[string]int, []string) {
	got := make(map[string]int)
	var unresolved []string
	for _, o := range intent.Orders {
		entry, ok := e.resolver.FindByName(o.Item)
		if !ok {
			unresolved = append(unresolved, o.Item)
			continue
		}
		got[entry.Item.ID] += o.Quantity
	}
	sort.Strings(unresolved)
	return got, unresolved
}

func (e *Evaluator) event(r *EvaluationResult, typ string, data map[string]interface{}) {
	r.Events = append(r.Events, EventLog{Timestamp: e.now(), Type: typ, Data: data})
}

func score(m map[string]float64, want Expectation, got map[string]int, unresolved []string, intent assistant.Intent) {
	correct, exactQty := 0, 0
	for id, qty := range got {
		if wantQty, ok := want.Items[id]; ok {
			correct++
			if wantQty == qty {
				exactQty++
			}
		}
	}

	m[MetricItemPrecision] = ratio(correct, len(got))
	m[MetricItemRecall] = ratio(correct, len(want.Items))
	m[MetricQuantityAccuracy] = ratio(exactQty, correct)
	m[MetricOrderFlag] = boolScore(intent.IsOrder == want.IsOrder)
	m[MetricCheckout] = boolScore(intent.IsCheckoutIntent == want.Checkout)
	// an off-menu dish must be reported, not silently dropped or invented
	if want.Unresolved > 0 && len(unresolved) != want.Unresolved {
		m[MetricItemPrecision] = 0
	}

	total := 0.0
	for _, k := range scoreMetrics {
		total += m[k]
	}
	m[MetricOverall] = total / float64(len(scoreMetrics))
}

func ratio(n, d int) float64 {
	if d == 0 {
		if n == 0 {
			return 1
		}
		return 0
	}
	return float64(n) / float64(d)
}

func boolScore(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}
