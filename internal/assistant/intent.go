package assistant

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// MaxQuantity is the most units of one dish a single utterance can add
const MaxQuantity = 99

// OrderLine is one requested dish as named by the shopper. Capped is set when
// the requested quantity was above MaxQuantity and has been lowered to it.
type OrderLine struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	Capped   bool   `json:"capped,omitempty"`
}

// Intent is the structured reading of a single utterance
type Intent struct {
	Orders           []OrderLine `json:"orders"`
	IsOrder          bool        `json:"isOrder"`
	IsCheckoutIntent bool        `json:"isCheckoutIntent"`
}

// Normalize enforces the intent's invariants: quantities are between one and
// MaxQuantity, names are trimmed, and IsOrder is true exactly when there are
// orders.
func (in Intent) Normalize() Intent {
	out := Intent{IsCheckoutIntent: in.IsCheckoutIntent}
	for _, o := range in.Orders {
		o.Item = strings.TrimSpace(o.Item)
		if o.Quantity < 1 {
			o.Quantity = 1
		}
		if o.Quantity > MaxQuantity {
			o.Quantity = MaxQuantity
			o.Capped = true
		}
		out.Orders = append(out.Orders, o)
	}
	out.IsOrder = len(out.Orders) > 0
	return out
}

// wireIntent accepts what providers actually send back: missing fields,
// fractional quantities, and the older single-item shape.
type wireIntent struct {
	Orders []struct {
		Item     string   `json:"item"`
		Quantity *float64 `json:"quantity"`
	} `json:"orders"`
	Item             string   `json:"item"`
	Quantity         *float64 `json:"quantity"`
	IsCheckoutIntent bool     `json:"isCheckoutIntent"`
}

// ParseIntent decodes a provider response into a normalized Intent.
// Markdown code fences and text around the JSON object are ignored.
func ParseIntent(raw string) (Intent, error) {
	body, err := extractJSONObject(raw)
	if err != nil {
		return Intent{}, err
	}

	var w wireIntent
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return Intent{}, fmt.Errorf("malformed intent: %w", err)
	}

	in := Intent{IsCheckoutIntent: w.IsCheckoutIntent}
	for _, o := range w.Orders {
		in.Orders = append(in.Orders, OrderLine{Item: o.Item, Quantity: quantityOf(o.Quantity)})
	}
	if len(in.Orders) == 0 && strings.TrimSpace(w.Item) != "" {
		in.Orders = append(in.Orders, OrderLine{Item: w.Item, Quantity: quantityOf(w.Quantity)})
	}
	return in.Normalize(), nil
}

// quantityOf converts a model-supplied quantity. Anything above MaxQuantity,
// including +Inf, maps to MaxQuantity+1 so Normalize caps and flags it; the
// float is never converted while out of int range.
func quantityOf(q *float64) int {
	switch {
	case q == nil || math.IsNaN(*q) || *q < 1:
		return 1
	case math.Round(*q) > MaxQuantity:
		return MaxQuantity + 1
	}
	return int(math.Round(*q))
}

// extractJSONObject returns the outermost {...} in s
func extractJSONObject(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return s[start : end+1], nil
}
