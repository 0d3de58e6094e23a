// Package basket holds a shopper's unsubmitted selection and its derived totals.
package basket

import (
	"sync"

	"olif/internal/models"

	"github.com/shopspring/decimal"
)

// Line is one distinct menu item in the basket
type Line struct {
	models.MenuItem
	Quantity     int    `json:"quantity"`
	RestaurantID string `json:"restaurantId"`
}

// Totals are derived from the lines on every read and never stored
type Totals struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"deliveryFee"`
	Tax         int64 `json:"tax"`
	Total       int64 `json:"total"`
}

// Pricing holds the charges applied on top of the subtotal
type Pricing struct {
	DeliveryFee int64
	TaxRate     decimal.Decimal
}

// MaxLineQuantity is the most units a single line can hold
const MaxLineQuantity = 999

// DefaultPricing is a flat 1500 delivery fee and 5% VAT
var DefaultPricing = Pricing{
	DeliveryFee: 1500,
	TaxRate:     decimal.NewFromFloat(0.05),
}

// Basket is an insertion-ordered set of lines, at most one per item id.
// All methods are safe for concurrent use.
type Basket struct {
	mu      sync.Mutex
	lines   []Line
	pricing Pricing
}

// New creates an empty basket
func New(pricing Pricing) *Basket {
	return &Basket{pricing: pricing}
}

// Add puts one unit of item in the basket. An existing line is incremented
// up to MaxLineQuantity and keeps the restaurant it was first added from.
func (b *Basket) Add(item models.MenuItem, restaurantID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i := b.indexOf(item.ID); i >= 0 {
		if b.lines[i].Quantity < MaxLineQuantity {
			b.lines[i].Quantity++
		}
		return
	}
	b.lines = append(b.lines, Line{MenuItem: item, Quantity: 1, RestaurantID: restaurantID})
}

// UpdateQuantity adds delta to a line's quantity, clamping to
// [0, MaxLineQuantity]. A line that reaches zero is removed. Unknown ids are
// ignored.
func (b *Basket) UpdateQuantity(itemID string, delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(itemID)
	if i < 0 {
		return
	}
	// delta comes from clients; compare before adding so it cannot wrap
	cur := b.lines[i].Quantity
	switch {
	case delta <= -cur:
		b.removeAt(i)
	case delta >= MaxLineQuantity-cur:
		b.lines[i].Quantity = MaxLineQuantity
	default:
		b.lines[i].Quantity = cur + delta
	}
}

// Remove drops a line regardless of its quantity. Unknown ids are ignored.
func (b *Basket) Remove(itemID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i := b.indexOf(itemID); i >= 0 {
		b.removeAt(i)
	}
}

// Clear empties the basket
func (b *Basket) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}

// Drain empties the basket and returns what it held, priced, in one step.
// Nothing added concurrently can land between the read and the clear.
func (b *Basket) Drain() ([]Line, Totals) {
	b.mu.Lock()
	lines := b.lines
	b.lines = nil
	b.mu.Unlock()
	return lines, ComputeTotals(lines, b.pricing)
}

// Restore puts drained lines back ahead of anything added since the drain.
// Quantities for items present in both are summed.
func (b *Basket) Restore(lines []Line) {
	if len(lines) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	merged := make([]Line, len(lines), len(lines)+len(b.lines))
	copy(merged, lines)
	for _, l := range b.lines {
		found := false
		for i := range merged {
			if merged[i].ID == l.ID {
				merged[i].Quantity = min(merged[i].Quantity+l.Quantity, MaxLineQuantity)
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, l)
		}
	}
	b.lines = merged
}

// Lines returns a copy of the lines in insertion order
func (b *Basket) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

// Quantity returns the quantity held for an item, zero when absent
func (b *Basket) Quantity(itemID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i := b.indexOf(itemID); i >= 0 {
		return b.lines[i].Quantity
	}
	return 0
}

// Count returns the number of units across all lines
func (b *Basket) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, l := range b.lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the basket has no lines
func (b *Basket) IsEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines) == 0
}

// Totals computes subtotal, delivery, tax and total from the current lines
func (b *Basket) Totals() Totals {
	return ComputeTotals(b.Lines(), b.pricing)
}

// Snapshot returns the lines and their totals read under one lock
func (b *Basket) Snapshot() ([]Line, Totals) {
	lines := b.Lines()
	return lines, ComputeTotals(lines, b.pricing)
}

// ComputeTotals prices a set of lines. Tax is rounded half-up to the whole Naira.
func ComputeTotals(lines []Line, p Pricing) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal += l.Price * int64(l.Quantity)
	}
	if len(lines) > 0 {
		t.DeliveryFee = p.DeliveryFee
	}
	// subtotal is never negative, so Round's half-away-from-zero is half-up here
	t.Tax = decimal.NewFromInt(t.Subtotal).Mul(p.TaxRate).Round(0).IntPart()
	t.Total = t.Subtotal + t.DeliveryFee + t.Tax
	return t
}

func (b *Basket) indexOf(itemID string) int {
	for i := range b.lines {
		if b.lines[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (b *Basket) removeAt(i int) {
	b.lines = append(b.lines[:i], b.lines[i+1:]...)
}
