package basket

import (
	"math/rand"
	"sync"
	"testing"

	"olif/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jollof = models.MenuItem{ID: "ng-1", Name: "Smoky Party Jollof Rice", Price: 5500}
	suya   = models.MenuItem{ID: "ng-5", Name: "Beef Suya Platter", Price: 3500}
	egusi  = models.MenuItem{ID: "ng-2", Name: "Pounded Yam & Egusi Soup", Price: 7200}
)

func TestAdd_MergesByItemID(t *testing.T) {
	b := New(DefaultPricing)

	b.Add(jollof, "res-1")
	b.Add(suya, "res-suya")
	b.Add(jollof, "res-1")

	lines := b.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "ng-1", lines[0].ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "ng-5", lines[1].ID)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, 3, b.Count())
}

func TestAdd_FirstRestaurantWins(t *testing.T) {
	b := New(DefaultPricing)

	b.Add(jollof, "res-1")
	b.Add(jollof, "res-other")

	lines := b.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "res-1", lines[0].RestaurantID)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAdd_MergePropertyRandomSequences(t *testing.T) {
	items := []models.MenuItem{jollof, suya, egusi}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		b := New(DefaultPricing)
		want := map[string]int{}
		for n := rng.Intn(30); n > 0; n-- {
			item := items[rng.Intn(len(items))]
			b.Add(item, "r")
			want[item.ID]++
		}

		lines := b.Lines()
		assert.Len(t, lines, len(want))
		seen := map[string]bool{}
		for _, l := range lines {
			assert.False(t, seen[l.ID], "duplicate line for %s", l.ID)
			seen[l.ID] = true
			assert.Equal(t, want[l.ID], l.Quantity)
		}
	}
}

func TestUpdateQuantity(t *testing.T) {
	b := New(DefaultPricing)
	b.Add(jollof, "res-1")
	b.Add(jollof, "res-1")
	b.Add(suya, "res-suya")

	b.UpdateQuantity("ng-1", 3)
	assert.Equal(t, 5, b.Quantity("ng-1"))

	b.UpdateQuantity("ng-1", -1)
	assert.Equal(t, 4, b.Quantity("ng-1"))

	// removing exactly the held quantity drops the line
	b.UpdateQuantity("ng-1", -4)
	assert.Equal(t, 0, b.Quantity("ng-1"))
	require.Len(t, b.Lines(), 1)

	// overshooting never goes negative, it removes
	b.UpdateQuantity("ng-5", -10)
	assert.True(t, b.IsEmpty())

	// unknown id is a no-op
	b.UpdateQuantity("missing", 2)
	assert.True(t, b.IsEmpty())
}

func TestRemoveAndClear(t *testing.T) {
	b := New(DefaultPricing)
	b.Add(jollof, "res-1")
	b.Add(suya, "res-suya")
	b.Add(egusi, "res-1")

	b.Remove("ng-5")
	lines := b.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "ng-1", lines[0].ID)
	assert.Equal(t, "ng-2", lines[1].ID)

	b.Remove("missing")
	assert.Len(t, b.Lines(), 2)

	b.Clear()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, Totals{}, b.Totals())
}

func TestTotals(t *testing.T) {
	b := New(DefaultPricing)
	assert.Equal(t, Totals{}, b.Totals(), "empty basket has no delivery fee")

	b.Add(jollof, "res-1")
	b.Add(jollof, "res-1")

	got := b.Totals()
	assert.Equal(t, int64(11000), got.Subtotal)
	assert.Equal(t, int64(1500), got.DeliveryFee)
	assert.Equal(t, int64(550), got.Tax)
	assert.Equal(t, int64(13050), got.Total)

	// pure: reading twice without mutation is identical
	assert.Equal(t, got, b.Totals())

	// recomputed after mutation
	b.Add(suya, "res-suya")
	assert.Equal(t, int64(14500), b.Totals().Subtotal)
}

func TestComputeTotals_TaxRoundsHalfUp(t *testing.T) {
	tests := []struct {
		price int64
		tax   int64
	}{
		{10, 1},   // 0.5 rounds up
		{9, 0},    // 0.45 rounds down
		{30, 2},   // 1.5 rounds up
		{3510, 176},
		{0, 0},
	}

	for _, tt := range tests {
		lines := []Line{{MenuItem: models.MenuItem{ID: "x", Price: tt.price}, Quantity: 1}}
		got := ComputeTotals(lines, DefaultPricing)
		assert.Equal(t, tt.tax, got.Tax, "price %d", tt.price)
		assert.Equal(t, got.Subtotal+got.DeliveryFee+got.Tax, got.Total)
	}
}

func TestConcurrentAdds(t *testing.T) {
	b := New(DefaultPricing)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Add(suya, "res-suya")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, b.Quantity("ng-5"))
	assert.Len(t, b.Lines(), 1)
}

func TestDrain(t *testing.T) {
	b := New(DefaultPricing)
	b.Add(jollof, "res-1")
	b.Add(jollof, "res-1")
	b.Add(suya, "res-suya")

	lines, totals := b.Drain()

	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, int64(14500), totals.Subtotal)
	assert.True(t, b.IsEmpty())

	lines, totals = b.Drain()
	assert.Empty(t, lines)
	assert.Equal(t, Totals{}, totals)
}

func TestRestore_MergesWithLaterAdds(t *testing.T) {
	b := New(DefaultPricing)
	b.Add(jollof, "res-1")
	b.Add(suya, "res-suya")
	drained, _ := b.Drain()

	// lands while the drained lines are away
	b.Add(egusi, "res-1")
	b.Add(suya, "res-suya")

	b.Restore(drained)

	lines := b.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"ng-1", "ng-5", "ng-2"}, []string{lines[0].ID, lines[1].ID, lines[2].ID})
	assert.Equal(t, 2, b.Quantity("ng-5"))
	assert.Equal(t, 4, b.Count())
}

func TestLineQuantityIsBounded(t *testing.T) {
	b := New(DefaultPricing)
	b.Add(suya, "res-suya")

	b.UpdateQuantity("ng-5", int(^uint(0)>>1))
	assert.Equal(t, MaxLineQuantity, b.Quantity("ng-5"))

	b.Add(suya, "res-suya")
	assert.Equal(t, MaxLineQuantity, b.Quantity("ng-5"))

	b.UpdateQuantity("ng-5", -int(^uint(0)>>1)-1)
	assert.True(t, b.IsEmpty())
}
