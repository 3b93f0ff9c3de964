package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecraft/internal/core/id"
)

func TestCheckStock_Shortfall(t *testing.T) {
	matID := id.New()
	materials := []MaterialLine{
		{Name: "silver wire", Unit: "cm", Quantity: dec("3"), MaterialID: &matID},
	}
	lookup := func(lookupID id.ID) (decimal.Decimal, bool) {
		require.Equal(t, matID, lookupID)
		return dec("12"), true
	}

	results := CheckStock(materials, 10, lookup)

	require.Len(t, results, 1)
	r := results[0]
	assert.True(t, r.RequiredQuantity.Equal(dec("30")), "required = %s", r.RequiredQuantity)
	assert.True(t, r.CurrentStock.Equal(dec("12")))
	assert.True(t, r.Shortfall.Equal(dec("18")), "shortfall = %s", r.Shortfall)
	assert.Equal(t, "silver wire", r.MaterialName)
	assert.Equal(t, "cm", r.Unit)
}

func TestCheckStock_SufficientStockOmitted(t *testing.T) {
	matID := id.New()
	materials := []MaterialLine{
		{Name: "beads", Quantity: dec("2"), MaterialID: &matID},
	}
	lookup := func(id.ID) (decimal.Decimal, bool) {
		return dec("50"), true
	}

	results := CheckStock(materials, 10, lookup)
	assert.Empty(t, results)
}

func TestCheckStock_LookupMissMeansZeroStock(t *testing.T) {
	matID := id.New()
	materials := []MaterialLine{
		{Name: "cord", Quantity: dec("1"), MaterialID: &matID},
	}
	lookup := func(id.ID) (decimal.Decimal, bool) {
		return decimal.Zero, false
	}

	results := CheckStock(materials, 5, lookup)

	require.Len(t, results, 1)
	assert.True(t, results[0].CurrentStock.IsZero())
	assert.True(t, results[0].Shortfall.Equal(dec("5")))
}

func TestCheckStock_SkipsUnlinkedLines(t *testing.T) {
	materials := []MaterialLine{
		{Name: "found driftwood", Quantity: dec("1")},
	}
	lookup := func(id.ID) (decimal.Decimal, bool) {
		t.Fatal("lookup must not be called for unlinked lines")
		return decimal.Zero, false
	}

	assert.Empty(t, CheckStock(materials, 3, lookup))
}

func TestCheckStock_BatchSizeClamped(t *testing.T) {
	matID := id.New()
	materials := []MaterialLine{
		{Name: "felt", Quantity: dec("2"), MaterialID: &matID},
	}
	lookup := func(id.ID) (decimal.Decimal, bool) {
		return dec("1"), true
	}

	results := CheckStock(materials, 0, lookup)

	require.Len(t, results, 1)
	assert.True(t, results[0].RequiredQuantity.Equal(dec("2")))
	assert.True(t, results[0].Shortfall.Equal(dec("1")))
}

func TestCheckStock_NilLookup(t *testing.T) {
	matID := id.New()
	materials := []MaterialLine{
		{Name: "glass", Quantity: dec("4"), MaterialID: &matID},
	}

	results := CheckStock(materials, 2, nil)

	require.Len(t, results, 1)
	assert.True(t, results[0].Shortfall.Equal(dec("8")))
}
