package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pricecraft/internal/core/types"
)

func money(s string) *types.Money {
	d := types.MustMoney(s)
	return &d
}

func TestEffectiveCostAndPrice_Fallback(t *testing.T) {
	v := VariantOverride{Name: "Small", IsActive: true}

	eff := EffectiveCostAndPrice(dec("7"), dec("20"), v)

	assert.True(t, eff.Cost.Equal(dec("7")))
	assert.True(t, eff.Price.Equal(dec("20")))
}

func TestEffectiveCostAndPrice_CostOverrideOnly(t *testing.T) {
	v := VariantOverride{Name: "Large", CostOverride: money("7"), IsActive: true}

	eff := EffectiveCostAndPrice(dec("5"), dec("20"), v)

	assert.True(t, eff.Cost.Equal(dec("7")), "cost = %s", eff.Cost)
	assert.True(t, eff.Price.Equal(dec("20")), "price = %s", eff.Price)
}

func TestEffectiveCostAndPrice_BothOverrides(t *testing.T) {
	v := VariantOverride{
		Name:          "XL",
		CostOverride:  money("9.5"),
		PriceOverride: money("29.99"),
	}

	eff := EffectiveCostAndPrice(dec("5"), dec("20"), v)

	assert.True(t, eff.Cost.Equal(dec("9.5")))
	assert.True(t, eff.Price.Equal(dec("29.99")))
}

func TestEffectiveCostAndPrice_InactiveStillResolvable(t *testing.T) {
	v := VariantOverride{Name: "Discontinued", PriceOverride: money("12"), IsActive: false}

	eff := EffectiveCostAndPrice(dec("5"), dec("20"), v)
	assert.True(t, eff.Price.Equal(dec("12")))
}

func TestTotalVariantStock_ActiveOnly(t *testing.T) {
	variants := []VariantOverride{
		{Name: "S", StockLevel: 3, IsActive: true},
		{Name: "M", StockLevel: 5, IsActive: true},
		{Name: "L", StockLevel: 100, IsActive: false},
	}

	assert.Equal(t, 8, TotalVariantStock(variants))
}
