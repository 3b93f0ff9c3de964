package products

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecraft/internal/core/apperror"
	"pricecraft/internal/core/types"
	"pricecraft/internal/domain/pricing"
)

func dec(s string) decimal.Decimal {
	return types.MustMoney(s)
}

func testProduct() *Product {
	p := NewProduct("Ceramic mug")
	p.BatchSize = 4
	p.Method = pricing.MethodMarkup
	p.Value = dec("50")
	p.Materials = []MaterialLine{
		{Name: "clay", Unit: "g", Quantity: dec("2"), PricePerUnit: dec("5"), UnitsMade: 1},
	}
	p.Labor = []LaborLine{
		{Activity: "kiln firing", TimeSpentMinutes: dec("120"), HourlyRate: dec("30"), PerUnit: false},
	}
	return p
}

func TestProductValidate_OK(t *testing.T) {
	require.NoError(t, testProduct().Validate(context.Background()))
}

func TestProductValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Product)
	}{
		{"empty name", func(p *Product) { p.Name = "" }},
		{"zero batch size", func(p *Product) { p.BatchSize = 0 }},
		{"unknown method", func(p *Product) { p.Method = "discount" }},
		{"negative pricing value", func(p *Product) { p.Value = dec("-5") }},
		{"negative material quantity", func(p *Product) { p.Materials[0].Quantity = dec("-1") }},
		{"zero units made", func(p *Product) { p.Materials[0].UnitsMade = 0 }},
		{"negative hourly rate", func(p *Product) { p.Labor[0].HourlyRate = dec("-1") }},
		{"negative variant stock", func(p *Product) {
			p.Variants = []Variant{{Name: "S", StockLevel: -1}}
		}},
		{"unnamed variant", func(p *Product) {
			p.Variants = []Variant{{StockLevel: 1}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProduct()
			tt.mutate(p)
			err := p.Validate(context.Background())
			require.Error(t, err)
			_, ok := apperror.AsAppError(err)
			assert.True(t, ok, "expected AppError, got %T", err)
		})
	}
}

func TestProductRecalculate(t *testing.T) {
	p := testProduct()
	// materials 10 + batch labor 60/4 = 25 per unit; markup 50% -> 37.5
	require.NoError(t, p.Recalculate())

	assert.True(t, p.ProductCost.Equal(dec("25")), "cost = %s", p.ProductCost)
	assert.True(t, p.ResultingPrice.Equal(dec("37.5")), "price = %s", p.ResultingPrice)
	assert.True(t, p.Profit.Equal(dec("12.5")), "profit = %s", p.Profit)
	assert.True(t, p.Markup.Equal(dec("50")), "markup = %s", p.Markup)
	assert.True(t, p.Margin.Equal(dec("33.33")), "margin = %s", p.Margin)
	assert.True(t, p.CostsPercentage.Equal(dec("66.67")), "costs%% = %s", p.CostsPercentage)
}

func TestProductRecalculate_ResultingPriceRederivable(t *testing.T) {
	p := testProduct()
	p.Method = pricing.MethodMargin
	p.Value = dec("20")
	require.NoError(t, p.Recalculate())

	back, err := pricing.ValueFromMethod(p.Method, p.ResultingPrice, p.ProductCost)
	require.NoError(t, err)
	assert.True(t, back.Sub(p.Value).Abs().LessThanOrEqual(dec("0.01")),
		"value = %s, recovered = %s", p.Value, back)
}

func TestCanTransitionTo(t *testing.T) {
	p := NewProduct("x")

	p.Status = StatusDraft
	assert.True(t, p.CanTransitionTo(StatusOnSale))
	assert.True(t, p.CanTransitionTo(StatusArchived))
	assert.False(t, p.CanTransitionTo(StatusDraft))

	p.Status = StatusOnSale
	assert.True(t, p.CanTransitionTo(StatusDraft))
	assert.True(t, p.CanTransitionTo(StatusArchived))

	p.Status = StatusArchived
	assert.True(t, p.CanTransitionTo(StatusDraft))
	assert.False(t, p.CanTransitionTo(StatusOnSale))
}

func TestCostProfileMapping(t *testing.T) {
	p := testProduct()
	p.OtherCosts = []OtherCostLine{
		{Item: "box", Quantity: dec("1"), Cost: dec("0.8"), PerUnit: true},
	}

	profile := p.CostProfile()

	assert.Equal(t, 4, profile.BatchSize)
	require.Len(t, profile.Materials, 1)
	assert.Equal(t, "clay", profile.Materials[0].Name)
	require.Len(t, profile.Labor, 1)
	assert.False(t, profile.Labor[0].PerUnit)
	require.Len(t, profile.OtherCosts, 1)
	assert.True(t, profile.OtherCosts[0].Cost.Equal(dec("0.8")))
}

func TestTotalVariantStock(t *testing.T) {
	p := testProduct()
	p.Variants = []Variant{
		{Name: "S", StockLevel: 2, IsActive: true},
		{Name: "M", StockLevel: 7, IsActive: false},
	}
	assert.Equal(t, 2, p.TotalVariantStock())
}
