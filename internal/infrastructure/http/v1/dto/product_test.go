package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecraft/internal/domain/products"
)

func boolPtr(b bool) *bool { return &b }

func TestProductRequestApply_LineDefaults(t *testing.T) {
	req := ProductRequest{
		Name:      "Mug",
		BatchSize: 4,
		Method:    "markup",
		Materials: []MaterialLineRequest{
			{Name: "Clay", Quantity: decimal.NewFromInt(2)},
		},
		Labor: []LaborLineRequest{
			{Activity: "Throwing", TimeSpentMinutes: decimal.NewFromInt(15)},
			{Activity: "Kiln firing", TimeSpentMinutes: decimal.NewFromInt(45), PerUnit: boolPtr(false)},
		},
		OtherCosts: []OtherCostLineRequest{
			{Item: "Box", Quantity: decimal.NewFromInt(1)},
			{Item: "Stall fee", Quantity: decimal.NewFromInt(1), PerUnit: boolPtr(false)},
		},
	}

	p := products.NewProduct(req.Name)
	req.Apply(p)

	require.Len(t, p.Labor, 2)
	assert.True(t, p.Labor[0].PerUnit, "labor line without perUnit must count per unit")
	assert.False(t, p.Labor[1].PerUnit)

	require.Len(t, p.OtherCosts, 2)
	assert.True(t, p.OtherCosts[0].PerUnit, "other-cost line without perUnit must count per unit")
	assert.False(t, p.OtherCosts[1].PerUnit)

	require.Len(t, p.Materials, 1)
	assert.Equal(t, 1, p.Materials[0].UnitsMade, "unitsMade 0 defaults to 1")
}
