package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecraft/internal/core/types"
)

func dec(s string) decimal.Decimal {
	return types.MustMoney(s)
}

func TestComputeProductCost_SingleMaterial(t *testing.T) {
	// quantity=2, pricePerUnit=5, unitsMade=1 -> materials cost 10
	profile := CostProfile{
		BatchSize: 1,
		Materials: []MaterialLine{
			{Name: "clay", Quantity: dec("2"), PricePerUnit: dec("5"), UnitsMade: 1},
		},
	}

	got := ComputeProductCost(profile)

	assert.True(t, got.Materials.Equal(dec("10")), "materials = %s", got.Materials)
	assert.True(t, got.Total.Equal(dec("10")), "total = %s", got.Total)
	assert.True(t, got.Labor.IsZero())
	assert.True(t, got.Other.IsZero())
}

func TestComputeProductCost_UnitsMadeSpreadsPurchaseBatch(t *testing.T) {
	// One $12 sheet yields 4 finished units: 12/4 = 3 per unit.
	profile := CostProfile{
		BatchSize: 1,
		Materials: []MaterialLine{
			{Name: "sheet", Quantity: dec("1"), PricePerUnit: dec("12"), UnitsMade: 4},
		},
	}

	got := ComputeProductCost(profile)
	assert.True(t, got.Total.Equal(dec("3")), "total = %s", got.Total)
}

func TestComputeProductCost_UnitsMadeClampedToOne(t *testing.T) {
	for _, unitsMade := range []int{0, -3} {
		profile := CostProfile{
			BatchSize: 1,
			Materials: []MaterialLine{
				{Name: "wire", Quantity: dec("2"), PricePerUnit: dec("5"), UnitsMade: unitsMade},
			},
		}

		got := ComputeProductCost(profile)
		assert.True(t, got.Total.Equal(dec("10")), "unitsMade=%d total = %s", unitsMade, got.Total)
	}
}

func TestComputeProductCost_BatchLaborAllocation(t *testing.T) {
	// 120 minutes at 30/h batch-level, batchSize 4: line cost 60, per unit 15.
	profile := CostProfile{
		BatchSize: 4,
		Labor: []LaborLine{
			{Activity: "glazing", TimeSpentMinutes: dec("120"), HourlyRate: dec("30"), PerUnit: false},
		},
	}

	got := ComputeProductCost(profile)
	assert.True(t, got.Labor.Equal(dec("15")), "labor = %s", got.Labor)
	assert.True(t, got.Total.Equal(dec("15")))
}

func TestComputeProductCost_PerUnitLaborIgnoresBatchSize(t *testing.T) {
	line := LaborLine{Activity: "assembly", TimeSpentMinutes: dec("30"), HourlyRate: dec("20"), PerUnit: true}

	for _, batch := range []int{1, 4, 100} {
		got := ComputeProductCost(CostProfile{BatchSize: batch, Labor: []LaborLine{line}})
		assert.True(t, got.Labor.Equal(dec("10")), "batch=%d labor = %s", batch, got.Labor)
	}
}

func TestComputeProductCost_OtherCostAllocation(t *testing.T) {
	profile := CostProfile{
		BatchSize: 5,
		OtherCosts: []OtherCostLine{
			{Item: "box", Quantity: dec("1"), Cost: dec("2"), PerUnit: true},
			{Item: "market stall fee", Quantity: dec("1"), Cost: dec("25"), PerUnit: false},
		},
	}

	got := ComputeProductCost(profile)
	// 2 per unit + 25/5 batch share.
	assert.True(t, got.Other.Equal(dec("7")), "other = %s", got.Other)
}

func TestComputeProductCost_BatchSizeClampedToOne(t *testing.T) {
	profile := CostProfile{
		BatchSize: 0,
		Labor: []LaborLine{
			{TimeSpentMinutes: dec("60"), HourlyRate: dec("10"), PerUnit: false},
		},
	}

	got := ComputeProductCost(profile)
	assert.True(t, got.Total.Equal(dec("10")), "total = %s", got.Total)
}

func TestComputeProductCost_AllComponents(t *testing.T) {
	profile := CostProfile{
		BatchSize: 2,
		Materials: []MaterialLine{
			{Name: "yarn", Quantity: dec("3"), PricePerUnit: dec("4"), UnitsMade: 1},  // 12
			{Name: "label", Quantity: dec("1"), PricePerUnit: dec("1"), UnitsMade: 2}, // 0.5
		},
		Labor: []LaborLine{
			{TimeSpentMinutes: dec("90"), HourlyRate: dec("20"), PerUnit: true},  // 30
			{TimeSpentMinutes: dec("60"), HourlyRate: dec("15"), PerUnit: false}, // 15/2 = 7.5
		},
		OtherCosts: []OtherCostLine{
			{Quantity: dec("2"), Cost: dec("0.75"), PerUnit: true}, // 1.5
			{Quantity: dec("1"), Cost: dec("8"), PerUnit: false},   // 4
		},
	}

	got := ComputeProductCost(profile)

	assert.True(t, got.Materials.Equal(dec("12.5")), "materials = %s", got.Materials)
	assert.True(t, got.Labor.Equal(dec("37.5")), "labor = %s", got.Labor)
	assert.True(t, got.Other.Equal(dec("5.5")), "other = %s", got.Other)
	assert.True(t, got.Total.Equal(dec("55.5")), "total = %s", got.Total)
}

func TestComputeProductCost_NegativeInputContributesZero(t *testing.T) {
	profile := CostProfile{
		BatchSize: 1,
		Materials: []MaterialLine{
			{Quantity: dec("-2"), PricePerUnit: dec("5"), UnitsMade: 1},
		},
		Labor: []LaborLine{
			{TimeSpentMinutes: dec("60"), HourlyRate: dec("-10"), PerUnit: true},
		},
	}

	got := ComputeProductCost(profile)
	assert.True(t, got.Total.IsZero(), "total = %s", got.Total)
}

func TestComputeProductCost_Idempotent(t *testing.T) {
	profile := CostProfile{
		BatchSize: 3,
		Materials: []MaterialLine{
			{Quantity: dec("1.5"), PricePerUnit: dec("7.2"), UnitsMade: 2},
		},
		Labor: []LaborLine{
			{TimeSpentMinutes: dec("45"), HourlyRate: dec("22"), PerUnit: false},
		},
	}

	first := ComputeProductCost(profile)
	second := ComputeProductCost(profile)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Materials.Equal(second.Materials))
	assert.True(t, first.Labor.Equal(second.Labor))
}

func TestComputeProductCost_Monotonic(t *testing.T) {
	base := CostProfile{
		BatchSize: 4,
		Materials: []MaterialLine{
			{Quantity: dec("2"), PricePerUnit: dec("3"), UnitsMade: 1},
		},
		Labor: []LaborLine{
			{TimeSpentMinutes: dec("30"), HourlyRate: dec("18"), PerUnit: false},
		},
		OtherCosts: []OtherCostLine{
			{Quantity: dec("1"), Cost: dec("0.5"), PerUnit: true},
		},
	}
	baseTotal := ComputeProductCost(base).Total

	bump := func(name string, mutate func(*CostProfile)) {
		p := CostProfile{
			BatchSize:  base.BatchSize,
			Materials:  append([]MaterialLine(nil), base.Materials...),
			Labor:      append([]LaborLine(nil), base.Labor...),
			OtherCosts: append([]OtherCostLine(nil), base.OtherCosts...),
		}
		mutate(&p)
		got := ComputeProductCost(p).Total
		require.True(t, got.GreaterThanOrEqual(baseTotal),
			"%s: total dropped from %s to %s", name, baseTotal, got)
	}

	bump("material quantity", func(p *CostProfile) {
		p.Materials[0].Quantity = p.Materials[0].Quantity.Add(dec("1"))
	})
	bump("material price", func(p *CostProfile) {
		p.Materials[0].PricePerUnit = p.Materials[0].PricePerUnit.Add(dec("0.25"))
	})
	bump("labor minutes", func(p *CostProfile) {
		p.Labor[0].TimeSpentMinutes = p.Labor[0].TimeSpentMinutes.Add(dec("15"))
	})
	bump("hourly rate", func(p *CostProfile) {
		p.Labor[0].HourlyRate = p.Labor[0].HourlyRate.Add(dec("2"))
	})
	bump("other cost", func(p *CostProfile) {
		p.OtherCosts[0].Cost = p.OtherCosts[0].Cost.Add(dec("0.1"))
	})
}
