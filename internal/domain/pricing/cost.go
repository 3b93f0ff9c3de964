// Package pricing implements the costing and pricing engine: folding
// itemized material, labor, and other-cost lines into a per-unit product
// cost, resolving the four pricing methods, applying variant overrides, and
// checking stock feasibility.
//
// The engine is pure: no I/O, no clocks, no shared state. Every function is
// deterministic over its inputs and safe to call concurrently. All
// arithmetic uses decimal.Decimal at full precision; divisions are guarded
// so no input can cause a runtime panic.
package pricing

import (
	"github.com/shopspring/decimal"

	"pricecraft/internal/core/id"
	"pricecraft/internal/core/types"
)

var minutesPerHour = decimal.NewFromInt(60)

// MaterialLine is one material consumed by a product.
// Materials are always per-unit: Quantity is the amount consumed per
// finished unit, and UnitsMade spreads a purchase batch of the material
// across the units it yields.
type MaterialLine struct {
	Name         string
	Quantity     decimal.Decimal
	Unit         string
	PricePerUnit types.Money

	// UnitsMade is how many finished units one purchase batch of this
	// material yields. Values below 1 are treated as 1.
	UnitsMade int

	// MaterialID links the line to a stock-tracked library material.
	MaterialID *id.ID
}

// LineCost returns (quantity × pricePerUnit) / unitsMade.
func (l MaterialLine) LineCost() types.Money {
	units := int64(l.UnitsMade)
	if units < 1 {
		units = 1
	}
	return nonNegative(l.Quantity).
		Mul(nonNegative(l.PricePerUnit)).
		Div(decimal.NewFromInt(units))
}

// LaborLine is one labor activity.
type LaborLine struct {
	Activity         string
	TimeSpentMinutes decimal.Decimal
	HourlyRate       types.Money

	// PerUnit marks the time as spent per finished unit; false means the
	// time is spent once per production batch.
	PerUnit bool
}

// LineCost returns (minutes / 60) × hourlyRate.
func (l LaborLine) LineCost() types.Money {
	return nonNegative(l.TimeSpentMinutes).
		Div(minutesPerHour).
		Mul(nonNegative(l.HourlyRate))
}

// OtherCostLine is a miscellaneous cost (packaging, fees, listing charges).
type OtherCostLine struct {
	Item     string
	Quantity decimal.Decimal
	Cost     types.Money

	// PerUnit marks the cost as incurred per finished unit; false means
	// once per production batch.
	PerUnit bool
}

// LineCost returns quantity × cost.
func (l OtherCostLine) LineCost() types.Money {
	return nonNegative(l.Quantity).Mul(nonNegative(l.Cost))
}

// CostProfile aggregates all cost lines for one product at one batch size.
type CostProfile struct {
	// BatchSize is the number of finished units per production run.
	// Values below 1 are treated as 1.
	BatchSize int

	Materials  []MaterialLine
	Labor      []LaborLine
	OtherCosts []OtherCostLine
}

// CostBreakdown is the per-unit result of folding a CostProfile.
// All amounts are unrounded; rounding happens at the output boundary.
type CostBreakdown struct {
	Materials types.Money
	Labor     types.Money
	Other     types.Money
	Total     types.Money
}

// ComputeProductCost folds a CostProfile into a per-unit cost breakdown.
//
// Per-unit lines contribute their full line cost to every unit; batch-level
// lines (PerUnit=false) contribute lineCost / batchSize. Materials are
// always per-unit. Negative quantities and prices contribute zero, so the
// result is never negative.
func ComputeProductCost(p CostProfile) CostBreakdown {
	batch := decimal.NewFromInt(int64(effectiveBatchSize(p.BatchSize)))

	var materials decimal.Decimal
	for _, m := range p.Materials {
		materials = materials.Add(m.LineCost())
	}

	var labor decimal.Decimal
	for _, l := range p.Labor {
		cost := l.LineCost()
		if !l.PerUnit {
			cost = cost.Div(batch)
		}
		labor = labor.Add(cost)
	}

	var other decimal.Decimal
	for _, o := range p.OtherCosts {
		cost := o.LineCost()
		if !o.PerUnit {
			cost = cost.Div(batch)
		}
		other = other.Add(cost)
	}

	return CostBreakdown{
		Materials: materials,
		Labor:     labor,
		Other:     other,
		Total:     materials.Add(labor).Add(other),
	}
}

func effectiveBatchSize(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
