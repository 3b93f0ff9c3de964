package pricing

import (
	"pricecraft/internal/core/types"
)

// VariantAttribute is one descriptive attribute of a variant,
// e.g. {Size, Large}.
type VariantAttribute struct {
	Name         string
	Value        string
	DisplayOrder int
}

// VariantOverride is a variant's deviation from its parent product.
// Overrides are absolute replacements, not deltas: a nil override falls
// back to the parent value.
type VariantOverride struct {
	Name          string
	SKU           string
	PriceOverride *types.Money
	CostOverride  *types.Money
	StockLevel    int
	IsActive      bool
	Attributes    []VariantAttribute
}

// Effective is the resolved cost/price pair for one variant.
type Effective struct {
	Cost  types.Money
	Price types.Money
}

// EffectiveCostAndPrice resolves a variant's cost and price against its
// parent's values. No markup or margin recomputation is implied.
// Inactive variants resolve the same way; activity only affects aggregate
// reporting.
func EffectiveCostAndPrice(baseCost, basePrice types.Money, v VariantOverride) Effective {
	eff := Effective{Cost: baseCost, Price: basePrice}
	if v.CostOverride != nil {
		eff.Cost = *v.CostOverride
	}
	if v.PriceOverride != nil {
		eff.Price = *v.PriceOverride
	}
	return eff
}

// TotalVariantStock sums stock levels across active variants only.
func TotalVariantStock(variants []VariantOverride) int {
	total := 0
	for _, v := range variants {
		if v.IsActive {
			total += v.StockLevel
		}
	}
	return total
}
