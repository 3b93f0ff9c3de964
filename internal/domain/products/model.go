// Package products provides the Product aggregate: cost lines, labor,
// other costs, variants, and the pricing specification, plus the computed
// cost/price/profit figures persisted with the product.
package products

import (
	"context"

	"github.com/shopspring/decimal"

	"pricecraft/internal/core/apperror"
	"pricecraft/internal/core/entity"
	"pricecraft/internal/core/id"
	"pricecraft/internal/core/types"
	"pricecraft/internal/domain/pricing"
)

// Status is the product sales lifecycle state.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusOnSale   Status = "on_sale"
	StatusArchived Status = "archived"
)

func validStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusOnSale, StatusArchived:
		return true
	}
	return false
}

// PricingSpec is the chosen pricing strategy for a product.
// ResultingPrice is always re-derivable from Method + Value + cost.
type PricingSpec struct {
	Method         pricing.Method `db:"pricing_method" json:"pricingMethod"`
	Value          types.Money    `db:"pricing_value" json:"pricingValue"`
	ResultingPrice types.Money    `db:"resulting_price" json:"resultingPrice"`
}

// Product is the aggregate root for one sellable item.
type Product struct {
	entity.Catalog

	SKU         *string `db:"sku" json:"sku,omitempty"`
	Description *string `db:"description" json:"description,omitempty"`
	Status      Status  `db:"status" json:"status"`

	// BatchSize is the number of finished units per production run
	BatchSize int `db:"batch_size" json:"batchSize"`

	PricingSpec

	// Computed per-unit figures, refreshed on every save
	ProductCost     types.Money   `db:"product_cost" json:"productCost"`
	Profit          types.Money   `db:"profit" json:"profit"`
	Margin          types.Percent `db:"margin" json:"margin"`
	Markup          types.Percent `db:"markup" json:"markup"`
	CostsPercentage types.Percent `db:"costs_percentage" json:"costsPercentage"`

	// Table parts
	Materials  []MaterialLine  `db:"-" json:"materials"`
	Labor      []LaborLine     `db:"-" json:"labor"`
	OtherCosts []OtherCostLine `db:"-" json:"otherCosts"`
	Variants   []Variant       `db:"-" json:"variants"`
}

// MaterialLine is one material consumed by the product, optionally linked
// to a stock-tracked library material.
type MaterialLine struct {
	LineID       id.ID           `db:"line_id" json:"lineId"`
	LineNo       int             `db:"line_no" json:"lineNo"`
	Name         string          `db:"name" json:"name"`
	Unit         string          `db:"unit" json:"unit"`
	Quantity     decimal.Decimal `db:"quantity" json:"quantity"`
	PricePerUnit types.Money     `db:"price_per_unit" json:"pricePerUnit"`
	UnitsMade    int             `db:"units_made" json:"unitsMade"`
	MaterialID   *id.ID          `db:"material_id" json:"materialId,omitempty"`
}

// LaborLine is one labor activity.
type LaborLine struct {
	LineID           id.ID           `db:"line_id" json:"lineId"`
	LineNo           int             `db:"line_no" json:"lineNo"`
	Activity         string          `db:"activity" json:"activity"`
	TimeSpentMinutes decimal.Decimal `db:"time_spent_minutes" json:"timeSpentMinutes"`
	HourlyRate       types.Money     `db:"hourly_rate" json:"hourlyRate"`
	PerUnit          bool            `db:"per_unit" json:"perUnit"`
}

// OtherCostLine is a miscellaneous cost line.
type OtherCostLine struct {
	LineID   id.ID           `db:"line_id" json:"lineId"`
	LineNo   int             `db:"line_no" json:"lineNo"`
	Item     string          `db:"item" json:"item"`
	Quantity decimal.Decimal `db:"quantity" json:"quantity"`
	Cost     types.Money     `db:"cost" json:"cost"`
	PerUnit  bool            `db:"per_unit" json:"perUnit"`
}

// Variant is a product sub-SKU with optional cost/price overrides.
type Variant struct {
	VariantID     id.ID              `db:"variant_id" json:"variantId"`
	Name          string             `db:"name" json:"name"`
	SKU           *string            `db:"sku" json:"sku,omitempty"`
	PriceOverride *types.Money       `db:"price_override" json:"priceOverride,omitempty"`
	CostOverride  *types.Money       `db:"cost_override" json:"costOverride,omitempty"`
	StockLevel    int                `db:"stock_level" json:"stockLevel"`
	IsActive      bool               `db:"is_active" json:"isActive"`
	Attributes    []VariantAttribute `db:"-" json:"attributes"`
}

// VariantAttribute is one descriptive attribute row of a variant.
type VariantAttribute struct {
	AttributeName  string `db:"attribute_name" json:"attributeName"`
	AttributeValue string `db:"attribute_value" json:"attributeValue"`
	DisplayOrder   int    `db:"display_order" json:"displayOrder"`
}

// NewProduct creates a draft product with required fields.
func NewProduct(name string) *Product {
	return &Product{
		Catalog:   entity.NewCatalog(name),
		Status:    StatusDraft,
		BatchSize: 1,
		PricingSpec: PricingSpec{
			Method: pricing.MethodMarkup,
			Value:  decimal.Zero,
		},
	}
}

// Validate implements entity.Validatable. Validation blocks computation:
// malformed input never reaches the engine.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !validStatus(p.Status) {
		return apperror.NewValidation("invalid product status").
			WithDetail("field", "status").
			WithDetail("value", string(p.Status))
	}

	if p.BatchSize < 1 {
		return apperror.NewValidation("batch size must be at least 1").
			WithDetail("field", "batchSize")
	}

	if !p.Method.Valid() {
		return apperror.NewUnsupportedMethod(string(p.Method))
	}

	if p.Value.IsNegative() {
		return apperror.NewValidation("pricing value cannot be negative").
			WithDetail("field", "pricingValue")
	}

	for i, m := range p.Materials {
		if m.Name == "" {
			return lineError("materials", i, "name is required")
		}
		if m.Quantity.IsNegative() {
			return lineError("materials", i, "quantity cannot be negative")
		}
		if m.PricePerUnit.IsNegative() {
			return lineError("materials", i, "price per unit cannot be negative")
		}
		if m.UnitsMade < 1 {
			return lineError("materials", i, "units made must be at least 1")
		}
	}

	for i, l := range p.Labor {
		if l.TimeSpentMinutes.IsNegative() {
			return lineError("labor", i, "time spent cannot be negative")
		}
		if l.HourlyRate.IsNegative() {
			return lineError("labor", i, "hourly rate cannot be negative")
		}
	}

	for i, o := range p.OtherCosts {
		if o.Quantity.IsNegative() {
			return lineError("otherCosts", i, "quantity cannot be negative")
		}
		if o.Cost.IsNegative() {
			return lineError("otherCosts", i, "cost cannot be negative")
		}
	}

	for i, v := range p.Variants {
		if v.Name == "" {
			return lineError("variants", i, "name is required")
		}
		if v.StockLevel < 0 {
			return lineError("variants", i, "stock level cannot be negative")
		}
		if v.PriceOverride != nil && v.PriceOverride.IsNegative() {
			return lineError("variants", i, "price override cannot be negative")
		}
		if v.CostOverride != nil && v.CostOverride.IsNegative() {
			return lineError("variants", i, "cost override cannot be negative")
		}
	}

	return nil
}

func lineError(section string, index int, msg string) error {
	return apperror.NewValidation(msg).
		WithDetail("section", section).
		WithDetail("line", index)
}

// CostProfile converts the product's lines into the engine's input shape.
func (p *Product) CostProfile() pricing.CostProfile {
	profile := pricing.CostProfile{
		BatchSize:  p.BatchSize,
		Materials:  make([]pricing.MaterialLine, 0, len(p.Materials)),
		Labor:      make([]pricing.LaborLine, 0, len(p.Labor)),
		OtherCosts: make([]pricing.OtherCostLine, 0, len(p.OtherCosts)),
	}

	for _, m := range p.Materials {
		profile.Materials = append(profile.Materials, pricing.MaterialLine{
			Name:         m.Name,
			Quantity:     m.Quantity,
			Unit:         m.Unit,
			PricePerUnit: m.PricePerUnit,
			UnitsMade:    m.UnitsMade,
			MaterialID:   m.MaterialID,
		})
	}
	for _, l := range p.Labor {
		profile.Labor = append(profile.Labor, pricing.LaborLine{
			Activity:         l.Activity,
			TimeSpentMinutes: l.TimeSpentMinutes,
			HourlyRate:       l.HourlyRate,
			PerUnit:          l.PerUnit,
		})
	}
	for _, o := range p.OtherCosts {
		profile.OtherCosts = append(profile.OtherCosts, pricing.OtherCostLine{
			Item:     o.Item,
			Quantity: o.Quantity,
			Cost:     o.Cost,
			PerUnit:  o.PerUnit,
		})
	}

	return profile
}

// Override converts a variant into the engine's override shape.
func (v Variant) Override() pricing.VariantOverride {
	attrs := make([]pricing.VariantAttribute, 0, len(v.Attributes))
	for _, a := range v.Attributes {
		attrs = append(attrs, pricing.VariantAttribute{
			Name:         a.AttributeName,
			Value:        a.AttributeValue,
			DisplayOrder: a.DisplayOrder,
		})
	}

	sku := ""
	if v.SKU != nil {
		sku = *v.SKU
	}

	return pricing.VariantOverride{
		Name:          v.Name,
		SKU:           sku,
		PriceOverride: v.PriceOverride,
		CostOverride:  v.CostOverride,
		StockLevel:    v.StockLevel,
		IsActive:      v.IsActive,
		Attributes:    attrs,
	}
}

// Recalculate runs the engine over the product's lines and refreshes the
// persisted cost/price/profit figures. It assumes Validate has passed.
func (p *Product) Recalculate() error {
	breakdown := pricing.ComputeProductCost(p.CostProfile())
	cost := types.RoundMoney(breakdown.Total)

	rawPrice, err := pricing.PriceFromMethod(p.Method, p.Value, breakdown.Total)
	if err != nil {
		return err
	}
	price := types.RoundMoney(rawPrice)

	metrics := pricing.MetricsFromPrice(price, cost)

	p.ProductCost = cost
	p.ResultingPrice = price
	p.Profit = metrics.Profit
	p.Margin = metrics.Margin
	p.Markup = metrics.Markup
	p.CostsPercentage = pricing.CostRatio(price, cost)

	return nil
}

// CanTransitionTo reports whether the status change is allowed.
// Archived products must go back through draft before selling again.
func (p *Product) CanTransitionTo(next Status) bool {
	if p.Status == next {
		return false
	}
	switch p.Status {
	case StatusDraft:
		return next == StatusOnSale || next == StatusArchived
	case StatusOnSale:
		return next == StatusDraft || next == StatusArchived
	case StatusArchived:
		return next == StatusDraft
	}
	return false
}

// TotalVariantStock sums stock across active variants.
func (p *Product) TotalVariantStock() int {
	overrides := make([]pricing.VariantOverride, 0, len(p.Variants))
	for _, v := range p.Variants {
		overrides = append(overrides, v.Override())
	}
	return pricing.TotalVariantStock(overrides)
}
