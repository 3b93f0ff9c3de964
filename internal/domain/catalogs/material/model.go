// Package material provides the stock-tracked material library.
// Library materials back product material lines and drive stock
// feasibility checks and the on-sale stock decrement.
package material

import (
	"context"

	"github.com/shopspring/decimal"

	"pricecraft/internal/core/apperror"
	"pricecraft/internal/core/entity"
	"pricecraft/internal/core/types"
)

// Material is one stock-tracked supply item.
type Material struct {
	entity.Catalog

	// Unit is a display label (g, cm, pcs); not dimensionally checked
	Unit string `db:"unit" json:"unit"`

	// PricePerUnit is the purchase price per unit of this material
	PricePerUnit types.Money `db:"price_per_unit" json:"pricePerUnit"`

	// StockLevel is the current on-hand quantity
	StockLevel decimal.Decimal `db:"stock_level" json:"stockLevel"`

	// MinStockLevel triggers low-stock reporting when StockLevel drops below it
	MinStockLevel decimal.Decimal `db:"min_stock_level" json:"minStockLevel"`

	// Supplier is a free-form note about where the material is bought
	Supplier *string `db:"supplier" json:"supplier,omitempty"`
}

// NewMaterial creates a material with required fields.
func NewMaterial(name, unit string, pricePerUnit types.Money) *Material {
	return &Material{
		Catalog:      entity.NewCatalog(name),
		Unit:         unit,
		PricePerUnit: pricePerUnit,
	}
}

// Validate implements entity.Validatable.
func (m *Material) Validate(ctx context.Context) error {
	if err := m.Catalog.Validate(ctx); err != nil {
		return err
	}

	if m.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if m.PricePerUnit.IsNegative() {
		return apperror.NewValidation("price per unit cannot be negative").
			WithDetail("field", "pricePerUnit")
	}

	if m.StockLevel.IsNegative() {
		return apperror.NewValidation("stock level cannot be negative").
			WithDetail("field", "stockLevel")
	}

	if m.MinStockLevel.IsNegative() {
		return apperror.NewValidation("minimum stock level cannot be negative").
			WithDetail("field", "minStockLevel")
	}

	return nil
}

// IsLowStock reports whether the material is at or below its minimum level.
func (m *Material) IsLowStock() bool {
	return m.MinStockLevel.IsPositive() && m.StockLevel.LessThanOrEqual(m.MinStockLevel)
}
