package dto

import (
	"github.com/shopspring/decimal"

	"pricecraft/internal/domain/catalogs/material"
)

// MaterialRequest is the body for creating or updating a material.
type MaterialRequest struct {
	Name          string          `json:"name" binding:"required"`
	Unit          string          `json:"unit" binding:"required"`
	PricePerUnit  decimal.Decimal `json:"pricePerUnit"`
	StockLevel    decimal.Decimal `json:"stockLevel"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
	Supplier      *string         `json:"supplier,omitempty"`
}

// Apply copies request fields onto the material.
func (r *MaterialRequest) Apply(m *material.Material) {
	m.Name = r.Name
	m.Unit = r.Unit
	m.PricePerUnit = r.PricePerUnit
	m.StockLevel = r.StockLevel
	m.MinStockLevel = r.MinStockLevel
	m.Supplier = r.Supplier
}

// MaterialListQuery extends the common list query with material filters.
type MaterialListQuery struct {
	ListQuery
	LowStockOnly bool `form:"lowStockOnly"`
}

// AdjustStockRequest is the body for a manual stock adjustment.
type AdjustStockRequest struct {
	Delta decimal.Decimal `json:"delta" binding:"required"`
}

// StockLevelResponse is returned after a stock adjustment.
type StockLevelResponse struct {
	MaterialID string          `json:"materialId"`
	StockLevel decimal.Decimal `json:"stockLevel"`
}
