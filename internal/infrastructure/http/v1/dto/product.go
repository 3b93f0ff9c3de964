package dto

import (
	"github.com/shopspring/decimal"

	"pricecraft/internal/core/id"
	"pricecraft/internal/domain/pricing"
	"pricecraft/internal/domain/products"
)

// ProductRequest is the body for creating, updating or previewing a
// product. Status and computed figures are not settable here: status
// changes go through the status endpoint, figures are derived.
type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	SKU         *string         `json:"sku,omitempty"`
	Description *string         `json:"description,omitempty"`
	BatchSize   int             `json:"batchSize" binding:"required,min=1"`
	Method      string          `json:"pricingMethod" binding:"required"`
	Value       decimal.Decimal `json:"pricingValue"`

	Materials  []MaterialLineRequest  `json:"materials"`
	Labor      []LaborLineRequest     `json:"labor"`
	OtherCosts []OtherCostLineRequest `json:"otherCosts"`
	Variants   []VariantRequest       `json:"variants"`
}

// MaterialLineRequest is one material consumption line.
type MaterialLineRequest struct {
	Name         string          `json:"name" binding:"required"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	UnitsMade    int             `json:"unitsMade"`
	MaterialID   *id.ID          `json:"materialId,omitempty"`
}

// LaborLineRequest is one labor activity line. An absent perUnit means
// the time is spent on every unit, not once per batch.
type LaborLineRequest struct {
	Activity         string          `json:"activity" binding:"required"`
	TimeSpentMinutes decimal.Decimal `json:"timeSpentMinutes"`
	HourlyRate       decimal.Decimal `json:"hourlyRate"`
	PerUnit          *bool           `json:"perUnit"`
}

// OtherCostLineRequest is one miscellaneous cost line. perUnit defaults
// to true like on labor lines.
type OtherCostLineRequest struct {
	Item     string          `json:"item" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
	PerUnit  *bool           `json:"perUnit"`
}

// VariantRequest is one product variant with optional overrides.
type VariantRequest struct {
	Name          string                    `json:"name" binding:"required"`
	SKU           *string                   `json:"sku,omitempty"`
	PriceOverride *decimal.Decimal          `json:"priceOverride,omitempty"`
	CostOverride  *decimal.Decimal          `json:"costOverride,omitempty"`
	StockLevel    int                       `json:"stockLevel"`
	IsActive      bool                      `json:"isActive"`
	Attributes    []VariantAttributeRequest `json:"attributes"`
}

// VariantAttributeRequest is one descriptive attribute of a variant.
type VariantAttributeRequest struct {
	Name         string `json:"name" binding:"required"`
	Value        string `json:"value"`
	DisplayOrder int    `json:"displayOrder"`
}

// Apply copies request fields onto the product.
func (r *ProductRequest) Apply(p *products.Product) {
	p.Name = r.Name
	p.SKU = r.SKU
	p.Description = r.Description
	p.BatchSize = r.BatchSize
	p.Method = pricing.Method(r.Method)
	p.Value = r.Value

	p.Materials = make([]products.MaterialLine, 0, len(r.Materials))
	for _, l := range r.Materials {
		unitsMade := l.UnitsMade
		if unitsMade == 0 {
			unitsMade = 1
		}
		p.Materials = append(p.Materials, products.MaterialLine{
			Name:         l.Name,
			Unit:         l.Unit,
			Quantity:     l.Quantity,
			PricePerUnit: l.PricePerUnit,
			UnitsMade:    unitsMade,
			MaterialID:   l.MaterialID,
		})
	}

	p.Labor = make([]products.LaborLine, 0, len(r.Labor))
	for _, l := range r.Labor {
		perUnit := true
		if l.PerUnit != nil {
			perUnit = *l.PerUnit
		}
		p.Labor = append(p.Labor, products.LaborLine{
			Activity:         l.Activity,
			TimeSpentMinutes: l.TimeSpentMinutes,
			HourlyRate:       l.HourlyRate,
			PerUnit:          perUnit,
		})
	}

	p.OtherCosts = make([]products.OtherCostLine, 0, len(r.OtherCosts))
	for _, l := range r.OtherCosts {
		perUnit := true
		if l.PerUnit != nil {
			perUnit = *l.PerUnit
		}
		p.OtherCosts = append(p.OtherCosts, products.OtherCostLine{
			Item:     l.Item,
			Quantity: l.Quantity,
			Cost:     l.Cost,
			PerUnit:  perUnit,
		})
	}

	p.Variants = make([]products.Variant, 0, len(r.Variants))
	for _, v := range r.Variants {
		variant := products.Variant{
			Name:          v.Name,
			SKU:           v.SKU,
			PriceOverride: v.PriceOverride,
			CostOverride:  v.CostOverride,
			StockLevel:    v.StockLevel,
			IsActive:      v.IsActive,
		}
		for _, a := range v.Attributes {
			variant.Attributes = append(variant.Attributes, products.VariantAttribute{
				AttributeName:  a.Name,
				AttributeValue: a.Value,
				DisplayOrder:   a.DisplayOrder,
			})
		}
		p.Variants = append(p.Variants, variant)
	}
}

// ProductListQuery extends the common list query with product filters.
type ProductListQuery struct {
	ListQuery
	Status string `form:"status"`
}

// StatusChangeRequest is the body for the status transition endpoint.
// BatchSize optionally overrides the product's stored batch size for
// the stock decrement; zero means use the stored value.
type StatusChangeRequest struct {
	Status    string `json:"status" binding:"required"`
	BatchSize int    `json:"batchSize" binding:"omitempty,min=1"`
}

// StockCheckQuery parametrises the stock feasibility check.
type StockCheckQuery struct {
	BatchSize int `form:"batchSize" binding:"omitempty,min=1"`
}
