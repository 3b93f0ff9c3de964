package products

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"pricecraft/internal/core/apperror"
	"pricecraft/internal/core/id"
	"pricecraft/internal/core/tx"
	"pricecraft/internal/core/types"
	"pricecraft/internal/domain/catalogs/material"
	"pricecraft/internal/domain/pricing"
	"pricecraft/pkg/logger"
)

// ChangeRecorder writes an audit trail entry for a product mutation.
// Implementations must tolerate being called inside a transaction.
type ChangeRecorder interface {
	RecordChange(ctx context.Context, entityType string, entityID id.ID, action string, before, after any) error
}

// Service provides business operations for products.
type Service struct {
	repo      Repository
	materials *material.Service
	txManager tx.Manager
	audit     ChangeRecorder // optional
}

// NewService creates a product service.
func NewService(repo Repository, materials *material.Service, txManager tx.Manager, audit ChangeRecorder) *Service {
	return &Service{
		repo:      repo,
		materials: materials,
		txManager: txManager,
		audit:     audit,
	}
}

// Create validates, computes, and stores a new product with all lines.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	if err := p.Recalculate(); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if err := s.repo.SaveLines(ctx, p.ID, p); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		s.recordChange(ctx, p.ID, "create", nil, p)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product created",
		"id", p.ID,
		"name", p.Name,
		"cost", p.ProductCost,
		"price", p.ResultingPrice,
	)
	return nil
}

// Update validates, recomputes, and stores changes to a product.
// The computed figures are always refreshed from the lines; stale
// cost/price values sent by the client are ignored.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	before, err := s.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}

	// A status change is not allowed through Update; SetStatus owns the
	// transition and its stock side effect.
	if p.Status != before.Status {
		return apperror.NewValidation("status cannot be changed on save; use the status endpoint").
			WithDetail("field", "status")
	}

	if err := p.Recalculate(); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if err := s.repo.SaveLines(ctx, p.ID, p); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		s.recordChange(ctx, p.ID, "update", before, p)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product updated", "id", p.ID, "cost", p.ProductCost, "price", p.ResultingPrice)
	return nil
}

// GetByID retrieves a product with all table parts.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.GetLines(ctx, p); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return p, nil
}

// List retrieves products with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// ListAll retrieves every product matching the filter, paging through the
// repository. Exports use it so the price list covers the whole range.
func (s *Service) ListAll(ctx context.Context, filter ListFilter) ([]*Product, error) {
	const pageSize = 200

	filter.Limit = pageSize
	filter.Offset = 0

	var items []*Product
	for {
		page, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if len(page.Items) < pageSize || int64(len(items)) >= page.TotalCount {
			return items, nil
		}
		filter.Offset += pageSize
	}
}

// Delete soft-deletes a product.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetDeletionMark(ctx, productID, true); err != nil {
			return err
		}
		s.recordChange(ctx, productID, "delete", p, nil)
		return nil
	})
}

// Quote is the transient output of a preview computation.
type Quote struct {
	MaterialsCost   types.Money
	LaborCost       types.Money
	OtherCost       types.Money
	ProductCost     types.Money
	Price           types.Money
	Profit          types.Money
	Margin          types.Percent
	Markup          types.Percent
	CostsPercentage types.Percent
}

// Preview runs the engine over an unsaved product and returns the figures
// without persisting anything. Backs the as-you-type quote in the UI.
func (s *Service) Preview(ctx context.Context, p *Product) (Quote, error) {
	if err := p.Validate(ctx); err != nil {
		return Quote{}, err
	}

	breakdown := pricing.ComputeProductCost(p.CostProfile())
	cost := types.RoundMoney(breakdown.Total)

	rawPrice, err := pricing.PriceFromMethod(p.Method, p.Value, breakdown.Total)
	if err != nil {
		return Quote{}, err
	}
	price := types.RoundMoney(rawPrice)
	metrics := pricing.MetricsFromPrice(price, cost)

	return Quote{
		MaterialsCost:   types.RoundMoney(breakdown.Materials),
		LaborCost:       types.RoundMoney(breakdown.Labor),
		OtherCost:       types.RoundMoney(breakdown.Other),
		ProductCost:     cost,
		Price:           price,
		Profit:          metrics.Profit,
		Margin:          metrics.Margin,
		Markup:          metrics.Markup,
		CostsPercentage: pricing.CostRatio(price, cost),
	}, nil
}

// CheckStock reports material shortfalls for producing batchSize units.
// A batchSize of 0 falls back to the product's stored batch size.
func (s *Service) CheckStock(ctx context.Context, productID id.ID, batchSize int) ([]pricing.StockCheckResult, error) {
	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = p.BatchSize
	}

	lookup, err := s.stockLookup(ctx, p)
	if err != nil {
		return nil, err
	}

	return pricing.CheckStock(p.CostProfile().Materials, batchSize, lookup), nil
}

// SetStatus transitions a product between lifecycle states.
//
// Entering on_sale decrements library stock by line.quantity ×
// effectiveBatchSize for every stock-linked material line, exactly once per
// transition. effectiveBatchSize is explicit: pass 0 to use the product's
// stored batch size. The transition fails with an insufficient-stock error
// if any linked material cannot cover the decrement.
func (s *Service) SetStatus(ctx context.Context, productID id.ID, next Status, effectiveBatchSize int) (*Product, error) {
	if !validStatus(next) {
		return nil, apperror.NewValidation("invalid product status").
			WithDetail("value", string(next))
	}

	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if !p.CanTransitionTo(next) {
		return nil, apperror.NewInvalidTransition(string(p.Status), string(next))
	}

	if effectiveBatchSize <= 0 {
		effectiveBatchSize = p.BatchSize
	}

	prev := p.Status
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if next == StatusOnSale {
			if err := s.decrementStock(ctx, p, effectiveBatchSize); err != nil {
				return err
			}
		}

		p.Status = next
		if err := s.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		s.recordChange(ctx, p.ID, "status_change", prev, next)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "product status changed",
		"id", p.ID,
		"from", prev,
		"to", next,
		"effective_batch_size", effectiveBatchSize,
	)
	return p, nil
}

// VariantQuote is a variant with its resolved cost/price.
type VariantQuote struct {
	Variant   Variant
	Effective pricing.Effective
}

// ResolveVariants returns every variant with its effective cost and price,
// falling back to the product's computed figures where overrides are absent.
func (s *Service) ResolveVariants(ctx context.Context, productID id.ID) ([]VariantQuote, error) {
	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	quotes := make([]VariantQuote, 0, len(p.Variants))
	for _, v := range p.Variants {
		quotes = append(quotes, VariantQuote{
			Variant:   v,
			Effective: pricing.EffectiveCostAndPrice(p.ProductCost, p.ResultingPrice, v.Override()),
		})
	}
	return quotes, nil
}

// stockLookup builds the engine's stock lookup from the material library.
func (s *Service) stockLookup(ctx context.Context, p *Product) (pricing.StockLookup, error) {
	ids := make([]id.ID, 0, len(p.Materials))
	for _, m := range p.Materials {
		if m.MaterialID != nil {
			ids = append(ids, *m.MaterialID)
		}
	}

	levels, err := s.materials.StockLevels(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load stock levels: %w", err)
	}

	return func(materialID id.ID) (decimal.Decimal, bool) {
		level, ok := levels[materialID]
		return level, ok
	}, nil
}

// decrementStock verifies and applies the on-sale stock decrement.
func (s *Service) decrementStock(ctx context.Context, p *Product, effectiveBatchSize int) error {
	lookup, err := s.stockLookup(ctx, p)
	if err != nil {
		return err
	}

	shortfalls := pricing.CheckStock(p.CostProfile().Materials, effectiveBatchSize, lookup)
	if len(shortfalls) > 0 {
		first := shortfalls[0]
		return apperror.NewInsufficientStock(
			first.MaterialName,
			first.RequiredQuantity.InexactFloat64(),
			first.CurrentStock.InexactFloat64(),
		).WithDetail("shortfall_count", len(shortfalls))
	}

	batch := decimal.NewFromInt(int64(effectiveBatchSize))
	for _, m := range p.Materials {
		if m.MaterialID == nil {
			continue
		}
		required := m.Quantity.Mul(batch)
		if !required.IsPositive() {
			continue
		}
		if _, err := s.materials.AdjustStock(ctx, *m.MaterialID, required.Neg()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) recordChange(ctx context.Context, productID id.ID, action string, before, after any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.RecordChange(ctx, "product", productID, action, before, after); err != nil {
		logger.Warn(ctx, "audit write failed", "product_id", productID, "action", action, "error", err)
	}
}
