package material

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"pricecraft/internal/core/id"
	"pricecraft/pkg/logger"
)

// Service provides business operations for the material library.
type Service struct {
	repo Repository
}

// NewService creates a material service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new material.
func (s *Service) Create(ctx context.Context, m *Material) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return fmt.Errorf("create material: %w", err)
	}

	logger.Info(ctx, "material created", "id", m.ID, "name", m.Name)
	return nil
}

// Update validates and stores changes to an existing material.
func (s *Service) Update(ctx context.Context, m *Material) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return fmt.Errorf("update material: %w", err)
	}

	logger.Info(ctx, "material updated", "id", m.ID)
	return nil
}

// GetByID retrieves a material.
func (s *Service) GetByID(ctx context.Context, materialID id.ID) (*Material, error) {
	return s.repo.GetByID(ctx, materialID)
}

// List retrieves materials with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// Delete soft-deletes a material. Product lines that reference it keep
// their copied name/price; only stock tracking stops.
func (s *Service) Delete(ctx context.Context, materialID id.ID) error {
	if _, err := s.repo.GetByID(ctx, materialID); err != nil {
		return err
	}
	return s.repo.SetDeletionMark(ctx, materialID, true)
}

// AdjustStock applies a manual stock correction (restock or writedown).
func (s *Service) AdjustStock(ctx context.Context, materialID id.ID, delta decimal.Decimal) (decimal.Decimal, error) {
	newLevel, err := s.repo.AdjustStock(ctx, materialID, delta)
	if err != nil {
		return decimal.Zero, fmt.Errorf("adjust stock: %w", err)
	}

	logger.Info(ctx, "material stock adjusted",
		"id", materialID,
		"delta", delta,
		"new_level", newLevel,
	)
	return newLevel, nil
}

// StockLevels returns current stock levels for the given IDs. Used by the
// product service to build the stock lookup for feasibility checks.
func (s *Service) StockLevels(ctx context.Context, ids []id.ID) (map[id.ID]decimal.Decimal, error) {
	if len(ids) == 0 {
		return map[id.ID]decimal.Decimal{}, nil
	}
	return s.repo.GetStockLevels(ctx, ids)
}
