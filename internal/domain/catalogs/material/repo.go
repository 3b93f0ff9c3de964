package material

import (
	"context"

	"github.com/shopspring/decimal"

	"pricecraft/internal/core/id"
)

// ListFilter narrows material listing.
type ListFilter struct {
	Search         string
	IncludeDeleted bool
	LowStockOnly   bool
	Limit          int
	Offset         int
}

// ListResult wraps a page of materials with the total count.
type ListResult struct {
	Items      []*Material
	TotalCount int64
	Limit      int
	Offset     int
}

// Repository defines material persistence.
type Repository interface {
	Create(ctx context.Context, m *Material) error
	Update(ctx context.Context, m *Material) error
	GetByID(ctx context.Context, materialID id.ID) (*Material, error)
	List(ctx context.Context, filter ListFilter) (ListResult, error)
	SetDeletionMark(ctx context.Context, materialID id.ID, marked bool) error

	// GetStockLevels returns current stock for the given material IDs.
	// Missing IDs are simply absent from the map.
	GetStockLevels(ctx context.Context, ids []id.ID) (map[id.ID]decimal.Decimal, error)

	// AdjustStock atomically adds delta (possibly negative) to a material's
	// stock level, flooring at zero, and returns the new level.
	AdjustStock(ctx context.Context, materialID id.ID, delta decimal.Decimal) (decimal.Decimal, error)
}
