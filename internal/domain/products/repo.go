package products

import (
	"context"

	"pricecraft/internal/core/id"
)

// ListFilter narrows product listing.
type ListFilter struct {
	Search         string
	Status         *Status
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// ListResult wraps a page of products with the total count.
// List items carry computed figures but not table parts.
type ListResult struct {
	Items      []*Product
	TotalCount int64
	Limit      int
	Offset     int
}

// Repository defines product persistence. Create/Update/SaveLines are
// expected to run inside a caller-managed transaction.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	List(ctx context.Context, filter ListFilter) (ListResult, error)
	SetDeletionMark(ctx context.Context, productID id.ID, marked bool) error

	// SaveLines replaces all table parts (materials, labor, other costs,
	// variants with attributes) for the product.
	SaveLines(ctx context.Context, productID id.ID, p *Product) error

	// GetLines loads all table parts into the product.
	GetLines(ctx context.Context, p *Product) error
}
