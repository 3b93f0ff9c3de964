package entity

import (
	"context"

	"pricecraft/internal/core/apperror"
)

// Catalog is the base type for reference data (materials, users).
type Catalog struct {
	Audited

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a Catalog with a generated ID.
func NewCatalog(name string) Catalog {
	return Catalog{
		Audited: NewAudited(),
		Name:    name,
	}
}

// Validate implements Validatable.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
