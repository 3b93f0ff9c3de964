package auth

import (
	"context"

	"pricecraft/internal/core/id"
)

// Repository defines user persistence.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
