// Package id provides UUIDv7 identifiers for all entities.
// UUIDv7 embeds a timestamp, so primary keys sort in creation order.
package id

import (
	"github.com/google/uuid"
)

// ID is the identifier type used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// uuid.NewV7 only fails if the system clock/randomness is broken.
		return uuid.New()
	}
	return v7
}

// Parse converts a string to an ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts a string to an ID, panicking on error. Tests only.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero-value ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether the ID is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
