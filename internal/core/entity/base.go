// Package entity provides base types shared by all persisted entities.
package entity

import (
	"context"
	"time"

	"pricecraft/internal/core/id"
)

// Validatable is implemented by entities that check their own invariants
// without database access.
type Validatable interface {
	// Validate returns nil if valid, an AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Base contains fields common to every persisted entity: a UUIDv7 primary
// key, a soft-delete flag, and a version counter for optimistic locking.
type Base struct {
	ID           id.ID `db:"id" json:"id"`
	DeletionMark bool  `db:"deletion_mark" json:"deletionMark"`
	Version      int   `db:"version" json:"version"`
}

// NewBase creates a Base with a generated ID.
func NewBase() Base {
	return Base{
		ID:      id.New(),
		Version: 1,
	}
}

// Touch increments the version (optimistic locking).
func (b *Base) Touch() {
	b.Version++
}

// MarkDeleted sets the soft-delete flag.
func (b *Base) MarkDeleted() {
	b.DeletionMark = true
}

// SetVersion updates the version number (used by repositories after sync).
func (b *Base) SetVersion(v int) {
	b.Version = v
}

// Audited extends Base with creation/modification timestamps.
type Audited struct {
	Base

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewAudited creates an Audited base with generated ID and timestamps.
func NewAudited() Audited {
	now := time.Now().UTC()
	return Audited{
		Base:      NewBase(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp and increments the version.
func (a *Audited) Touch() {
	a.UpdatedAt = time.Now().UTC()
	a.Base.Touch()
}
