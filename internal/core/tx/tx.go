// Package tx defines the transaction boundary abstraction so domain
// services stay decoupled from the postgres implementation.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction.
// Nested calls reuse the transaction already carried by the context.
type Manager interface {
	// RunInTransaction executes fn within a transaction: rollback on
	// error, commit on success.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
