package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pricecraft/internal/core/apperror"
	"pricecraft/internal/core/id"
	"pricecraft/internal/domain/auth"
)

const usersTable = "users"

// UserRepo is the PostgreSQL implementation of auth.Repository.
type UserRepo struct {
	txManager  *TxManager
	selectCols []string
}

var _ auth.Repository = (*UserRepo)(nil)

// NewUserRepo creates a user repository.
func NewUserRepo(txManager *TxManager) *UserRepo {
	return &UserRepo{
		txManager:  txManager,
		selectCols: ExtractDBColumns[auth.User](),
	}
}

// Create inserts a user.
func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	data := StructToMap(u)

	q := builder().Insert(usersTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", usersTable, err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	q := builder().
		Select(r.selectCols...).
		From(usersTable).
		Where(squirrel.Eq{"id": userID}).
		Limit(1)

	return r.getOne(ctx, q, userID.String())
}

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	q := builder().
		Select(r.selectCols...).
		From(usersTable).
		Where(squirrel.Eq{"email": email}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.getOne(ctx, q, email)
}

func (r *UserRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*auth.User, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u auth.User
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", key)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
