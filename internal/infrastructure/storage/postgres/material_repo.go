package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"pricecraft/internal/core/apperror"
	"pricecraft/internal/core/id"
	"pricecraft/internal/domain/catalogs/material"
)

const materialsTable = "materials"

// MaterialRepo is the PostgreSQL implementation of material.Repository.
type MaterialRepo struct {
	txManager  *TxManager
	selectCols []string
}

var _ material.Repository = (*MaterialRepo)(nil)

// NewMaterialRepo creates a material repository.
func NewMaterialRepo(txManager *TxManager) *MaterialRepo {
	return &MaterialRepo{
		txManager:  txManager,
		selectCols: ExtractDBColumns[material.Material](),
	}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *MaterialRepo) baseSelect() squirrel.SelectBuilder {
	return builder().Select(r.selectCols...).From(materialsTable)
}

// Create inserts a material using its "db" tags.
func (r *MaterialRepo) Create(ctx context.Context, m *material.Material) error {
	data := StructToMap(m)

	q := builder().Insert(materialsTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", materialsTable, err)
	}
	return nil
}

// Update modifies a material with optimistic locking.
func (r *MaterialRepo) Update(ctx context.Context, m *material.Material) error {
	data := StructToMap(m)
	version := m.Version

	delete(data, "id")
	delete(data, "version")

	q := builder().
		Update(materialsTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": m.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", materialsTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(materialsTable, m.ID)
	}

	m.SetVersion(version + 1)
	return nil
}

// GetByID retrieves a material by ID.
func (r *MaterialRepo) GetByID(ctx context.Context, materialID id.ID) (*material.Material, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": materialID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m material.Material
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("material", materialID.String())
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &m, nil
}

// List retrieves materials with filtering and pagination.
func (r *MaterialRepo) List(ctx context.Context, filter material.ListFilter) (material.ListResult, error) {
	result := material.ListResult{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"supplier": pattern},
		})
	}
	if filter.LowStockOnly {
		q = q.Where("min_stock_level > 0 AND stock_level <= min_stock_level")
	}

	countQ := builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("name ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list materials: %w", err)
	}
	return result, nil
}

// SetDeletionMark sets or clears the soft-delete flag.
func (r *MaterialRepo) SetDeletionMark(ctx context.Context, materialID id.ID, marked bool) error {
	q := builder().
		Update(materialsTable).
		Set("deletion_mark", marked).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": materialID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set deletion mark: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set deletion mark: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("material", materialID.String())
	}
	return nil
}

// GetStockLevels returns current stock for the given material IDs.
func (r *MaterialRepo) GetStockLevels(ctx context.Context, ids []id.ID) (map[id.ID]decimal.Decimal, error) {
	levels := make(map[id.ID]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return levels, nil
	}

	q := builder().
		Select("id", "stock_level").
		From(materialsTable).
		Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock levels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var materialID id.ID
		var level decimal.Decimal
		if err := rows.Scan(&materialID, &level); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels[materialID] = level
	}
	return levels, rows.Err()
}

// AdjustStock atomically adds delta to a material's stock level, flooring
// at zero, and returns the new level.
func (r *MaterialRepo) AdjustStock(ctx context.Context, materialID id.ID, delta decimal.Decimal) (decimal.Decimal, error) {
	sql := `
		UPDATE materials
		SET stock_level = GREATEST(stock_level + $2, 0),
		    updated_at = now(),
		    version = version + 1
		WHERE id = $1
		RETURNING stock_level
	`

	var level decimal.Decimal
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, materialID, delta).Scan(&level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperror.NewNotFound("material", materialID.String())
		}
		return decimal.Zero, fmt.Errorf("adjust stock: %w", err)
	}
	return level, nil
}
