package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pricecraft/internal/core/apperror"
	"pricecraft/internal/core/id"
	"pricecraft/internal/domain/products"
)

const (
	productsTable      = "products"
	materialLinesTable = "product_materials"
	laborLinesTable    = "product_labor"
	otherLinesTable    = "product_other_costs"
	variantsTable      = "product_variants"
	variantAttrsTable  = "variant_attributes"
)

// ProductRepo is the PostgreSQL implementation of products.Repository.
// The product row holds the header and computed figures; table parts
// live in separate line tables keyed by product_id.
type ProductRepo struct {
	txManager  *TxManager
	selectCols []string
}

var _ products.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a product repository.
func NewProductRepo(txManager *TxManager) *ProductRepo {
	return &ProductRepo{
		txManager:  txManager,
		selectCols: ExtractDBColumns[products.Product](),
	}
}

func (r *ProductRepo) baseSelect() squirrel.SelectBuilder {
	return builder().Select(r.selectCols...).From(productsTable)
}

// Create inserts the product header row.
func (r *ProductRepo) Create(ctx context.Context, p *products.Product) error {
	data := StructToMap(p)

	q := builder().Insert(productsTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", productsTable, err)
	}
	return nil
}

// Update modifies the product header row with optimistic locking.
func (r *ProductRepo) Update(ctx context.Context, p *products.Product) error {
	data := StructToMap(p)
	version := p.Version

	delete(data, "id")
	delete(data, "version")

	q := builder().
		Update(productsTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": p.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", productsTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(productsTable, p.ID)
	}

	p.SetVersion(version + 1)
	return nil
}

// GetByID retrieves the product header. Table parts are loaded separately
// via GetLines.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*products.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p products.Product
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// List retrieves product headers with filtering and pagination.
func (r *ProductRepo) List(ctx context.Context, filter products.ListFilter) (products.ListResult, error) {
	result := products.ListResult{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
		})
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
		return result, fmt.Errorf("list products: %w", err)
	}
	return result, nil
}

// SetDeletionMark sets or clears the soft-delete flag.
func (r *ProductRepo) SetDeletionMark(ctx context.Context, productID id.ID, marked bool) error {
	q := builder().
		Update(productsTable).
		Set("deletion_mark", marked).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set deletion mark: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set deletion mark: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

// SaveLines replaces all table parts for the product. Callers run this
// inside a transaction together with the header write.
func (r *ProductRepo) SaveLines(ctx context.Context, productID id.ID, p *products.Product) error {
	querier := r.txManager.GetQuerier(ctx)

	for _, table := range []string{materialLinesTable, laborLinesTable, otherLinesTable, variantsTable} {
		sql, args, err := builder().Delete(table).Where(squirrel.Eq{"product_id": productID}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete %s: %w", table, err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if len(p.Materials) > 0 {
		q := builder().Insert(materialLinesTable).
			Columns("line_id", "product_id", "line_no", "name", "unit", "quantity", "price_per_unit", "units_made", "material_id")
		for i, line := range p.Materials {
			lineID := line.LineID
			if id.IsNil(lineID) {
				lineID = id.New()
			}
			q = q.Values(lineID, productID, i+1, line.Name, line.Unit, line.Quantity, line.PricePerUnit, line.UnitsMade, line.MaterialID)
		}
		if err := execInsert(ctx, querier, q, materialLinesTable); err != nil {
			return err
		}
	}

	if len(p.Labor) > 0 {
		q := builder().Insert(laborLinesTable).
			Columns("line_id", "product_id", "line_no", "activity", "time_spent_minutes", "hourly_rate", "per_unit")
		for i, line := range p.Labor {
			lineID := line.LineID
			if id.IsNil(lineID) {
				lineID = id.New()
			}
			q = q.Values(lineID, productID, i+1, line.Activity, line.TimeSpentMinutes, line.HourlyRate, line.PerUnit)
		}
		if err := execInsert(ctx, querier, q, laborLinesTable); err != nil {
			return err
		}
	}

	if len(p.OtherCosts) > 0 {
		q := builder().Insert(otherLinesTable).
			Columns("line_id", "product_id", "line_no", "item", "quantity", "cost", "per_unit")
		for i, line := range p.OtherCosts {
			lineID := line.LineID
			if id.IsNil(lineID) {
				lineID = id.New()
			}
			q = q.Values(lineID, productID, i+1, line.Item, line.Quantity, line.Cost, line.PerUnit)
		}
		if err := execInsert(ctx, querier, q, otherLinesTable); err != nil {
			return err
		}
	}

	for _, v := range p.Variants {
		variantID := v.VariantID
		if id.IsNil(variantID) {
			variantID = id.New()
		}

		q := builder().Insert(variantsTable).
			Columns("variant_id", "product_id", "name", "sku", "price_override", "cost_override", "stock_level", "is_active").
			Values(variantID, productID, v.Name, v.SKU, v.PriceOverride, v.CostOverride, v.StockLevel, v.IsActive)
		if err := execInsert(ctx, querier, q, variantsTable); err != nil {
			return err
		}

		if len(v.Attributes) == 0 {
			continue
		}
		aq := builder().Insert(variantAttrsTable).
			Columns("variant_id", "attribute_name", "attribute_value", "display_order")
		for _, a := range v.Attributes {
			aq = aq.Values(variantID, a.AttributeName, a.AttributeValue, a.DisplayOrder)
		}
		if err := execInsert(ctx, querier, aq, variantAttrsTable); err != nil {
			return err
		}
	}

	return nil
}

// GetLines loads all table parts into the product.
func (r *ProductRepo) GetLines(ctx context.Context, p *products.Product) error {
	querier := r.txManager.GetQuerier(ctx)

	if err := selectLines(ctx, querier, &p.Materials, materialLinesTable,
		[]string{"line_id", "line_no", "name", "unit", "quantity", "price_per_unit", "units_made", "material_id"},
		p.ID, "line_no ASC"); err != nil {
		return err
	}

	if err := selectLines(ctx, querier, &p.Labor, laborLinesTable,
		[]string{"line_id", "line_no", "activity", "time_spent_minutes", "hourly_rate", "per_unit"},
		p.ID, "line_no ASC"); err != nil {
		return err
	}

	if err := selectLines(ctx, querier, &p.OtherCosts, otherLinesTable,
		[]string{"line_id", "line_no", "item", "quantity", "cost", "per_unit"},
		p.ID, "line_no ASC"); err != nil {
		return err
	}

	if err := selectLines(ctx, querier, &p.Variants, variantsTable,
		[]string{"variant_id", "name", "sku", "price_override", "cost_override", "stock_level", "is_active"},
		p.ID, "name ASC"); err != nil {
		return err
	}

	for i := range p.Variants {
		q := builder().
			Select("attribute_name", "attribute_value", "display_order").
			From(variantAttrsTable).
			Where(squirrel.Eq{"variant_id": p.Variants[i].VariantID}).
			OrderBy("display_order ASC")

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		if err := pgxscan.Select(ctx, querier, &p.Variants[i].Attributes, sql, args...); err != nil {
			return fmt.Errorf("load %s: %w", variantAttrsTable, err)
		}
	}

	return nil
}

func execInsert(ctx context.Context, querier Querier, q squirrel.InsertBuilder, table string) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", table, err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func selectLines[T any](ctx context.Context, querier Querier, dst *[]T, table string, cols []string, productID id.ID, orderBy string) error {
	q := builder().
		Select(cols...).
		From(table).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy(orderBy)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, dst, sql, args...); err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	return nil
}
