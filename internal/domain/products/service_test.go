package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecraft/internal/core/apperror"
	"pricecraft/internal/core/id"
	"pricecraft/internal/domain/catalogs/material"
)

// --- In-memory fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeProductRepo struct {
	products map[id.ID]*Product
	order    []id.ID
	updates  int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[id.ID]*Product{}}
}

func (r *fakeProductRepo) Create(_ context.Context, p *Product) error {
	r.products[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return apperror.NewNotFound("product", p.ID.String())
	}
	r.products[p.ID] = p
	r.updates++
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, productID id.ID) (*Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) List(_ context.Context, filter ListFilter) (ListResult, error) {
	result := ListResult{Limit: filter.Limit, Offset: filter.Offset}
	all := make([]*Product, 0, len(r.order))
	for _, pid := range r.order {
		all = append(all, r.products[pid])
	}
	result.TotalCount = int64(len(all))
	if filter.Offset < len(all) {
		end := len(all)
		if filter.Limit > 0 && filter.Offset+filter.Limit < end {
			end = filter.Offset + filter.Limit
		}
		result.Items = all[filter.Offset:end]
	}
	return result, nil
}

func (r *fakeProductRepo) SetDeletionMark(_ context.Context, productID id.ID, marked bool) error {
	p, ok := r.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.DeletionMark = marked
	return nil
}

func (r *fakeProductRepo) SaveLines(_ context.Context, _ id.ID, _ *Product) error { return nil }
func (r *fakeProductRepo) GetLines(_ context.Context, _ *Product) error           { return nil }

type fakeMaterialRepo struct {
	stock map[id.ID]decimal.Decimal
}

func (r *fakeMaterialRepo) Create(context.Context, *material.Material) error { return nil }
func (r *fakeMaterialRepo) Update(context.Context, *material.Material) error { return nil }
func (r *fakeMaterialRepo) GetByID(_ context.Context, materialID id.ID) (*material.Material, error) {
	return nil, apperror.NewNotFound("material", materialID.String())
}
func (r *fakeMaterialRepo) List(context.Context, material.ListFilter) (material.ListResult, error) {
	return material.ListResult{}, nil
}
func (r *fakeMaterialRepo) SetDeletionMark(context.Context, id.ID, bool) error { return nil }

func (r *fakeMaterialRepo) GetStockLevels(_ context.Context, ids []id.ID) (map[id.ID]decimal.Decimal, error) {
	out := map[id.ID]decimal.Decimal{}
	for _, matID := range ids {
		if level, ok := r.stock[matID]; ok {
			out[matID] = level
		}
	}
	return out, nil
}

func (r *fakeMaterialRepo) AdjustStock(_ context.Context, materialID id.ID, delta decimal.Decimal) (decimal.Decimal, error) {
	level := r.stock[materialID].Add(delta)
	if level.IsNegative() {
		level = decimal.Zero
	}
	r.stock[materialID] = level
	return level, nil
}

func newTestService(stock map[id.ID]decimal.Decimal) (*Service, *fakeProductRepo, *fakeMaterialRepo) {
	productRepo := newFakeProductRepo()
	materialRepo := &fakeMaterialRepo{stock: stock}
	svc := NewService(productRepo, material.NewService(materialRepo), fakeTxManager{}, nil)
	return svc, productRepo, materialRepo
}

// --- Tests ---

func TestServiceCreate_ComputesFigures(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	p := testProduct()

	require.NoError(t, svc.Create(context.Background(), p))

	saved := repo.products[p.ID]
	require.NotNil(t, saved)
	assert.True(t, saved.ProductCost.Equal(dec("25")))
	assert.True(t, saved.ResultingPrice.Equal(dec("37.5")))
}

func TestServiceCreate_RejectsInvalid(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	p := testProduct()
	p.BatchSize = 0

	err := svc.Create(context.Background(), p)
	require.Error(t, err)
	assert.Empty(t, repo.products, "nothing may be persisted on validation failure")
}

func TestServicePreview_DoesNotPersist(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	p := testProduct()

	quote, err := svc.Preview(context.Background(), p)
	require.NoError(t, err)

	assert.True(t, quote.ProductCost.Equal(dec("25")))
	assert.True(t, quote.MaterialsCost.Equal(dec("10")))
	assert.True(t, quote.LaborCost.Equal(dec("15")))
	assert.True(t, quote.Price.Equal(dec("37.5")))
	assert.Empty(t, repo.products)
}

func TestServiceListAll_SpansPages(t *testing.T) {
	svc, repo, _ := newTestService(nil)

	// More products than one repository page holds.
	const total = 430
	for i := 0; i < total; i++ {
		require.NoError(t, repo.Create(context.Background(), NewProduct(fmt.Sprintf("Product %03d", i))))
	}

	items, err := svc.ListAll(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, total)
	assert.Equal(t, "Product 000", items[0].Name)
	assert.Equal(t, fmt.Sprintf("Product %03d", total-1), items[total-1].Name)
}

func TestServiceSetStatus_DecrementsStockOnce(t *testing.T) {
	matID := id.New()
	svc, _, materialRepo := newTestService(map[id.ID]decimal.Decimal{
		matID: dec("100"),
	})

	p := testProduct()
	p.Materials[0].MaterialID = &matID
	require.NoError(t, svc.Create(context.Background(), p))

	// quantity 2 × batch 4 = 8 decremented.
	updated, err := svc.SetStatus(context.Background(), p.ID, StatusOnSale, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusOnSale, updated.Status)
	assert.True(t, materialRepo.stock[matID].Equal(dec("92")), "stock = %s", materialRepo.stock[matID])

	// Going back to draft and on sale again decrements again, but only on
	// the transition itself.
	_, err = svc.SetStatus(context.Background(), p.ID, StatusDraft, 0)
	require.NoError(t, err)
	assert.True(t, materialRepo.stock[matID].Equal(dec("92")))
}

func TestServiceSetStatus_ExplicitBatchSize(t *testing.T) {
	matID := id.New()
	svc, _, materialRepo := newTestService(map[id.ID]decimal.Decimal{
		matID: dec("100"),
	})

	p := testProduct()
	p.Materials[0].MaterialID = &matID
	require.NoError(t, svc.Create(context.Background(), p))

	// Explicit batch size 1 overrides the product's stored batch size of 4.
	_, err := svc.SetStatus(context.Background(), p.ID, StatusOnSale, 1)
	require.NoError(t, err)
	assert.True(t, materialRepo.stock[matID].Equal(dec("98")), "stock = %s", materialRepo.stock[matID])
}

func TestServiceSetStatus_InsufficientStock(t *testing.T) {
	matID := id.New()
	svc, repo, materialRepo := newTestService(map[id.ID]decimal.Decimal{
		matID: dec("3"),
	})

	p := testProduct()
	p.Materials[0].MaterialID = &matID
	require.NoError(t, svc.Create(context.Background(), p))

	_, err := svc.SetStatus(context.Background(), p.ID, StatusOnSale, 0)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)

	// No partial effects.
	assert.True(t, materialRepo.stock[matID].Equal(dec("3")))
	assert.Equal(t, StatusDraft, repo.products[p.ID].Status)
}

func TestServiceSetStatus_InvalidTransition(t *testing.T) {
	svc, _, _ := newTestService(nil)
	p := testProduct()
	require.NoError(t, svc.Create(context.Background(), p))

	_, err := svc.SetStatus(context.Background(), p.ID, StatusDraft, 0)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
}

func TestServiceUpdate_RejectsStatusChange(t *testing.T) {
	svc, _, _ := newTestService(nil)
	p := testProduct()
	require.NoError(t, svc.Create(context.Background(), p))

	edited := *p
	edited.Status = StatusOnSale
	err := svc.Update(context.Background(), &edited)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestServiceResolveVariants(t *testing.T) {
	svc, _, _ := newTestService(nil)
	p := testProduct()
	override := dec("7")
	p.Variants = []Variant{
		{VariantID: id.New(), Name: "Small", IsActive: true},
		{VariantID: id.New(), Name: "Large", CostOverride: &override, IsActive: true},
	}
	require.NoError(t, svc.Create(context.Background(), p))

	quotes, err := svc.ResolveVariants(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	// Small falls back to the product's figures.
	assert.True(t, quotes[0].Effective.Cost.Equal(dec("25")))
	assert.True(t, quotes[0].Effective.Price.Equal(dec("37.5")))

	// Large keeps the base price but overrides cost.
	assert.True(t, quotes[1].Effective.Cost.Equal(dec("7")))
	assert.True(t, quotes[1].Effective.Price.Equal(dec("37.5")))
}
