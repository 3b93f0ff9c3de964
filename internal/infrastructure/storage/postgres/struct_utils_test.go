package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecraft/internal/core/types"
	"pricecraft/internal/domain/catalogs/material"
	"pricecraft/internal/domain/products"
)

func TestExtractDBColumns_Material(t *testing.T) {
	cols := ExtractDBColumns[material.Material]()

	// Embedded Catalog columns come first.
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "deletion_mark")
	assert.Contains(t, cols, "version")
	assert.Contains(t, cols, "created_at")
	assert.Contains(t, cols, "name")

	assert.Contains(t, cols, "unit")
	assert.Contains(t, cols, "price_per_unit")
	assert.Contains(t, cols, "stock_level")
	assert.Contains(t, cols, "min_stock_level")
	assert.Contains(t, cols, "supplier")
}

func TestExtractDBColumns_ProductSkipsTableParts(t *testing.T) {
	cols := ExtractDBColumns[products.Product]()

	assert.Contains(t, cols, "status")
	assert.Contains(t, cols, "batch_size")
	assert.Contains(t, cols, "pricing_method")
	assert.Contains(t, cols, "resulting_price")

	// Line slices are tagged db:"-" and must not leak into the header row.
	assert.NotContains(t, cols, "-")
}

func TestStructToMap(t *testing.T) {
	m := material.NewMaterial("Clay", "kg", types.MustMoney("5"))
	supplier := "Local pottery supply"
	m.Supplier = &supplier

	data := StructToMap(m)
	require.NotEmpty(t, data)

	assert.Equal(t, m.ID, data["id"])
	assert.Equal(t, "Clay", data["name"])
	assert.Equal(t, "kg", data["unit"])
	assert.Equal(t, &supplier, data["supplier"])
	assert.Equal(t, 1, data["version"])
}

func TestStructToMap_ColumnsMatchExtract(t *testing.T) {
	m := material.NewMaterial("Glaze", "ml", types.MustMoney("0.2"))

	data := StructToMap(m)
	cols := ExtractDBColumns[material.Material]()

	require.Len(t, data, len(cols))
	for _, col := range cols {
		assert.Contains(t, data, col)
	}
}
