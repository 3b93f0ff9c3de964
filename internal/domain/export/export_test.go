package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecraft/internal/core/types"
	"pricecraft/internal/domain/pricing"
	"pricecraft/internal/domain/products"
)

func exportProduct(t *testing.T) *products.Product {
	t.Helper()

	p := products.NewProduct("Ceramic Mug")
	sku := "MUG-001"
	p.SKU = &sku
	p.BatchSize = 4
	p.Method = pricing.MethodMarkup
	p.Value = types.MustMoney("50")
	p.Materials = []products.MaterialLine{
		{Name: "Clay", Unit: "kg", Quantity: types.MustMoney("2"), PricePerUnit: types.MustMoney("5"), UnitsMade: 1},
	}
	p.Labor = []products.LaborLine{
		{Activity: "Kiln firing", TimeSpentMinutes: types.MustMoney("120"), HourlyRate: types.MustMoney("30")},
	}
	require.NoError(t, p.Recalculate())
	return p
}

func TestPriceListRow(t *testing.T) {
	p := exportProduct(t)

	row := PriceListRow(p)
	require.Len(t, row, len(priceListHeader))

	assert.Equal(t, "Ceramic Mug", row[0])
	assert.Equal(t, "MUG-001", row[1])
	assert.Equal(t, "draft", row[2])
	assert.Equal(t, 4, row[3])
	assert.InDelta(t, 25.0, row[4].(float64), 0.001)
	assert.Equal(t, "markup", row[5])
	assert.InDelta(t, 37.5, row[7].(float64), 0.001)
}

func TestPriceListRow_NoSKU(t *testing.T) {
	p := exportProduct(t)
	p.SKU = nil

	row := PriceListRow(p)
	assert.Equal(t, "", row[1])
}

func TestWritePriceList(t *testing.T) {
	var buf bytes.Buffer
	err := WritePriceList(&buf, []*products.Product{exportProduct(t)})
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())

	// XLSX files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}

func TestWriteCostSheet(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCostSheet(&buf, exportProduct(t))
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())

	assert.Equal(t, []byte("%PDF"), buf.Bytes()[:4])
}
