// Package export renders catalogue data into downloadable documents:
// an XLSX price list for the whole product range and a per-product
// PDF cost sheet.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"pricecraft/internal/core/types"
	"pricecraft/internal/domain/products"
)

var priceListHeader = []interface{}{
	"name",
	"sku",
	"status",
	"batch_size",
	"product_cost",
	"pricing_method",
	"pricing_value",
	"price",
	"profit",
	"margin_pct",
	"markup_pct",
}

// PriceListRow flattens one product into the columns of the price list.
func PriceListRow(p *products.Product) []interface{} {
	sku := ""
	if p.SKU != nil {
		sku = *p.SKU
	}
	return []interface{}{
		p.Name,
		sku,
		string(p.Status),
		p.BatchSize,
		types.RoundMoney(p.ProductCost).InexactFloat64(),
		string(p.Method),
		types.RoundMoney(p.Value).InexactFloat64(),
		types.RoundMoney(p.ResultingPrice).InexactFloat64(),
		types.RoundMoney(p.Profit).InexactFloat64(),
		types.RoundPercent(p.Margin).InexactFloat64(),
		types.RoundPercent(p.Markup).InexactFloat64(),
	}
}

// WritePriceList renders the products as an XLSX workbook on w.
func WritePriceList(w io.Writer, items []*products.Product) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	if err := f.SetSheetRow(sheet, "A1", &priceListHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, p := range items {
		cells := PriceListRow(p)
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "K", 14); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
