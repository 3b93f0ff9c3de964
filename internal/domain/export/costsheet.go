package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"pricecraft/internal/core/types"
	"pricecraft/internal/domain/pricing"
	"pricecraft/internal/domain/products"
)

// Page layout constants (A4 portrait in mm).
const (
	sheetPageWidth    = 210.0
	sheetMarginLeft   = 15.0
	sheetMarginRight  = 15.0
	sheetMarginTop    = 15.0
	sheetMarginBottom = 15.0
	sheetContentWidth = sheetPageWidth - sheetMarginLeft - sheetMarginRight
	sheetRowHeight    = 6.0
)

// WriteCostSheet renders a single product's cost breakdown as a PDF on w.
func WriteCostSheet(w io.Writer, p *products.Product) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, sheetMarginBottom)
	pdf.AddPage()

	breakdown := pricing.ComputeProductCost(p.CostProfile())

	y := renderCostSheetHeader(pdf, p)
	y = renderMaterialsTable(pdf, p, y)
	y = renderLaborTable(pdf, p, y)
	y = renderOtherCostsTable(pdf, p, y)
	renderCostSummary(pdf, p, breakdown, y)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(sheetMarginLeft, 297-sheetMarginBottom)
	footer := fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04"))
	pdf.CellFormat(sheetContentWidth, 4, footer, "", 0, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func renderCostSheetHeader(pdf *fpdf.Fpdf, p *products.Product) float64 {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(sheetMarginLeft, sheetMarginTop)
	pdf.CellFormat(sheetContentWidth, 10, "Product Cost Sheet", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(sheetMarginLeft, sheetMarginTop+12, sheetPageWidth-sheetMarginRight, sheetMarginTop+12)

	y := sheetMarginTop + 16

	items := []struct {
		label string
		value string
	}{
		{"Product", p.Name},
		{"Status", string(p.Status)},
		{"Batch size", fmt.Sprintf("%d units", p.BatchSize)},
	}
	if p.SKU != nil {
		items = append(items, struct{ label, value string }{"SKU", *p.SKU})
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(sheetMarginLeft, y)
		pdf.CellFormat(30, sheetRowHeight, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(100, sheetRowHeight, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += sheetRowHeight
	}

	return y + 4
}

func renderSectionTitle(pdf *fpdf.Fpdf, title string, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(sheetMarginLeft, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	return y + 8
}

func renderTableHeader(pdf *fpdf.Fpdf, headers []string, widths []float64, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := sheetMarginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], sheetRowHeight, h, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	return y + sheetRowHeight
}

func renderTableRow(pdf *fpdf.Fpdf, cells []string, widths []float64, y float64, shaded bool) float64 {
	pdf.SetFont("Helvetica", "", 9)
	if shaded {
		pdf.SetFillColor(245, 245, 245)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	x := sheetMarginLeft
	for i, cell := range cells {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], sheetRowHeight, cell, "1", 0, align, true, 0, "")
		x += widths[i]
	}
	return y + sheetRowHeight
}

func money(m types.Money) string {
	return types.RoundMoney(m).StringFixed(2)
}

func renderMaterialsTable(pdf *fpdf.Fpdf, p *products.Product, y float64) float64 {
	if len(p.Materials) == 0 {
		return y
	}
	y = renderSectionTitle(pdf, "Materials", y)

	widths := []float64{60, 25, 20, 30, 20, 25}
	y = renderTableHeader(pdf, []string{"Material", "Quantity", "Unit", "Price/unit", "Makes", "Cost"}, widths, y)

	profile := p.CostProfile()
	for i, line := range profile.Materials {
		cells := []string{
			line.Name,
			line.Quantity.String(),
			line.Unit,
			money(line.PricePerUnit),
			fmt.Sprintf("%d", line.UnitsMade),
			money(line.LineCost()),
		}
		y = renderTableRow(pdf, cells, widths, y, i%2 == 0)
	}
	return y + 4
}

func renderLaborTable(pdf *fpdf.Fpdf, p *products.Product, y float64) float64 {
	if len(p.Labor) == 0 {
		return y
	}
	y = renderSectionTitle(pdf, "Labor", y)

	widths := []float64{75, 30, 30, 20, 25}
	y = renderTableHeader(pdf, []string{"Activity", "Minutes", "Rate/hour", "Scope", "Cost"}, widths, y)

	profile := p.CostProfile()
	for i, line := range profile.Labor {
		scope := "batch"
		if line.PerUnit {
			scope = "unit"
		}
		cells := []string{
			line.Activity,
			line.TimeSpentMinutes.String(),
			money(line.HourlyRate),
			scope,
			money(line.LineCost()),
		}
		y = renderTableRow(pdf, cells, widths, y, i%2 == 0)
	}
	return y + 4
}

func renderOtherCostsTable(pdf *fpdf.Fpdf, p *products.Product, y float64) float64 {
	if len(p.OtherCosts) == 0 {
		return y
	}
	y = renderSectionTitle(pdf, "Other costs", y)

	widths := []float64{75, 30, 30, 20, 25}
	y = renderTableHeader(pdf, []string{"Item", "Quantity", "Cost", "Scope", "Total"}, widths, y)

	profile := p.CostProfile()
	for i, line := range profile.OtherCosts {
		scope := "batch"
		if line.PerUnit {
			scope = "unit"
		}
		cells := []string{
			line.Item,
			line.Quantity.String(),
			money(line.Cost),
			scope,
			money(line.LineCost()),
		}
		y = renderTableRow(pdf, cells, widths, y, i%2 == 0)
	}
	return y + 4
}

func renderCostSummary(pdf *fpdf.Fpdf, p *products.Product, breakdown pricing.CostBreakdown, y float64) {
	y = renderSectionTitle(pdf, "Per-unit figures", y)

	items := []struct {
		label string
		value string
	}{
		{"Materials", money(breakdown.Materials)},
		{"Labor", money(breakdown.Labor)},
		{"Other", money(breakdown.Other)},
		{"Product cost", money(breakdown.Total)},
		{"Price", money(p.ResultingPrice)},
		{"Profit", money(p.Profit)},
		{"Margin", types.RoundPercent(p.Margin).StringFixed(2) + "%"},
		{"Markup", types.RoundPercent(p.Markup).StringFixed(2) + "%"},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(sheetMarginLeft+5, y)
		pdf.CellFormat(50, sheetRowHeight, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, sheetRowHeight, item.value, "", 0, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += sheetRowHeight
	}
}
