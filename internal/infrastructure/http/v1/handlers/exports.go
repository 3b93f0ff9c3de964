package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pricecraft/internal/domain/export"
	"pricecraft/internal/domain/products"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// ExportHandler serves document downloads: the XLSX price list and
// per-product PDF cost sheets.
type ExportHandler struct {
	*BaseHandler
	service *products.Service
}

// NewExportHandler creates an export handler.
func NewExportHandler(base *BaseHandler, service *products.Service) *ExportHandler {
	return &ExportHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires export endpoints onto the group.
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/price-list.xlsx", h.PriceList)
	rg.GET("/products/:id/cost-sheet.pdf", h.CostSheet)
}

// PriceList streams the whole product range as an XLSX workbook.
// Soft-deleted products are excluded; pass status to narrow further.
func (h *ExportHandler) PriceList(c *gin.Context) {
	filter := products.ListFilter{}
	if status := c.Query("status"); status != "" {
		s := products.Status(status)
		filter.Status = &s
	}

	items, err := h.service.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WritePriceList(&buf, items); err != nil {
		h.Error(c, err)
		return
	}

	filename := fmt.Sprintf("price-list-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// CostSheet streams one product's cost breakdown as a PDF.
func (h *ExportHandler) CostSheet(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCostSheet(&buf, p); err != nil {
		h.Error(c, err)
		return
	}

	filename := fmt.Sprintf("cost-sheet-%s.pdf", p.Name)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, pdfContentType, buf.Bytes())
}
