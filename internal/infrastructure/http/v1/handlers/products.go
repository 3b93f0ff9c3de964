package handlers

import (
	"github.com/gin-gonic/gin"

	"pricecraft/internal/domain/products"
	"pricecraft/internal/infrastructure/http/v1/dto"
	"pricecraft/internal/infrastructure/storage/postgres"
)

// ProductHandler serves the product endpoints.
type ProductHandler struct {
	*BaseHandler
	service *products.Service
	audit   *postgres.AuditService // optional
}

// NewProductHandler creates a product handler.
func NewProductHandler(base *BaseHandler, service *products.Service, audit *postgres.AuditService) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service, audit: audit}
}

// RegisterRoutes wires product endpoints onto the group.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/preview", h.Preview)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/status", h.SetStatus)
	rg.GET("/:id/stock-check", h.CheckStock)
	rg.GET("/:id/variants", h.Variants)
	if h.audit != nil {
		rg.GET("/:id/history", h.History)
	}
}

// List returns a page of product headers with computed figures.
func (h *ProductHandler) List(c *gin.Context) {
	var query dto.ProductListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := products.ListFilter{
		Search:         query.Search,
		IncludeDeleted: query.IncludeDeleted,
		Limit:          query.Limit,
		Offset:         query.Offset,
	}
	if query.Status != "" {
		status := products.Status(query.Status)
		filter.Status = &status
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Create adds a product; cost and price are computed on save.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := products.NewProduct(req.Name)
	req.Apply(p)

	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, p.ID.String())
}

// Preview computes cost and price figures without persisting anything.
func (h *ProductHandler) Preview(c *gin.Context) {
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := products.NewProduct(req.Name)
	req.Apply(p)

	quote, err := h.service.Preview(c.Request.Context(), p)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, quote)
}

// Get returns one product with all table parts.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Update modifies a product and recomputes its figures. Status changes
// are rejected here; the status endpoint owns transitions.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(p)

	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Delete soft-deletes a product.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// SetStatus transitions the product's sales status. Entering on_sale
// decrements linked material stock for one production run.
func (h *ProductHandler) SetStatus(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.StatusChangeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	next := products.Status(req.Status)
	p, err := h.service.SetStatus(c.Request.Context(), productID, next, req.BatchSize)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// CheckStock reports materials whose stock cannot cover a production run.
func (h *ProductHandler) CheckStock(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var query dto.StockCheckQuery
	if !h.BindQuery(c, &query) {
		return
	}

	results, err := h.service.CheckStock(c.Request.Context(), productID, query.BatchSize)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"feasible":  len(results) == 0,
		"shortages": results,
	})
}

// Variants returns the product's variants with effective cost and price.
func (h *ProductHandler) Variants(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	quotes, err := h.service.ResolveVariants(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, quotes)
}

// History returns the change log for a product, newest first.
func (h *ProductHandler) History(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.audit.GetEntityHistory(c.Request.Context(), "product", productID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entries)
}
