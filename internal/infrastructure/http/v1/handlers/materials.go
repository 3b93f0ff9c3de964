package handlers

import (
	"github.com/gin-gonic/gin"

	"pricecraft/internal/domain/catalogs/material"
	"pricecraft/internal/infrastructure/http/v1/dto"
)

// MaterialHandler serves the material library endpoints.
type MaterialHandler struct {
	*BaseHandler
	service *material.Service
}

// NewMaterialHandler creates a material handler.
func NewMaterialHandler(base *BaseHandler, service *material.Service) *MaterialHandler {
	return &MaterialHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires material endpoints onto the group.
func (h *MaterialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/stock", h.AdjustStock)
}

// List returns a page of materials.
func (h *MaterialHandler) List(c *gin.Context) {
	var query dto.MaterialListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	result, err := h.service.List(c.Request.Context(), material.ListFilter{
		Search:         query.Search,
		IncludeDeleted: query.IncludeDeleted,
		LowStockOnly:   query.LowStockOnly,
		Limit:          query.Limit,
		Offset:         query.Offset,
	})
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

// Create adds a material to the library.
func (h *MaterialHandler) Create(c *gin.Context) {
	var req dto.MaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m := material.NewMaterial(req.Name, req.Unit, req.PricePerUnit)
	req.Apply(m)

	if err := h.service.Create(c.Request.Context(), m); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, m.ID.String())
}

// Get returns one material.
func (h *MaterialHandler) Get(c *gin.Context) {
	materialID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	m, err := h.service.GetByID(c.Request.Context(), materialID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, m)
}

// Update modifies a material.
func (h *MaterialHandler) Update(c *gin.Context) {
	materialID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.MaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.service.GetByID(c.Request.Context(), materialID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(m)

	if err := h.service.Update(c.Request.Context(), m); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, m)
}

// Delete soft-deletes a material.
func (h *MaterialHandler) Delete(c *gin.Context) {
	materialID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), materialID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// AdjustStock applies a manual stock delta.
func (h *MaterialHandler) AdjustStock(c *gin.Context) {
	materialID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	level, err := h.service.AdjustStock(c.Request.Context(), materialID, req.Delta)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.StockLevelResponse{
		MaterialID: materialID.String(),
		StockLevel: level,
	})
}
