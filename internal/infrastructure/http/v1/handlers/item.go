package handlers

import (
	"github.com/gin-gonic/gin"

	"larder/internal/domain/catalog/item"
	"larder/internal/infrastructure/http/v1/dto"
)

// ItemHandler serves the item catalog.
type ItemHandler struct {
	BaseHandler
	items *item.Service
}

// NewItemHandler creates an item handler.
func NewItemHandler(items *item.Service) *ItemHandler {
	return &ItemHandler{items: items}
}

// Create handles POST /items.
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.items.Create(c.Request.Context(), item.CreateInput{
		Name:     req.Name,
		Unit:     req.Unit,
		Category: req.Category,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.FromItem(created))
}

// Update handles PATCH /items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.items.Update(c.Request.Context(), itemID, item.UpdateInput{
		Name:     req.Name,
		Unit:     req.Unit,
		Category: req.Category,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, dto.FromItem(updated))
}

// Get handles GET /items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	it, err := h.items.Get(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, dto.FromItem(it))
}

// List handles GET /items.
func (h *ItemHandler) List(c *gin.Context) {
	var req dto.ItemFilterRequest
	if !h.BindQuery(c, &req) {
		return
	}

	items, total, err := h.items.List(c.Request.Context(), item.Filter{
		Search:          req.Search,
		Category:        req.Category,
		IncludeInactive: req.IncludeInactive,
		Limit:           req.Limit,
		Offset:          req.Offset,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromItems(items),
		TotalCount: total,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
}

// Categories handles GET /items/categories.
func (h *ItemHandler) Categories(c *gin.Context) {
	categories, err := h.items.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, gin.H{"categories": categories})
}

// Deactivate handles DELETE /items/:id.
func (h *ItemHandler) Deactivate(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.items.Deactivate(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reactivate handles POST /items/:id/reactivate.
func (h *ItemHandler) Reactivate(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.items.Reactivate(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.SuccessResponse{Success: true})
}
