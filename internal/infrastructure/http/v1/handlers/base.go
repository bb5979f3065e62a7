// Package handlers provides HTTP request handlers for API v1.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"larder/internal/core/apperror"
	appctx "larder/internal/core/context"
	"larder/internal/core/id"
	"larder/internal/core/types"
)

// BaseHandler provides common handler utilities.
// Errors are attached to the gin context; the error middleware turns
// them into JSON responses.
type BaseHandler struct{}

// HandleError attaches an error to the context and aborts.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// BindJSON binds the request body, reporting failures as InvalidInput.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.HandleError(c, apperror.NewInvalidInput("invalid request body", err))
		return false
	}
	return true
}

// BindQuery binds query parameters, reporting failures as InvalidInput.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.HandleError(c, apperror.NewInvalidInput("invalid query parameters", err))
		return false
	}
	return true
}

// ParseIDParam parses a UUID path parameter.
func (h *BaseHandler) ParseIDParam(c *gin.Context, name string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(name))
	if err != nil {
		h.HandleError(c, apperror.NewValidation("invalid "+name).WithDetail(name, c.Param(name)))
		return id.Nil(), false
	}
	return parsed, true
}

// ParseDateQuery parses an optional YYYY-MM-DD query parameter.
// A missing parameter returns the zero date.
func (h *BaseHandler) ParseDateQuery(c *gin.Context, name string) (types.Date, bool) {
	raw := c.Query(name)
	if raw == "" {
		return types.Date{}, true
	}
	day, err := types.ParseDate(raw)
	if err != nil {
		h.HandleError(c, apperror.NewValidation("invalid "+name+" date, expected YYYY-MM-DD").
			WithDetail(name, raw))
		return types.Date{}, false
	}
	return day, true
}

// Actor returns the authenticated actor's ID, or Nil when the request
// is unauthenticated.
func (h *BaseHandler) Actor(c *gin.Context) id.ID {
	actorID, err := id.Parse(appctx.GetActorID(c.Request.Context()))
	if err != nil {
		return id.Nil()
	}
	return actorID
}

// OK sends 200 with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends 201 with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends 204.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
