package handlers

import (
	"github.com/gin-gonic/gin"

	"larder/internal/domain/settings"
	"larder/internal/infrastructure/http/v1/dto"
)

// SettingsHandler serves the key-value settings store.
type SettingsHandler struct {
	BaseHandler
	settings *settings.Service
}

// NewSettingsHandler creates a settings handler.
func NewSettingsHandler(settingsSvc *settings.Service) *SettingsHandler {
	return &SettingsHandler{settings: settingsSvc}
}

// List handles GET /settings.
func (h *SettingsHandler) List(c *gin.Context) {
	stored, err := h.settings.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, gin.H{"settings": stored})
}

// Get handles GET /settings/:key.
func (h *SettingsHandler) Get(c *gin.Context) {
	setting, err := h.settings.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, setting)
}

// Set handles PUT /settings/:key. Lead only.
func (h *SettingsHandler) Set(c *gin.Context) {
	var req dto.UpdateSettingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	setting, err := h.settings.Set(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, setting)
}
