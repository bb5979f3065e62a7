package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"larder/internal/core/apperror"
	"larder/internal/domain/reports"
)

// ReportsHandler serves aggregate read models.
type ReportsHandler struct {
	BaseHandler
	reports *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(reportsSvc *reports.Service) *ReportsHandler {
	return &ReportsHandler{reports: reportsSvc}
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	day, ok := h.ParseDateQuery(c, "date")
	if !ok {
		return
	}

	dash, err := h.reports.Dashboard(c.Request.Context(), day)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, dash)
}

// TopOutgoing handles GET /reports/top-outgoing.
func (h *ReportsHandler) TopOutgoing(c *gin.Context) {
	days, ok := h.parseIntQuery(c, "days")
	if !ok {
		return
	}
	limit, ok := h.parseIntQuery(c, "limit")
	if !ok {
		return
	}

	rows, err := h.reports.TopOutgoing(c.Request.Context(), days, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, gin.H{"items": rows})
}

// Summary handles GET /reports/summary.
func (h *ReportsHandler) Summary(c *gin.Context) {
	from, ok := h.ParseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "to")
	if !ok {
		return
	}

	rows, err := h.reports.Summary(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, gin.H{"days": rows})
}

func (h *ReportsHandler) parseIntQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		h.HandleError(c, apperror.NewValidation("invalid "+name).WithDetail(name, raw))
		return 0, false
	}
	return n, true
}
