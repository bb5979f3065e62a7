package handlers

import (
	"github.com/gin-gonic/gin"

	"larder/internal/core/apperror"
	"larder/internal/core/clock"
	"larder/internal/core/types"
	"larder/internal/domain/ledger"
	"larder/internal/domain/reports"
	"larder/internal/infrastructure/http/v1/dto"
)

// InventoryHandler serves the daily sheet and its corrections.
type InventoryHandler struct {
	BaseHandler
	ledger  *ledger.Service
	reports *reports.Service
	clk     clock.Clock
}

// NewInventoryHandler creates an inventory handler.
func NewInventoryHandler(ledgerSvc *ledger.Service, reportsSvc *reports.Service, clk clock.Clock) *InventoryHandler {
	return &InventoryHandler{ledger: ledgerSvc, reports: reportsSvc, clk: clk}
}

// DayView handles GET /inventory/day.
// Opening the sheet rolls missing beginnings forward, so this is what
// materializes a new day.
func (h *InventoryHandler) DayView(c *gin.Context) {
	day, ok := h.ParseDateQuery(c, "date")
	if !ok {
		return
	}

	view, err := h.reports.DayView(c.Request.Context(), day, c.Query("category"), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, view)
}

// DayBalance handles GET /inventory/items/:id/balance.
func (h *InventoryHandler) DayBalance(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	day, ok := h.ParseDateQuery(c, "date")
	if !ok {
		return
	}
	if day.IsZero() {
		day = h.clk.Today()
	}

	bal, hasData, err := h.ledger.DayBalance(c.Request.Context(), itemID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, dto.DayBalanceResponse{
		ItemID:  itemID.String(),
		Date:    day.String(),
		Balance: bal,
		HasData: hasData,
	})
}

// ReplaceDay handles PUT /inventory/items/:id/days/:date.
// Lead-only correction path: rewrites the whole day.
func (h *InventoryHandler) ReplaceDay(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	day, err := types.ParseDate(c.Param("date"))
	if err != nil {
		h.HandleError(c, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("date", c.Param("date")))
		return
	}

	var req dto.ReplaceDayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	bal, err := h.ledger.ReplaceDayMovements(c.Request.Context(), itemID, day, ledger.DayQuantities{
		Beginning: req.Beginning,
		In:        req.In,
		Out:       req.Out,
		Spoilage:  req.Spoilage,
	}, h.Actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, dto.DayBalanceResponse{
		ItemID:  itemID.String(),
		Date:    day.String(),
		Balance: bal,
		HasData: true,
	})
}

// Reconcile handles POST /inventory/items/:id/reconcile.
func (h *InventoryHandler) Reconcile(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	bal, err := h.ledger.Reconcile(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	day := h.clk.Today()
	h.OK(c, dto.DayBalanceResponse{
		ItemID:  itemID.String(),
		Date:    day.String(),
		Balance: bal,
		HasData: true,
	})
}

// Reset handles POST /inventory/items/:id/reset.
func (h *InventoryHandler) Reset(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ledger.Reset(c.Request.Context(), itemID, h.Actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, dto.SuccessResponse{Success: true, Message: "day reset"})
}

// SystemDate handles GET /system/date. Clients align their date pickers
// with the service clock instead of the browser's.
func (h *InventoryHandler) SystemDate(c *gin.Context) {
	h.OK(c, dto.SystemDateResponse{Date: h.clk.Today().String()})
}
