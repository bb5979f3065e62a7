package handlers

import (
	"github.com/gin-gonic/gin"

	"larder/internal/core/apperror"
	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/ledger"
	"larder/internal/infrastructure/http/v1/dto"
)

// MovementHandler serves the movement log.
type MovementHandler struct {
	BaseHandler
	ledger *ledger.Service
}

// NewMovementHandler creates a movement handler.
func NewMovementHandler(ledgerSvc *ledger.Service) *MovementHandler {
	return &MovementHandler{ledger: ledgerSvc}
}

// Record handles POST /movements.
func (h *MovementHandler) Record(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.HandleError(c, apperror.NewValidation("invalid itemId").WithDetail("itemId", req.ItemID))
		return
	}

	var day types.Date
	if req.Date != "" {
		day, err = types.ParseDate(req.Date)
		if err != nil {
			h.HandleError(c, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
				WithDetail("date", req.Date))
			return
		}
	}

	created, err := h.ledger.RecordMovement(c.Request.Context(), ledger.RecordInput{
		ItemID:     itemID,
		ActorID:    h.Actor(c),
		Kind:       entity.MovementKind(req.Kind),
		Quantity:   req.Quantity,
		OccurredOn: day,
		Note:       req.Note,
		Reason:     req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.FromMovement(created))
}

// List handles GET /movements.
func (h *MovementHandler) List(c *gin.Context) {
	var req dto.MovementFilterRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := ledger.MovementFilter{
		Category: req.Category,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}

	if req.ItemID != "" {
		itemID, err := id.Parse(req.ItemID)
		if err != nil {
			h.HandleError(c, apperror.NewValidation("invalid itemId").WithDetail("itemId", req.ItemID))
			return
		}
		filter.ItemID = &itemID
	}
	if req.Kind != "" {
		kind := entity.MovementKind(req.Kind)
		if !kind.Valid() {
			h.HandleError(c, apperror.NewValidation("unknown movement kind").WithDetail("kind", req.Kind))
			return
		}
		filter.Kind = &kind
	}
	if req.From != "" {
		from, err := types.ParseDate(req.From)
		if err != nil {
			h.HandleError(c, apperror.NewValidation("invalid from date, expected YYYY-MM-DD").
				WithDetail("from", req.From))
			return
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := types.ParseDate(req.To)
		if err != nil {
			h.HandleError(c, apperror.NewValidation("invalid to date, expected YYYY-MM-DD").
				WithDetail("to", req.To))
			return
		}
		filter.To = &to
	}

	movements, total, err := h.ledger.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromMovements(movements),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}
