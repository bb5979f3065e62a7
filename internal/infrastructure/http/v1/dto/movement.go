package dto

import (
	"time"

	"larder/internal/core/entity"
)

// RecordMovementRequest for recording one movement.
// Date is YYYY-MM-DD; empty means today.
type RecordMovementRequest struct {
	ItemID   string `json:"itemId" binding:"required,uuid"`
	Kind     string `json:"kind" binding:"required"`
	Quantity int64  `json:"quantity"`
	Date     string `json:"date"`
	Note     string `json:"note"`
	Reason   string `json:"reason"`
}

// MovementFilterRequest narrows movement listings.
type MovementFilterRequest struct {
	ItemID   string `form:"itemId"`
	Kind     string `form:"kind"`
	From     string `form:"from"`
	To       string `form:"to"`
	Category string `form:"category"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

// MovementResponse contains movement fields.
type MovementResponse struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"itemId"`
	ActorID       string    `json:"actorId"`
	Kind          string    `json:"kind"`
	Quantity      int64     `json:"quantity"`
	Date          string    `json:"date"`
	Note          string    `json:"note,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	AutoGenerated bool      `json:"autoGenerated"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FromMovement creates MovementResponse from entity.Movement.
func FromMovement(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID.String(),
		ItemID:        m.ItemID.String(),
		ActorID:       m.ActorID.String(),
		Kind:          string(m.Kind),
		Quantity:      m.Quantity,
		Date:          m.OccurredOn.String(),
		Note:          m.Note,
		Reason:        m.Reason,
		AutoGenerated: m.AutoGenerated,
		CreatedAt:     m.CreatedAt,
	}
}

// FromMovements maps a slice of movements.
func FromMovements(movements []entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, FromMovement(&movements[i]))
	}
	return out
}
