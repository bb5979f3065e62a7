// Package entity provides core domain entities.
package entity

import (
	"time"

	"larder/internal/core/apperror"
	"larder/internal/core/id"
	"larder/internal/core/types"
)

// MovementKind defines the effect a movement has on a day's balance.
type MovementKind string

const (
	// KindBeginning sets the opening quantity for the day (never summed)
	KindBeginning MovementKind = "beginning"
	// KindIn adds received stock
	KindIn MovementKind = "in"
	// KindOut subtracts consumed or sold stock
	KindOut MovementKind = "out"
	// KindSpoilage subtracts written-off stock
	KindSpoilage MovementKind = "spoilage"
	// KindAdjustment overrides the remaining quantity for the day
	KindAdjustment MovementKind = "adjustment"
)

// Valid reports whether k is a recognized movement kind.
func (k MovementKind) Valid() bool {
	switch k {
	case KindBeginning, KindIn, KindOut, KindSpoilage, KindAdjustment:
		return true
	}
	return false
}

// Movement is a dated inventory event for a single item.
// Movements are immutable - corrections happen by recording new
// movements or by replacing a whole day, never by updating rows.
type Movement struct {
	// ID is the primary key (UUIDv7). Creation-ordered, so it doubles
	// as the tie-break when two movements share created_at.
	ID id.ID `db:"id" json:"id"`

	// ItemID is the inventory item this movement belongs to
	ItemID id.ID `db:"item_id" json:"itemId"`

	// ActorID is the user who recorded the movement
	ActorID id.ID `db:"actor_id" json:"actorId"`

	// Kind determines how the quantity affects the day balance
	Kind MovementKind `db:"kind" json:"kind"`

	// Quantity is a count of whole units, never negative
	Quantity int64 `db:"quantity" json:"quantity"`

	// OccurredOn is the business date of the movement
	OccurredOn types.Date `db:"occurred_on" json:"occurredOn"`

	// Note is free-form operator text
	Note string `db:"note" json:"note,omitempty"`

	// Reason explains spoilage and adjustments
	Reason string `db:"reason" json:"reason,omitempty"`

	// AutoGenerated marks beginnings synthesized by roll-forward
	AutoGenerated bool `db:"auto_generated" json:"autoGenerated"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement with generated ID and timestamp.
func NewMovement(itemID, actorID id.ID, kind MovementKind, quantity int64, occurredOn types.Date) Movement {
	return Movement{
		ID:         id.New(),
		ItemID:     itemID,
		ActorID:    actorID,
		Kind:       kind,
		Quantity:   quantity,
		OccurredOn: occurredOn,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks movement invariants (no database access).
func (m *Movement) Validate() error {
	if id.IsNil(m.ItemID) {
		return apperror.NewValidation("item_id is required")
	}
	if !m.Kind.Valid() {
		return apperror.NewValidation("unknown movement kind: " + string(m.Kind))
	}
	if m.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative")
	}
	if m.OccurredOn.IsZero() {
		return apperror.NewValidation("occurred_on is required")
	}
	return nil
}
