// Package ledger owns the movement log: recording, day rewrites and
// the roll-forward that keeps every day anchored by a beginning.
package ledger

import (
	"context"

	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
)

// MovementFilter narrows movement listings.
type MovementFilter struct {
	ItemID   *id.ID
	Kind     *entity.MovementKind
	From     *types.Date
	To       *types.Date
	Category string

	Limit  int
	Offset int
}

// MovementRepository defines the interface for movement persistence.
// Movements are append-and-delete only; there is no update.
type MovementRepository interface {
	// Insert appends a single movement.
	Insert(ctx context.Context, m *entity.Movement) error

	// InsertBatch appends movements in one round trip.
	InsertBatch(ctx context.Context, movements []entity.Movement) error

	// ListForDay returns all movements of one item on one date,
	// ordered by created_at then id.
	ListForDay(ctx context.Context, itemID id.ID, day types.Date) ([]entity.Movement, error)

	// DeleteDay removes all movements of one item on one date,
	// beginnings included. Returns the number of deleted rows.
	DeleteDay(ctx context.Context, itemID id.ID, day types.Date) (int64, error)

	// HasBeginning reports whether a beginning movement exists for item+date.
	HasBeginning(ctx context.Context, itemID id.ID, day types.Date) (bool, error)

	// LastBeginningDateBefore finds the nearest date strictly before day
	// that has a beginning movement for the item.
	LastBeginningDateBefore(ctx context.Context, itemID id.ID, day types.Date) (types.Date, bool, error)

	// FirstMovementDate returns the earliest movement date for the item.
	FirstMovementDate(ctx context.Context, itemID id.ID) (types.Date, bool, error)

	// List returns movements matching the filter plus the unpaged total.
	List(ctx context.Context, filter MovementFilter) ([]entity.Movement, int64, error)
}

// DayCache invalidates cached day views after accepted mutations.
// The noop implementation is used when caching is disabled.
type DayCache interface {
	InvalidateDay(ctx context.Context, day types.Date) error
}
