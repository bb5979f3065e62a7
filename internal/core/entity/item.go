package entity

import (
	"time"

	"larder/internal/core/id"
	"larder/internal/core/types"
)

// Snapshot is the denormalized day balance stored on the item row.
// It is a cache of the movement log for fast list screens; the log
// stays the source of truth and Reconcile can rebuild the snapshot.
type Snapshot struct {
	Beginning      int64 `db:"beginning" json:"beginning"`
	In             int64 `db:"stock_in" json:"in"`
	Out            int64 `db:"stock_out" json:"out"`
	Spoilage       int64 `db:"spoilage" json:"spoilage"`
	TotalInventory int64 `db:"total_inventory" json:"totalInventory"`
	Remaining      int64 `db:"remaining" json:"remaining"`
}

// Item is an inventory item (catalog entry plus current-day snapshot).
type Item struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Name is the display name, unique per category
	Name string `db:"name" json:"name"`

	// Unit is the counting unit (pcs, kg, bottle)
	Unit string `db:"unit" json:"unit"`

	// Category groups items on inventory screens
	Category string `db:"category" json:"category"`

	// Active marks items that appear on daily sheets.
	// Deactivation is soft - movement history is never deleted.
	Active bool `db:"active" json:"active"`

	// Snapshot is the denormalized balance for SnapshotDate
	Snapshot

	// SnapshotDate is the business date the snapshot belongs to
	SnapshotDate types.Date `db:"snapshot_date" json:"snapshotDate"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewItem creates an active item with generated ID and timestamps.
func NewItem(name, unit, category string) Item {
	now := time.Now().UTC()
	return Item{
		ID:        id.New(),
		Name:      name,
		Unit:      unit,
		Category:  category,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (i *Item) Touch() {
	i.UpdatedAt = time.Now().UTC()
}
