// Package item provides the inventory item catalog.
package item

import (
	"context"

	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
)

// Filter narrows item listings.
type Filter struct {
	// Search matches against item name (case-insensitive substring)
	Search string

	// Category limits results to one category
	Category string

	// IncludeInactive includes deactivated items
	IncludeInactive bool

	Limit  int
	Offset int
}

// Repository defines the interface for item persistence.
type Repository interface {
	// Create inserts a new item.
	Create(ctx context.Context, it *entity.Item) error

	// Update saves catalog fields (name, unit, category, active).
	Update(ctx context.Context, it *entity.Item) error

	// GetByID retrieves an item or NotFound.
	GetByID(ctx context.Context, itemID id.ID) (*entity.Item, error)

	// GetForUpdate retrieves an item with a row lock.
	// Must be called inside a transaction.
	GetForUpdate(ctx context.Context, itemID id.ID) (*entity.Item, error)

	// List returns items matching the filter plus the unpaged total.
	List(ctx context.Context, filter Filter) ([]entity.Item, int64, error)

	// ListActive returns all active items, optionally for one category.
	ListActive(ctx context.Context, category string) ([]entity.Item, error)

	// FindByName retrieves an item by exact name and category, or NotFound.
	FindByName(ctx context.Context, name, category string) (*entity.Item, error)

	// UpdateSnapshot rewrites the denormalized day balance on the item row.
	UpdateSnapshot(ctx context.Context, itemID id.ID, snap entity.Snapshot, day types.Date) error

	// Categories returns the distinct categories of active items.
	Categories(ctx context.Context) ([]string, error)
}
