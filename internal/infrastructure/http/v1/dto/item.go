package dto

import (
	"time"

	"larder/internal/core/entity"
)

// CreateItemRequest for adding a catalog item.
type CreateItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Unit     string `json:"unit" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// UpdateItemRequest for editing catalog fields. Nil fields are unchanged.
type UpdateItemRequest struct {
	Name     *string `json:"name"`
	Unit     *string `json:"unit"`
	Category *string `json:"category"`
}

// ItemFilterRequest narrows item listings.
type ItemFilterRequest struct {
	Search          string `form:"search"`
	Category        string `form:"category"`
	IncludeInactive bool   `form:"includeInactive"`
	Limit           int    `form:"limit"`
	Offset          int    `form:"offset"`
}

// ItemResponse contains item fields with the day snapshot.
type ItemResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Unit           string    `json:"unit"`
	Category       string    `json:"category"`
	Active         bool      `json:"active"`
	Beginning      int64     `json:"beginning"`
	In             int64     `json:"in"`
	Out            int64     `json:"out"`
	Spoilage       int64     `json:"spoilage"`
	TotalInventory int64     `json:"totalInventory"`
	Remaining      int64     `json:"remaining"`
	SnapshotDate   string    `json:"snapshotDate"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromItem creates ItemResponse from entity.Item.
func FromItem(it *entity.Item) ItemResponse {
	return ItemResponse{
		ID:             it.ID.String(),
		Name:           it.Name,
		Unit:           it.Unit,
		Category:       it.Category,
		Active:         it.Active,
		Beginning:      it.Beginning,
		In:             it.In,
		Out:            it.Out,
		Spoilage:       it.Spoilage,
		TotalInventory: it.TotalInventory,
		Remaining:      it.Remaining,
		SnapshotDate:   it.SnapshotDate.String(),
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}

// FromItems maps a slice of items.
func FromItems(items []entity.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, FromItem(&items[i]))
	}
	return out
}
