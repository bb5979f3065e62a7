// Package balance computes per-item day balances from movement logs.
// Everything here is pure: no storage, no clock, no side effects.
package balance

import (
	"larder/internal/core/entity"
)

// Balance is the computed state of one item for one calendar date.
type Balance struct {
	Beginning      int64 `json:"beginning"`
	In             int64 `json:"in"`
	Out            int64 `json:"out"`
	Spoilage       int64 `json:"spoilage"`
	TotalInventory int64 `json:"totalInventory"`
	Remaining      int64 `json:"remaining"`

	// Adjusted is set when an adjustment movement overrode Remaining.
	Adjusted bool `json:"adjusted"`
}

// Snapshot converts the balance to the denormalized item snapshot form.
func (b Balance) Snapshot() entity.Snapshot {
	return entity.Snapshot{
		Beginning:      b.Beginning,
		In:             b.In,
		Out:            b.Out,
		Spoilage:       b.Spoilage,
		TotalInventory: b.TotalInventory,
		Remaining:      b.Remaining,
	}
}

// Compute reduces one item's movements for a single date into a Balance.
// Callers are responsible for passing movements of one item and one date.
//
// Reduction rules:
//   - beginning: the last-created one wins, earlier beginnings are ignored
//   - in/out/spoilage: summed
//   - adjustment: the last-created one overrides Remaining outright
//
// TotalInventory = Beginning + In.
// Remaining = TotalInventory - Out - Spoilage, floored at zero, unless
// an adjustment overrides it.
//
// "Last-created" compares CreatedAt and falls back to the UUIDv7 ID,
// so the result is deterministic even for same-instant duplicates.
func Compute(movements []entity.Movement) Balance {
	var b Balance

	var lastBeginning, lastAdjustment *entity.Movement
	for i := range movements {
		m := &movements[i]
		switch m.Kind {
		case entity.KindBeginning:
			if lastBeginning == nil || createdAfter(m, lastBeginning) {
				lastBeginning = m
			}
		case entity.KindIn:
			b.In += m.Quantity
		case entity.KindOut:
			b.Out += m.Quantity
		case entity.KindSpoilage:
			b.Spoilage += m.Quantity
		case entity.KindAdjustment:
			if lastAdjustment == nil || createdAfter(m, lastAdjustment) {
				lastAdjustment = m
			}
		}
	}

	if lastBeginning != nil {
		b.Beginning = lastBeginning.Quantity
	}

	b.TotalInventory = b.Beginning + b.In

	remaining := b.TotalInventory - b.Out - b.Spoilage
	if remaining < 0 {
		remaining = 0
	}
	b.Remaining = remaining

	if lastAdjustment != nil {
		b.Remaining = lastAdjustment.Quantity
		b.Adjusted = true
	}

	return b
}

// createdAfter reports whether a was created after b.
func createdAfter(a, b *entity.Movement) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}
