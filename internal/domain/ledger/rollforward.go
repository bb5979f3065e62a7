package ledger

import (
	"context"
	"fmt"

	"larder/internal/core/apperror"
	appctx "larder/internal/core/context"
	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/balance"
	"larder/pkg/logger"
)

// DefaultMaxLookbackDays bounds how far back roll-forward will walk
// to find an anchor day. Three years covers any realistic gap; beyond
// that the item history is considered broken and needs manual repair.
const DefaultMaxLookbackDays = 1095

const carryForwardNote = "Carried forward from previous day"

// RollForward synthesizes beginning movements for days that lack one,
// carrying the previous day's remaining quantity forward.
type RollForward struct {
	movements       MovementRepository
	maxLookbackDays int
}

// NewRollForward creates a roll-forward engine.
// maxLookbackDays <= 0 selects DefaultMaxLookbackDays.
func NewRollForward(movements MovementRepository, maxLookbackDays int) *RollForward {
	if maxLookbackDays <= 0 {
		maxLookbackDays = DefaultMaxLookbackDays
	}
	return &RollForward{movements: movements, maxLookbackDays: maxLookbackDays}
}

// EnsureBeginning guarantees the item has a beginning movement on day.
// Idempotent: if one already exists this is a no-op.
//
// Otherwise it walks back to the nearest anchored day (or the item's
// first movement), then fills forward one day at a time, persisting an
// auto-generated beginning for each gap day. The walk is a plain loop
// with a hard lookback bound, so a years-old item cannot blow the
// stack or fill the table unbounded.
//
// Concurrent callers may both insert a beginning for the same day.
// That is tolerated: the calculator takes the last-created beginning,
// so duplicates stay deterministic.
func (r *RollForward) EnsureBeginning(ctx context.Context, it *entity.Item, day types.Date) error {
	has, err := r.movements.HasBeginning(ctx, it.ID, day)
	if err != nil {
		return fmt.Errorf("check beginning: %w", err)
	}
	if has {
		return nil
	}

	var (
		start types.Date
		carry int64
	)

	anchor, found, err := r.movements.LastBeginningDateBefore(ctx, it.ID, day)
	if err != nil {
		return fmt.Errorf("find anchor: %w", err)
	}

	switch {
	case found:
		if err := r.checkLookback(anchor, day, it.ID); err != nil {
			return err
		}
		movs, err := r.movements.ListForDay(ctx, it.ID, anchor)
		if err != nil {
			return fmt.Errorf("load anchor day: %w", err)
		}
		carry = balance.Compute(movs).Remaining
		start = anchor.AddDays(1)

	default:
		first, ok, err := r.movements.FirstMovementDate(ctx, it.ID)
		if err != nil {
			return fmt.Errorf("find first movement: %w", err)
		}
		if !ok || first.After(day) {
			// No usable history: seed today directly from the item
			// snapshot (zero for brand-new items).
			return r.insertBeginning(ctx, it.ID, day, it.Beginning)
		}
		if err := r.checkLookback(first, day, it.ID); err != nil {
			return err
		}
		start = first
		carry = 0
	}

	for d := start; !d.After(day); d = d.AddDays(1) {
		movs, err := r.movements.ListForDay(ctx, it.ID, d)
		if err != nil {
			return fmt.Errorf("load day %s: %w", d, err)
		}

		if !hasBeginning(movs) {
			m, err := r.newBeginning(ctx, it.ID, d, carry)
			if err != nil {
				return err
			}
			movs = append(movs, m)
		}

		carry = balance.Compute(movs).Remaining
	}

	logger.Debug(ctx, "rolled forward beginnings",
		"item_id", it.ID,
		"from", start,
		"to", day,
	)
	return nil
}

func (r *RollForward) checkLookback(from, to types.Date, itemID id.ID) error {
	if gap := from.DaysUntil(to); gap > r.maxLookbackDays {
		return apperror.NewValidation("movement history gap exceeds roll-forward limit").
			WithDetail("item_id", itemID).
			WithDetail("first_known_date", from.String()).
			WithDetail("max_lookback_days", r.maxLookbackDays)
	}
	return nil
}

func (r *RollForward) insertBeginning(ctx context.Context, itemID id.ID, day types.Date, qty int64) error {
	_, err := r.newBeginning(ctx, itemID, day, qty)
	return err
}

func (r *RollForward) newBeginning(ctx context.Context, itemID id.ID, day types.Date, qty int64) (entity.Movement, error) {
	m := entity.NewMovement(itemID, actorID(ctx), entity.KindBeginning, qty, day)
	m.AutoGenerated = true
	m.Note = carryForwardNote
	if err := r.movements.Insert(ctx, &m); err != nil {
		return m, fmt.Errorf("insert beginning for %s: %w", day, err)
	}
	return m, nil
}

func hasBeginning(movements []entity.Movement) bool {
	for i := range movements {
		if movements[i].Kind == entity.KindBeginning {
			return true
		}
	}
	return false
}

// actorID extracts the acting user from context, Nil when absent
// (system-generated movements).
func actorID(ctx context.Context) id.ID {
	parsed, err := id.Parse(appctx.GetActorID(ctx))
	if err != nil {
		return id.Nil()
	}
	return parsed
}
