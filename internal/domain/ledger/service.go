package ledger

import (
	"context"
	"fmt"

	"larder/internal/core/apperror"
	"larder/internal/core/clock"
	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/tx"
	"larder/internal/core/types"
	"larder/internal/domain/balance"
	"larder/internal/domain/catalog/item"
	"larder/pkg/logger"
)

// Config holds tunable business limits.
type Config struct {
	// BackdateWindowDays is how many days back a single movement may
	// be recorded. Day rewrites are not bound by it.
	BackdateWindowDays int

	// MaxLookbackDays bounds the roll-forward walk.
	MaxLookbackDays int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		BackdateWindowDays: 7,
		MaxLookbackDays:    DefaultMaxLookbackDays,
	}
}

// Service is the single mutation gateway for the movement log.
// All writes go through it so validation, roll-forward, stock checks
// and the snapshot update happen in one transaction.
type Service struct {
	items     item.Repository
	movements MovementRepository
	txm       tx.Manager
	clk       clock.Clock
	roll      *RollForward
	cache     DayCache
	cfg       Config
}

// NewService creates the mutation gateway.
func NewService(
	items item.Repository,
	movements MovementRepository,
	txm tx.Manager,
	clk clock.Clock,
	cache DayCache,
	cfg Config,
) *Service {
	if cfg.BackdateWindowDays <= 0 {
		cfg.BackdateWindowDays = DefaultConfig().BackdateWindowDays
	}
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		items:     items,
		movements: movements,
		txm:       txm,
		clk:       clk,
		roll:      NewRollForward(movements, cfg.MaxLookbackDays),
		cache:     cache,
		cfg:       cfg,
	}
}

// RollForward exposes the engine for services that prepare day views.
func (s *Service) RollForward() *RollForward {
	return s.roll
}

// RecordInput holds fields for a single new movement.
type RecordInput struct {
	ItemID     id.ID
	ActorID    id.ID
	Kind       entity.MovementKind
	Quantity   int64
	OccurredOn types.Date
	Note       string
	Reason     string
}

// RecordMovement validates and persists one movement.
//
// Validation order: kind, date (future then backdate window), quantity,
// then inside the transaction: item existence, active flag, roll-forward,
// stock sufficiency for out/spoilage. The movement insert and the item
// snapshot update commit together.
func (s *Service) RecordMovement(ctx context.Context, in RecordInput) (*entity.Movement, error) {
	if !in.Kind.Valid() {
		return nil, apperror.NewValidation("unknown movement kind: " + string(in.Kind))
	}

	today := s.clk.Today()
	if in.OccurredOn.IsZero() {
		in.OccurredOn = today
	}
	if in.OccurredOn.After(today) {
		return nil, apperror.NewValidation("movement date cannot be in the future").
			WithDetail("date", in.OccurredOn.String())
	}
	if in.OccurredOn.Before(today.AddDays(-s.cfg.BackdateWindowDays)) {
		return nil, apperror.NewValidation(
			fmt.Sprintf("movement date is older than the %d-day correction window", s.cfg.BackdateWindowDays)).
			WithDetail("date", in.OccurredOn.String()).
			WithDetail("window_days", s.cfg.BackdateWindowDays)
	}

	if in.Kind == entity.KindBeginning {
		if in.Quantity < 0 {
			return nil, apperror.NewValidation("quantity cannot be negative")
		}
	} else if in.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("kind", string(in.Kind))
	}

	var created entity.Movement

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.items.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if !it.Active {
			return apperror.NewValidation("item is inactive").
				WithDetail("item_id", it.ID)
		}

		if err := s.roll.EnsureBeginning(ctx, it, in.OccurredOn); err != nil {
			return err
		}

		if in.Kind == entity.KindOut || in.Kind == entity.KindSpoilage {
			movs, err := s.movements.ListForDay(ctx, it.ID, in.OccurredOn)
			if err != nil {
				return fmt.Errorf("load day: %w", err)
			}
			bal := balance.Compute(movs)
			if bal.Remaining < in.Quantity {
				return apperror.NewInsufficientStock(it.ID.String(), in.Quantity, bal.Remaining)
			}
		}

		m := entity.NewMovement(it.ID, in.ActorID, in.Kind, in.Quantity, in.OccurredOn)
		m.Note = in.Note
		m.Reason = in.Reason
		if err := m.Validate(); err != nil {
			return err
		}
		if err := s.movements.Insert(ctx, &m); err != nil {
			return fmt.Errorf("insert movement: %w", err)
		}

		snap := applyMovement(it.Snapshot, m)
		snapDay := it.SnapshotDate
		if in.OccurredOn.After(snapDay) {
			snapDay = in.OccurredOn
		}
		if err := s.items.UpdateSnapshot(ctx, it.ID, snap, snapDay); err != nil {
			return fmt.Errorf("update snapshot: %w", err)
		}

		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, in.OccurredOn)

	logger.Info(ctx, "movement recorded",
		"movement_id", created.ID,
		"item_id", created.ItemID,
		"kind", created.Kind,
		"quantity", created.Quantity,
		"date", created.OccurredOn,
	)
	return &created, nil
}

// DayQuantities carries the fields of a day rewrite.
// Nil fields are omitted from the rewritten day.
type DayQuantities struct {
	Beginning *int64
	In        *int64
	Out       *int64
	Spoilage  *int64
}

func (q DayQuantities) empty() bool {
	return q.Beginning == nil && q.In == nil && q.Out == nil && q.Spoilage == nil
}

// ReplaceDayMovements rewrites one item's day wholesale: every
// existing movement for the date is deleted (the beginning included)
// and the supplied quantities are re-inserted. A provided beginning is
// written even when zero; in/out/spoilage are skipped when zero.
//
// This is the lead-only correction path. It has no backdate window,
// but future dates are still rejected. The snapshot is rewritten from
// the recomputed day balance in the same transaction.
func (s *Service) ReplaceDayMovements(ctx context.Context, itemID id.ID, day types.Date, q DayQuantities, actor id.ID) (balance.Balance, error) {
	var result balance.Balance

	if q.empty() {
		return result, apperror.NewValidation("at least one quantity is required")
	}
	today := s.clk.Today()
	if day.After(today) {
		return result, apperror.NewValidation("cannot rewrite a future date").
			WithDetail("date", day.String())
	}
	for _, f := range []struct {
		name string
		v    *int64
	}{
		{"beginning", q.Beginning}, {"in", q.In}, {"out", q.Out}, {"spoilage", q.Spoilage},
	} {
		if f.v != nil && *f.v < 0 {
			return result, apperror.NewValidation(f.name + " cannot be negative")
		}
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if !it.Active {
			return apperror.NewValidation("item is inactive").
				WithDetail("item_id", it.ID)
		}

		deleted, err := s.movements.DeleteDay(ctx, itemID, day)
		if err != nil {
			return fmt.Errorf("delete day: %w", err)
		}

		var batch []entity.Movement
		if q.Beginning != nil {
			batch = append(batch, entity.NewMovement(itemID, actor, entity.KindBeginning, *q.Beginning, day))
		}
		add := func(kind entity.MovementKind, v *int64) {
			if v != nil && *v > 0 {
				batch = append(batch, entity.NewMovement(itemID, actor, kind, *v, day))
			}
		}
		add(entity.KindIn, q.In)
		add(entity.KindOut, q.Out)
		add(entity.KindSpoilage, q.Spoilage)
		if err := s.movements.InsertBatch(ctx, batch); err != nil {
			return fmt.Errorf("insert day: %w", err)
		}

		result = balance.Compute(batch)
		if err := s.items.UpdateSnapshot(ctx, itemID, result.Snapshot(), day); err != nil {
			return fmt.Errorf("update snapshot: %w", err)
		}

		logger.Info(ctx, "day rewritten",
			"item_id", itemID,
			"date", day,
			"deleted", deleted,
			"inserted", len(batch),
		)
		return nil
	})
	if err != nil {
		return balance.Balance{}, err
	}

	s.invalidate(ctx, day)
	return result, nil
}

// DayBalance computes one item's balance for a date from the movement
// log. Read-only: no roll-forward, no snapshot writes.
func (s *Service) DayBalance(ctx context.Context, itemID id.ID, day types.Date) (balance.Balance, bool, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return balance.Balance{}, false, err
	}
	movs, err := s.movements.ListForDay(ctx, itemID, day)
	if err != nil {
		return balance.Balance{}, false, fmt.Errorf("load day: %w", err)
	}
	return balance.Compute(movs), len(movs) > 0, nil
}

// ListMovements returns movements matching the filter plus the total.
func (s *Service) ListMovements(ctx context.Context, filter MovementFilter) ([]entity.Movement, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, apperror.NewValidation("from date is after to date")
	}
	return s.movements.List(ctx, filter)
}

// Reconcile rebuilds the item snapshot from the movement log for the
// current date. Used when backdated corrections have drifted the
// denormalized numbers away from the log.
func (s *Service) Reconcile(ctx context.Context, itemID id.ID) (balance.Balance, error) {
	var result balance.Balance
	today := s.clk.Today()

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if err := s.roll.EnsureBeginning(ctx, it, today); err != nil {
			return err
		}
		movs, err := s.movements.ListForDay(ctx, itemID, today)
		if err != nil {
			return fmt.Errorf("load day: %w", err)
		}
		result = balance.Compute(movs)
		return s.items.UpdateSnapshot(ctx, itemID, result.Snapshot(), today)
	})
	if err != nil {
		return balance.Balance{}, err
	}

	s.invalidate(ctx, today)

	logger.Info(ctx, "snapshot reconciled", "item_id", itemID, "date", today)
	return result, nil
}

// Reset clears the current day for an item: all of today's movements
// are deleted, a zero beginning is written and the snapshot is zeroed.
func (s *Service) Reset(ctx context.Context, itemID id.ID, actor id.ID) error {
	today := s.clk.Today()

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		if _, err := s.movements.DeleteDay(ctx, it.ID, today); err != nil {
			return fmt.Errorf("delete day: %w", err)
		}

		m := entity.NewMovement(it.ID, actor, entity.KindBeginning, 0, today)
		m.Note = "Inventory reset"
		if err := s.movements.Insert(ctx, &m); err != nil {
			return fmt.Errorf("insert beginning: %w", err)
		}

		return s.items.UpdateSnapshot(ctx, it.ID, entity.Snapshot{}, today)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, today)

	logger.Warn(ctx, "inventory reset", "item_id", itemID, "actor_id", actor)
	return nil
}

func (s *Service) invalidate(ctx context.Context, day types.Date) {
	if err := s.cache.InvalidateDay(ctx, day); err != nil {
		logger.Warn(ctx, "day cache invalidation failed", "date", day, "error", err)
	}
}

// applyMovement folds one accepted movement into the snapshot.
// This is the incremental mirror of balance.Compute: cheap, but it can
// drift for backdated movements. Reconcile rebuilds from the log.
func applyMovement(snap entity.Snapshot, m entity.Movement) entity.Snapshot {
	switch m.Kind {
	case entity.KindBeginning:
		snap.Beginning = m.Quantity
		snap.TotalInventory = snap.Beginning + snap.In
		snap.Remaining = snap.TotalInventory - snap.Out - snap.Spoilage
		if snap.Remaining < 0 {
			snap.Remaining = 0
		}
	case entity.KindIn:
		snap.In += m.Quantity
		snap.TotalInventory += m.Quantity
		snap.Remaining += m.Quantity
	case entity.KindOut:
		snap.Out += m.Quantity
		snap.Remaining -= m.Quantity
	case entity.KindSpoilage:
		snap.Spoilage += m.Quantity
		snap.Remaining -= m.Quantity
	case entity.KindAdjustment:
		snap.Remaining = m.Quantity
	}
	return snap
}

// NoopCache is the DayCache used when Redis is disabled.
type NoopCache struct{}

// InvalidateDay implements DayCache.
func (NoopCache) InvalidateDay(context.Context, types.Date) error { return nil }
