package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/ledger"
)

const movementsTable = "movements"

var movementColumns = []string{
	"id", "item_id", "actor_id", "kind", "quantity",
	"occurred_on", "note", "reason", "auto_generated", "created_at",
}

// MovementRepo implements ledger.MovementRepository.
type MovementRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txm *TxManager) *MovementRepo {
	return &MovementRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert appends a single movement.
func (r *MovementRepo) Insert(ctx context.Context, m *entity.Movement) error {
	return r.InsertBatch(ctx, []entity.Movement{*m})
}

// InsertBatch appends movements in one round trip.
func (r *MovementRepo) InsertBatch(ctx context.Context, movements []entity.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	q := r.builder.Insert(movementsTable).Columns(movementColumns...)
	for _, m := range movements {
		q = q.Values(
			m.ID, m.ItemID, m.ActorID, m.Kind, m.Quantity,
			m.OccurredOn, m.Note, m.Reason, m.AutoGenerated, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}
	return nil
}

// ListForDay returns all movements of one item on one date.
func (r *MovementRepo) ListForDay(ctx context.Context, itemID id.ID, day types.Date) ([]entity.Movement, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"item_id": itemID, "occurred_on": day}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select day movements: %w", err)
	}
	return movements, nil
}

// DeleteDay removes all movements of one item on one date.
func (r *MovementRepo) DeleteDay(ctx context.Context, itemID id.ID, day types.Date) (int64, error) {
	q := r.builder.Delete(movementsTable).
		Where(squirrel.Eq{"item_id": itemID, "occurred_on": day})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete day movements: %w", err)
	}
	return tag.RowsAffected(), nil
}

// HasBeginning reports whether a beginning movement exists for item+date.
func (r *MovementRepo) HasBeginning(ctx context.Context, itemID id.ID, day types.Date) (bool, error) {
	sql := `
		SELECT EXISTS(
			SELECT 1 FROM movements
			WHERE item_id = $1 AND occurred_on = $2 AND kind = $3
		)
	`

	var exists bool
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, itemID, day, entity.KindBeginning).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check beginning: %w", err)
	}
	return exists, nil
}

// LastBeginningDateBefore finds the nearest date strictly before day
// that has a beginning movement for the item.
func (r *MovementRepo) LastBeginningDateBefore(ctx context.Context, itemID id.ID, day types.Date) (types.Date, bool, error) {
	sql := `
		SELECT occurred_on FROM movements
		WHERE item_id = $1 AND occurred_on < $2 AND kind = $3
		ORDER BY occurred_on DESC
		LIMIT 1
	`

	var found types.Date
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, itemID, day, entity.KindBeginning).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Date{}, false, nil
		}
		return types.Date{}, false, fmt.Errorf("find last beginning: %w", err)
	}
	return found, true, nil
}

// FirstMovementDate returns the earliest movement date for the item.
func (r *MovementRepo) FirstMovementDate(ctx context.Context, itemID id.ID) (types.Date, bool, error) {
	sql := `
		SELECT occurred_on FROM movements
		WHERE item_id = $1
		ORDER BY occurred_on
		LIMIT 1
	`

	var first types.Date
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, itemID).Scan(&first)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Date{}, false, nil
		}
		return types.Date{}, false, fmt.Errorf("find first movement: %w", err)
	}
	return first, true, nil
}

// List returns movements matching the filter plus the unpaged total.
func (r *MovementRepo) List(ctx context.Context, filter ledger.MovementFilter) ([]entity.Movement, int64, error) {
	conds := r.listConditions(filter)

	countQ := r.builder.Select("COUNT(*)").From(movementsTable + " m")
	if filter.Category != "" {
		countQ = countQ.Join("items i ON i.id = m.item_id")
	}
	for _, c := range conds {
		countQ = countQ.Where(c)
	}
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	q := r.builder.Select(
		"m.id", "m.item_id", "m.actor_id", "m.kind", "m.quantity",
		"m.occurred_on", "m.note", "m.reason", "m.auto_generated", "m.created_at",
	).From(movementsTable + " m").
		OrderBy("m.occurred_on DESC", "m.created_at DESC")
	if filter.Category != "" {
		q = q.Join("items i ON i.id = m.item_id")
	}
	for _, c := range conds {
		q = q.Where(c)
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select movements: %w", err)
	}
	return movements, total, nil
}

func (r *MovementRepo) listConditions(filter ledger.MovementFilter) []squirrel.Sqlizer {
	var conds []squirrel.Sqlizer
	if filter.ItemID != nil {
		conds = append(conds, squirrel.Eq{"m.item_id": *filter.ItemID})
	}
	if filter.Kind != nil {
		conds = append(conds, squirrel.Eq{"m.kind": *filter.Kind})
	}
	if filter.From != nil {
		conds = append(conds, squirrel.GtOrEq{"m.occurred_on": *filter.From})
	}
	if filter.To != nil {
		conds = append(conds, squirrel.LtOrEq{"m.occurred_on": *filter.To})
	}
	if filter.Category != "" {
		conds = append(conds, squirrel.Eq{"i.category": filter.Category})
	}
	return conds
}

// Ensure interface compliance.
var _ ledger.MovementRepository = (*MovementRepo)(nil)
