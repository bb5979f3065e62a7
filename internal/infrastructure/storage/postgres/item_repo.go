package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"larder/internal/core/apperror"
	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/catalog/item"
)

const itemsTable = "items"

var itemColumns = []string{
	"id", "name", "unit", "category", "active",
	"beginning", "stock_in", "stock_out", "spoilage", "total_inventory", "remaining",
	"snapshot_date", "created_at", "updated_at",
}

// ItemRepo implements item.Repository.
type ItemRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txm *TxManager) *ItemRepo {
	return &ItemRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new item.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	q := r.builder.Insert(itemsTable).
		Columns(itemColumns...).
		Values(
			it.ID, it.Name, it.Unit, it.Category, it.Active,
			it.Beginning, it.In, it.Out, it.Spoilage, it.TotalInventory, it.Remaining,
			it.SnapshotDate, it.CreatedAt, it.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update saves catalog fields.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	q := r.builder.Update(itemsTable).
		Set("name", it.Name).
		Set("unit", it.Unit).
		Set("category", it.Category).
		Set("active", it.Active).
		Set("updated_at", it.UpdatedAt).
		Where(squirrel.Eq{"id": it.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", it.ID)
	}
	return nil
}

// GetByID retrieves an item or NotFound.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*entity.Item, error) {
	q := r.builder.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it entity.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// GetForUpdate retrieves an item with a row lock.
func (r *ItemRepo) GetForUpdate(ctx context.Context, itemID id.ID) (*entity.Item, error) {
	sql := `
		SELECT id, name, unit, category, active,
		       beginning, stock_in, stock_out, spoilage, total_inventory, remaining,
		       snapshot_date, created_at, updated_at
		FROM items
		WHERE id = $1
		FOR UPDATE
	`

	var it entity.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &it, sql, itemID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID)
		}
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return &it, nil
}

// List returns items matching the filter plus the unpaged total.
func (r *ItemRepo) List(ctx context.Context, filter item.Filter) ([]entity.Item, int64, error) {
	conds := r.listConditions(filter)

	countQ := r.builder.Select("COUNT(*)").From(itemsTable)
	for _, c := range conds {
		countQ = countQ.Where(c)
	}
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	q := r.builder.Select(itemColumns...).
		From(itemsTable).
		OrderBy("category", "name")
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

	var items []entity.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select items: %w", err)
	}
	return items, total, nil
}

func (r *ItemRepo) listConditions(filter item.Filter) []squirrel.Sqlizer {
	var conds []squirrel.Sqlizer
	if !filter.IncludeInactive {
		conds = append(conds, squirrel.Eq{"active": true})
	}
	if filter.Category != "" {
		conds = append(conds, squirrel.Eq{"category": filter.Category})
	}
	if filter.Search != "" {
		conds = append(conds, squirrel.ILike{"name": "%" + filter.Search + "%"})
	}
	return conds
}

// ListActive returns all active items, optionally for one category.
func (r *ItemRepo) ListActive(ctx context.Context, category string) ([]entity.Item, error) {
	q := r.builder.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"active": true}).
		OrderBy("category", "name")
	if category != "" {
		q = q.Where(squirrel.Eq{"category": category})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []entity.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select active items: %w", err)
	}
	return items, nil
}

// FindByName retrieves an item by exact name and category, or NotFound.
func (r *ItemRepo) FindByName(ctx context.Context, name, category string) (*entity.Item, error) {
	// Case-insensitive: "tomatoes" and "Tomatoes" are the same item.
	q := r.builder.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Expr("LOWER(name) = LOWER(?)", name)).
		Where(squirrel.Eq{"category": category}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it entity.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", name)
		}
		return nil, fmt.Errorf("find item by name: %w", err)
	}
	return &it, nil
}

// UpdateSnapshot rewrites the denormalized day balance on the item row.
func (r *ItemRepo) UpdateSnapshot(ctx context.Context, itemID id.ID, snap entity.Snapshot, day types.Date) error {
	q := r.builder.Update(itemsTable).
		Set("beginning", snap.Beginning).
		Set("stock_in", snap.In).
		Set("stock_out", snap.Out).
		Set("spoilage", snap.Spoilage).
		Set("total_inventory", snap.TotalInventory).
		Set("remaining", snap.Remaining).
		Set("snapshot_date", day).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID)
	}
	return nil
}

// Categories returns the distinct categories of active items.
func (r *ItemRepo) Categories(ctx context.Context) ([]string, error) {
	sql := `SELECT DISTINCT category FROM items WHERE active ORDER BY category`

	var categories []string
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &categories, sql); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return categories, nil
}

// Ensure interface compliance.
var _ item.Repository = (*ItemRepo)(nil)
