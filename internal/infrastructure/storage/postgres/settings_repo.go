package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"larder/internal/core/apperror"
	"larder/internal/domain/settings"
)

const settingsTable = "settings"

// SettingsRepo implements settings.Repository.
type SettingsRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(txm *TxManager) *SettingsRepo {
	return &SettingsRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get retrieves one setting or NotFound.
func (r *SettingsRepo) Get(ctx context.Context, key string) (*settings.Setting, error) {
	q := r.builder.Select("key", "value", "updated_at").
		From(settingsTable).
		Where(squirrel.Eq{"key": key}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s settings.Setting
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("setting", key)
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return &s, nil
}

// Upsert inserts or overwrites a setting.
func (r *SettingsRepo) Upsert(ctx context.Context, s *settings.Setting) error {
	q := r.builder.Insert(settingsTable).
		Columns("key", "value", "updated_at").
		Values(s.Key, s.Value, s.UpdatedAt).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

// List returns all stored settings.
func (r *SettingsRepo) List(ctx context.Context) ([]settings.Setting, error) {
	q := r.builder.Select("key", "value", "updated_at").
		From(settingsTable).
		OrderBy("key")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []settings.Setting
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select settings: %w", err)
	}
	return list, nil
}

// Ensure interface compliance.
var _ settings.Repository = (*SettingsRepo)(nil)
