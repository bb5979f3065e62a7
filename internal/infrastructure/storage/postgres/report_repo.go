package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"larder/internal/core/types"
	"larder/internal/domain/reports"
)

// ReportRepo implements reports.Repository with SQL aggregates.
// Auto-generated beginnings are excluded from movement counts so the
// numbers reflect operator activity, not roll-forward bookkeeping.
type ReportRepo struct {
	txm *TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

// DayTotals sums movements by kind for one date.
func (r *ReportRepo) DayTotals(ctx context.Context, day types.Date) (reports.DayTotals, error) {
	sql := `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE kind = 'in'), 0)        AS stock_in,
			COALESCE(SUM(quantity) FILTER (WHERE kind = 'out'), 0)       AS stock_out,
			COALESCE(SUM(quantity) FILTER (WHERE kind = 'spoilage'), 0)  AS spoilage,
			COUNT(*) FILTER (WHERE NOT auto_generated)                   AS movement_count,
			COUNT(DISTINCT item_id) FILTER (WHERE kind = 'in')           AS items_received
		FROM movements
		WHERE occurred_on = $1
	`

	var totals reports.DayTotals
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &totals, sql, day); err != nil {
		return totals, fmt.Errorf("day totals: %w", err)
	}
	return totals, nil
}

// TopOutgoing ranks items by summed out quantity over [from, to].
func (r *ReportRepo) TopOutgoing(ctx context.Context, from, to types.Date, limit int) ([]reports.TopOutgoingRow, error) {
	sql := `
		SELECT
			m.item_id,
			i.name,
			i.unit,
			i.category,
			SUM(m.quantity) AS total_out,
			COUNT(*)        AS movement_count
		FROM movements m
		JOIN items i ON i.id = m.item_id
		WHERE m.kind = 'out'
		  AND m.occurred_on BETWEEN $1 AND $2
		GROUP BY m.item_id, i.name, i.unit, i.category
		ORDER BY total_out DESC, i.name
		LIMIT $3
	`

	var rows []reports.TopOutgoingRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, from, to, limit); err != nil {
		return nil, fmt.Errorf("top outgoing: %w", err)
	}
	return rows, nil
}

// DailyTotals sums movements by kind per date over [from, to].
func (r *ReportRepo) DailyTotals(ctx context.Context, from, to types.Date) ([]reports.DailyTotalsRow, error) {
	sql := `
		SELECT
			occurred_on,
			COALESCE(SUM(quantity) FILTER (WHERE kind = 'in'), 0)        AS stock_in,
			COALESCE(SUM(quantity) FILTER (WHERE kind = 'out'), 0)       AS stock_out,
			COALESCE(SUM(quantity) FILTER (WHERE kind = 'spoilage'), 0)  AS spoilage,
			COUNT(*) FILTER (WHERE NOT auto_generated)                   AS movement_count
		FROM movements
		WHERE occurred_on BETWEEN $1 AND $2
		GROUP BY occurred_on
		ORDER BY occurred_on
	`

	var rows []reports.DailyTotalsRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, from, to); err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	return rows, nil
}

// Ensure interface compliance.
var _ reports.Repository = (*ReportRepo)(nil)
