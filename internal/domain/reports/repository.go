package reports

import (
	"context"

	"larder/internal/core/types"
)

// Repository defines SQL aggregate queries for reports.
// Row-by-row day views are assembled in the service from the movement
// repository; only the grouping queries live here.
type Repository interface {
	// DayTotals sums movements by kind for one date.
	DayTotals(ctx context.Context, day types.Date) (DayTotals, error)

	// TopOutgoing ranks items by summed out quantity over [from, to].
	TopOutgoing(ctx context.Context, from, to types.Date, limit int) ([]TopOutgoingRow, error)

	// DailyTotals sums movements by kind per date over [from, to].
	DailyTotals(ctx context.Context, from, to types.Date) ([]DailyTotalsRow, error)
}

// DayViewCache stores assembled day views.
// Get returns (nil, nil) on a miss; cache failures must not fail reads.
type DayViewCache interface {
	GetDayView(ctx context.Context, day types.Date) (*DayView, error)
	SetDayView(ctx context.Context, view *DayView) error
}
