package balance

import (
	"github.com/shopspring/decimal"
)

// Low-stock reasons reported to clients.
const (
	LowStockZeroRemaining = "zero_remaining"
	LowStockBelowPercent  = "below_percent"
	LowStockBelowAbsolute = "below_absolute"
	LowStockNoData        = "no_data"
)

// Thresholds configure the low-stock classifier.
// Percent is compared with decimal math so 0.2 means exactly 20%.
type Thresholds struct {
	Percent  decimal.Decimal
	Absolute int64
}

// DefaultThresholds returns the stock thresholds used when settings
// are missing: 20% of total or 10 units.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Percent:  decimal.NewFromFloat(0.2),
		Absolute: 10,
	}
}

// Classify reports whether a day balance counts as low stock and why.
// hasData is false when the item has no movements at all for the date;
// an untracked item is flagged so it does not silently drop off
// replenishment lists.
//
// The rules are a union - the first matching reason is returned:
//  1. remaining is exactly zero
//  2. remaining/total is at or below the percent threshold
//  3. remaining is at or below the absolute threshold
//  4. the item has no data for the date
func Classify(b Balance, hasData bool, th Thresholds) (bool, string) {
	if hasData && b.Remaining == 0 {
		return true, LowStockZeroRemaining
	}

	if b.TotalInventory > 0 {
		ratio := decimal.NewFromInt(b.Remaining).Div(decimal.NewFromInt(b.TotalInventory))
		if ratio.LessThanOrEqual(th.Percent) {
			return true, LowStockBelowPercent
		}
		if b.Remaining <= th.Absolute {
			return true, LowStockBelowAbsolute
		}
	}

	if !hasData {
		return true, LowStockNoData
	}

	return false, ""
}
