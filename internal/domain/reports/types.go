// Package reports builds read models: the daily inventory sheet,
// dashboard aggregates, top-outgoing ranking and date-range summaries.
package reports

import (
	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/balance"
)

// DayViewRow is one item on the daily inventory sheet.
type DayViewRow struct {
	ItemID         id.ID           `json:"itemId"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	Balance        balance.Balance `json:"balance"`
	HasData        bool            `json:"hasData"`
	LowStock       bool            `json:"lowStock"`
	LowStockReason string          `json:"lowStockReason,omitempty"`
}

// CategoryGroup holds a category's rows on the daily sheet.
type CategoryGroup struct {
	Category string       `json:"category"`
	Items    []DayViewRow `json:"items"`
}

// DaySummary aggregates the whole sheet.
type DaySummary struct {
	Products      int   `json:"products"`
	Beginning     int64 `json:"beginning"`
	In            int64 `json:"in"`
	Out           int64 `json:"out"`
	Spoilage      int64 `json:"spoilage"`
	Remaining     int64 `json:"remaining"`
	LowStockCount int   `json:"lowStockCount"`
}

// DayView is the full daily inventory sheet for one date.
type DayView struct {
	Date    types.Date      `json:"date"`
	Groups  []CategoryGroup `json:"groups"`
	Summary DaySummary      `json:"summary"`
}

// DayTotals are movement sums for one date across all items.
type DayTotals struct {
	In            int64 `db:"stock_in" json:"in"`
	Out           int64 `db:"stock_out" json:"out"`
	Spoilage      int64 `db:"spoilage" json:"spoilage"`
	MovementCount int64 `db:"movement_count" json:"movementCount"`
	ItemsReceived int64 `db:"items_received" json:"itemsReceived"`
}

// LowStockItem is one entry on the dashboard replenishment list.
type LowStockItem struct {
	ItemID         id.ID  `json:"itemId"`
	Name           string `json:"name"`
	Unit           string `json:"unit"`
	Category       string `json:"category"`
	Remaining      int64  `json:"remaining"`
	TotalInventory int64  `json:"totalInventory"`
	Reason         string `json:"reason"`
}

// Dashboard is the landing-page read model.
type Dashboard struct {
	Date          types.Date     `json:"date"`
	Totals        DayTotals      `json:"totals"`
	LowStock      []LowStockItem `json:"lowStock"`
	LowStockCount int            `json:"lowStockCount"`
}

// TopOutgoingRow ranks an item by outgoing quantity over a window.
type TopOutgoingRow struct {
	ItemID        id.ID  `db:"item_id" json:"itemId"`
	Name          string `db:"name" json:"name"`
	Unit          string `db:"unit" json:"unit"`
	Category      string `db:"category" json:"category"`
	TotalOut      int64  `db:"total_out" json:"totalOut"`
	MovementCount int64  `db:"movement_count" json:"movementCount"`
}

// DailyTotalsRow is one date's aggregates in a range summary.
type DailyTotalsRow struct {
	Date          types.Date `db:"occurred_on" json:"date"`
	In            int64      `db:"stock_in" json:"in"`
	Out           int64      `db:"stock_out" json:"out"`
	Spoilage      int64      `db:"spoilage" json:"spoilage"`
	MovementCount int64      `db:"movement_count" json:"movementCount"`
}
