package dto

import (
	"larder/internal/domain/balance"
)

// ReplaceDayRequest rewrites one item's day.
// Nil fields are omitted from the rewritten day; a zero beginning is
// meaningful and kept.
type ReplaceDayRequest struct {
	Beginning *int64 `json:"beginning"`
	In        *int64 `json:"in"`
	Out       *int64 `json:"out"`
	Spoilage  *int64 `json:"spoilage"`
}

// DayBalanceResponse is one item's computed balance for a date.
type DayBalanceResponse struct {
	ItemID  string          `json:"itemId"`
	Date    string          `json:"date"`
	Balance balance.Balance `json:"balance"`
	HasData bool            `json:"hasData"`
}

// SystemDateResponse carries the service's current calendar date.
type SystemDateResponse struct {
	Date string `json:"date"`
}
