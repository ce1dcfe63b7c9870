// Package models defines the data types shared across the review pipeline:
// holdings, market data snapshots, and per-position analysis results.
package models

import (
	"fmt"
	"time"
)

// OptionType identifies the side of an option contract.
type OptionType string

const (
	// OptionCall is a call option.
	OptionCall OptionType = "call"
	// OptionPut is a put option.
	OptionPut OptionType = "put"
)

// Valid returns true if the OptionType is one of the defined constants.
func (t OptionType) Valid() bool {
	switch t {
	case OptionCall, OptionPut:
		return true
	default:
		return false
	}
}

// HoldingPosition is a user's existing options position supplied at review
// time. Holdings have no persisted lifecycle; each review run receives a
// fresh batch from the caller.
type HoldingPosition struct {
	Code     string     `json:"code"`
	Symbol   string     `json:"symbol"`
	Expiry   string     `json:"expiry"` // "2006-01" or "2006-01-02"
	Strike   float64    `json:"strike"`
	Type     OptionType `json:"type"`
	Quantity int        `json:"quantity"` // positive = long, negative = short
	AvgCost  float64    `json:"avg_cost"`
	OpenDate time.Time  `json:"open_date,omitempty"`
}

// CurrentPnL returns the unrealized profit/loss at the given contract price.
func (h *HoldingPosition) CurrentPnL(currentPrice float64) float64 {
	return (currentPrice - h.AvgCost) * float64(h.Quantity)
}

// IsITM reports whether the option has positive intrinsic value at spot.
// At-the-money is not in-the-money: both comparisons are strict.
func (h *HoldingPosition) IsITM(spot float64) bool {
	if h.Type == OptionCall {
		return spot > h.Strike
	}
	return spot < h.Strike
}

// ExpiryDate resolves the expiry string to a calendar date. A year-month
// expiry resolves to the last calendar day of that month.
func (h *HoldingPosition) ExpiryDate() (time.Time, error) {
	if t, err := time.Parse("2006-01-02", h.Expiry); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01", h.Expiry)
	if err != nil {
		return time.Time{}, fmt.Errorf("holding %s: unparseable expiry %q", h.Code, h.Expiry)
	}
	// First day of next month minus one day.
	return t.AddDate(0, 1, -1), nil
}

// DaysToExpiry returns calendar days from now to the resolved expiry date.
// Negative values indicate an already-expired holding.
func (h *HoldingPosition) DaysToExpiry(now time.Time) (int, error) {
	exp, err := h.ExpiryDate()
	if err != nil {
		return 0, err
	}
	return DaysBetween(now, exp), nil
}

// DaysBetween returns the signed number of calendar days from one date to
// another, ignoring time-of-day.
func DaysBetween(from, to time.Time) int {
	f := from.UTC().Truncate(24 * time.Hour)
	t := to.UTC().Truncate(24 * time.Hour)
	return int(t.Sub(f).Hours() / 24)
}
