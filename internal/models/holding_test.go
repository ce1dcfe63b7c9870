package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentPnL(t *testing.T) {
	long := &HoldingPosition{
		Code: "CU2501-C-75000", Symbol: "CU", Expiry: "2025-01",
		Strike: 75000, Type: OptionCall, Quantity: 2, AvgCost: 1200,
	}
	assert.Equal(t, 500.0, long.CurrentPnL(1450)) // (1450-1200)*2

	short := &HoldingPosition{
		Code: "CU2501-P-73000", Symbol: "CU", Expiry: "2025-01",
		Strike: 73000, Type: OptionPut, Quantity: -1, AvgCost: 800,
	}
	assert.Equal(t, -200.0, short.CurrentPnL(1000)) // short loses as price rises
}

func TestIsITMCall(t *testing.T) {
	h := &HoldingPosition{Type: OptionCall, Strike: 75000}

	assert.True(t, h.IsITM(75100))
	assert.False(t, h.IsITM(75000)) // at strike is not ITM
	assert.False(t, h.IsITM(74900))
}

func TestIsITMPut(t *testing.T) {
	h := &HoldingPosition{Type: OptionPut, Strike: 75000}

	assert.True(t, h.IsITM(74900))
	assert.False(t, h.IsITM(75000))
	assert.False(t, h.IsITM(75100))
}

func TestExpiryDateYearMonth(t *testing.T) {
	h := &HoldingPosition{Code: "CU2501-C-75000", Expiry: "2025-01"}

	exp, err := h.ExpiryDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), exp)

	// February resolves to the 28th in non-leap years.
	h.Expiry = "2025-02"
	exp, err = h.ExpiryDate()
	require.NoError(t, err)
	assert.Equal(t, 28, exp.Day())
}

func TestExpiryDateFull(t *testing.T) {
	h := &HoldingPosition{Expiry: "2025-03-15"}

	exp, err := h.ExpiryDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), exp)
}

func TestExpiryDateInvalid(t *testing.T) {
	h := &HoldingPosition{Code: "CU2501-C-75000", Expiry: "soon"}

	_, err := h.ExpiryDate()
	assert.Error(t, err)
}

func TestDaysToExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)
	h := &HoldingPosition{Expiry: "2025-01-31"}

	dte, err := h.DaysToExpiry(now)
	require.NoError(t, err)
	assert.Equal(t, 30, dte)

	// Expired holdings report negative DTE rather than clamping.
	h.Expiry = "2024-12-01"
	dte, err = h.DaysToExpiry(now)
	require.NoError(t, err)
	assert.Equal(t, -31, dte)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, OptionCall.Valid())
	assert.True(t, OptionPut.Valid())
	assert.False(t, OptionType("straddle").Valid())

	assert.True(t, TrendBullish.Valid())
	assert.False(t, TrendDirection("sideways").Valid())

	assert.True(t, SignalNeutral.Valid())
	assert.False(t, Signal("mixed").Valid())

	assert.True(t, RecommendClose.Valid())
	assert.False(t, Recommendation("SELL").Valid())
}
