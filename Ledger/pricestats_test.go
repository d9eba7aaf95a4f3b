package Ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePriceStats(t *testing.T) {
	prices := []decimal.Decimal{dec("20"), dec("22.50"), dec("18"), dec("22.5"), dec("25")}

	s, ok := ComputePriceStats(prices)
	require.True(t, ok)

	assert.Equal(t, 5, s.Samples)
	assertDec(t, "21.6", s.Average)
	assertDec(t, "18", s.Min)
	assertDec(t, "25", s.Max)
	assertDec(t, "22.5", s.Median)
	assertDec(t, "22.5", s.Mode)
}

func TestComputePriceStatsEvenCountAndTies(t *testing.T) {
	s, ok := ComputePriceStats([]decimal.Decimal{dec("30"), dec("10"), dec("20"), dec("40")})
	require.True(t, ok)

	assertDec(t, "25", s.Median)
	// every price occurs once, the lowest wins
	assertDec(t, "10", s.Mode)
	assertDec(t, "25", s.Average)
}

func TestComputePriceStatsEmpty(t *testing.T) {
	_, ok := ComputePriceStats(nil)
	assert.False(t, ok)
}
