package Ledger

import (
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PriceStats summarises the unit prices a product traded at.
type PriceStats struct {
	Average decimal.Decimal `json:"average"`
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	Median  decimal.Decimal `json:"median"`
	Mode    decimal.Decimal `json:"mode"`
	Samples int             `json:"samples"`
}

// ComputePriceStats returns ok=false when there are no samples. The mode is
// the most frequent price, the lowest one on ties.
func ComputePriceStats(prices []decimal.Decimal) (PriceStats, bool) {
	if len(prices) == 0 {
		return PriceStats{}, false
	}

	data := make([]float64, len(prices))
	for i, p := range prices {
		data[i] = p.InexactFloat64()
	}
	sort.Float64s(data)

	return PriceStats{
		Average: Round2(decimal.NewFromFloat(stat.Mean(data, nil))),
		Min:     Round2(decimal.NewFromFloat(floats.Min(data))),
		Max:     Round2(decimal.NewFromFloat(floats.Max(data))),
		Median:  Round2(median(data)),
		Mode:    Round2(mode(prices)),
		Samples: len(prices),
	}, true
}

// median expects sorted data.
func median(sorted []float64) decimal.Decimal {
	n := len(sorted)
	if n%2 == 1 {
		return decimal.NewFromFloat(sorted[n/2])
	}
	lo := decimal.NewFromFloat(sorted[n/2-1])
	hi := decimal.NewFromFloat(sorted[n/2])
	return lo.Add(hi).Div(decimal.NewFromInt(2))
}

// mode counts on exact decimal values so 12.50 and 12.5 are one price.
func mode(prices []decimal.Decimal) decimal.Decimal {
	counts := make(map[string]int, len(prices))
	values := make(map[string]decimal.Decimal, len(prices))
	for _, p := range prices {
		k := p.String()
		counts[k]++
		values[k] = p
	}

	var best decimal.Decimal
	bestCount := 0
	for k, c := range counts {
		v := values[k]
		if c > bestCount || (c == bestCount && v.LessThan(best)) {
			best, bestCount = v, c
		}
	}
	return best
}
