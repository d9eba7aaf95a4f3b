package Ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Places is the number of decimals kept for persisted currency values.
	Places = 2
	// WeightPlaces and PricePlaces bound the precision of entered item
	// quantities (grams) and unit prices, which are stored as entered.
	WeightPlaces = 3
	PricePlaces  = 4
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Round2 rounds half away from zero to 2 decimals.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// withinPlaces reports whether d needs no more than places decimals.
func withinPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// RatePercent converts a stored fraction to its percent form for display.
func RatePercent(rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(hundred)
}

// DateOnly truncates t to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateIn returns the calendar day t falls on in loc, as a UTC midnight like
// every other stored day.
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD day.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, Invalid(field, "must be in YYYY-MM-DD format")
	}
	return t, nil
}

func sameDayOrAfter(t, day time.Time) bool {
	return !DateOnly(t).Before(DateOnly(day))
}

func sameDayOrBefore(t, day time.Time) bool {
	return !DateOnly(t).After(DateOnly(day))
}
