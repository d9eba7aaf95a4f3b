package Ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"Mandi/Models"
)

func TestBuildDailySummary(t *testing.T) {
	txns := []Models.Transaction{
		txn(1, "2024-05-10", 1, 2, "2000", "100", "0.02", "0.40", "1000", "0"),
		txn(2, "2024-05-10", 3, 2, "500", "20", "0.02", "0.40", "490", "508"),
		txn(3, "2024-05-09", 3, 2, "700", "70", "0.02", "0.40", "0", "0"),
	}
	parties := []Models.Party{
		party(1, Models.PartyKisan, "960"),
		party(3, Models.PartyKisan, "-15"),
		party(4, Models.PartyKisan, "40.50"),
		party(2, Models.PartyVyapari, "2556"),
		party(6, Models.PartyVyapari, "-100"),
	}

	s := BuildDailySummary(time.Date(2024, 5, 10, 17, 0, 0, 0, time.UTC), txns, parties)

	assert.Equal(t, day("2024-05-10"), s.Date)
	assert.Equal(t, 2, s.TransactionCount)
	assertDec(t, "120", s.TotalWeightInKg)
	// 2040 + 508
	assertDec(t, "2548", s.DailyCollectionFromVyaparis)
	assertDec(t, "1490", s.DailyPaymentsToKisans)
	// 80 + 18
	assertDec(t, "98", s.TotalCommission)
	assertDec(t, "1000.50", s.TotalMandiOwesToKisans)
	assertDec(t, "2556", s.TotalVyaparisOweToMandi)
	assertDec(t, "1555.50", s.NetMandiBalance)
}

func TestBuildDailySummaryEmpty(t *testing.T) {
	s := BuildDailySummary(day("2024-05-10"), nil, nil)

	assert.Zero(t, s.TransactionCount)
	assertDec(t, "0", s.TotalWeightInKg)
	assertDec(t, "0", s.NetMandiBalance)
}

func TestDateIn(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	late := time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, day("2024-03-06"), DateIn(late, ist))
	assert.Equal(t, day("2024-03-05"), DateIn(late, time.UTC))
	assert.Equal(t, day("2024-03-04"), DateIn(time.Date(2024, 3, 5, 3, 0, 0, 0, time.UTC), time.FixedZone("EST", -5*60*60)))
}
