package Ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"Mandi/Models"
)

// DailySummary is the mandi's position for one day plus its standing
// balances across all parties.
type DailySummary struct {
	Date                        time.Time       `json:"date"`
	TransactionCount            int             `json:"transaction_count"`
	TotalWeightInKg             decimal.Decimal `json:"total_weight_in_kg"`
	TotalCommission             decimal.Decimal `json:"total_commission"`
	DailyCollectionFromVyaparis decimal.Decimal `json:"daily_collection_from_vyaparis"`
	DailyPaymentsToKisans       decimal.Decimal `json:"daily_payments_to_kisans"`
	TotalMandiOwesToKisans      decimal.Decimal `json:"total_mandi_owes_to_kisans"`
	TotalVyaparisOweToMandi     decimal.Decimal `json:"total_vyaparis_owe_to_mandi"`
	NetMandiBalance             decimal.Decimal `json:"net_mandi_balance"`
}

// BuildDailySummary reduces the day's transactions and every party's cached
// balance. Transactions on other days are ignored.
func BuildDailySummary(day time.Time, txns []Models.Transaction, parties []Models.Party) DailySummary {
	day = DateOnly(day)
	s := DailySummary{
		Date:                        day,
		TotalWeightInKg:             decimal.Zero,
		TotalCommission:             decimal.Zero,
		DailyCollectionFromVyaparis: decimal.Zero,
		DailyPaymentsToKisans:       decimal.Zero,
		TotalMandiOwesToKisans:      decimal.Zero,
		TotalVyaparisOweToMandi:     decimal.Zero,
	}

	for _, t := range txns {
		if !DateOnly(t.TransactionDate).Equal(day) {
			continue
		}
		s.TransactionCount++
		s.TotalWeightInKg = s.TotalWeightInKg.Add(t.TotalWeightInKg)
		s.TotalCommission = s.TotalCommission.Add(t.TotalCommission)
		s.DailyCollectionFromVyaparis = s.DailyCollectionFromVyaparis.Add(t.NetAmountVyapari)
		s.DailyPaymentsToKisans = s.DailyPaymentsToKisans.Add(t.AmountPaidKisan)
	}

	for _, p := range parties {
		if !p.Bakaya.IsPositive() {
			continue
		}
		switch p.Type {
		case Models.PartyKisan:
			s.TotalMandiOwesToKisans = s.TotalMandiOwesToKisans.Add(p.Bakaya)
		case Models.PartyVyapari:
			s.TotalVyaparisOweToMandi = s.TotalVyaparisOweToMandi.Add(p.Bakaya)
		}
	}
	s.NetMandiBalance = s.TotalVyaparisOweToMandi.Sub(s.TotalMandiOwesToKisans)
	return s
}
