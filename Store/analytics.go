package Store

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"Mandi/Ledger"
	"Mandi/Models"
)

// MonthlyVolume is the trade of one calendar month.
type MonthlyVolume struct {
	Month            string          `json:"month"`
	Label            string          `json:"label"`
	TransactionCount int             `json:"transaction_count"`
	Weight           decimal.Decimal `json:"weight"`
	Gross            decimal.Decimal `json:"gross"`
	Commission       decimal.Decimal `json:"commission"`
}

// MonthlyVolumes buckets the last n months ending with the month of now.
// Empty months are included.
func (s *Store) MonthlyVolumes(ctx context.Context, now time.Time, months int) ([]MonthlyVolume, error) {
	if months <= 0 {
		months = 12
	}
	end := Ledger.DateOnly(now)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	// Months are bucketed in Go so the query stays portable across drivers.
	txns, err := s.TransactionsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*MonthlyVolume, months)
	out := make([]MonthlyVolume, 0, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		out = append(out, MonthlyVolume{
			Month:      m.Format("2006-01"),
			Label:      m.Format("Jan 2006"),
			Weight:     decimal.Zero,
			Gross:      decimal.Zero,
			Commission: decimal.Zero,
		})
	}
	for i := range out {
		buckets[out[i].Month] = &out[i]
	}

	for _, t := range txns {
		b, ok := buckets[t.TransactionDate.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		b.TransactionCount++
		b.Weight = b.Weight.Add(t.TotalWeightInKg)
		b.Gross = b.Gross.Add(t.SubTotal)
		b.Commission = b.Commission.Add(t.TotalCommission)
	}
	return out, nil
}

type PartyVolume struct {
	PartyID          uint            `json:"party_id"`
	Name             string          `json:"name"`
	TransactionCount int64           `json:"transaction_count"`
	Gross            decimal.Decimal `json:"gross"`
	Bakaya           decimal.Decimal `json:"bakaya"`
}

// TopParties ranks parties of one type by gross traded value.
func (s *Store) TopParties(ctx context.Context, pt Models.PartyType, limit int) ([]PartyVolume, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	column := "kisan_id"
	if pt == Models.PartyVyapari {
		column = "vyapari_id"
	}

	var rows []struct {
		PartyID          uint
		TransactionCount int64
		Gross            decimal.Decimal
	}
	err := s.DB.WithContext(ctx).Raw(`
		SELECT `+column+` AS party_id, COUNT(*) AS transaction_count, COALESCE(SUM(sub_total), 0) AS gross
		FROM transactions
		WHERE deleted_at IS NULL
		GROUP BY `+column+`
		ORDER BY gross DESC
		LIMIT ?`, limit).Scan(&rows).Error
	if err != nil {
		return nil, classify("top parties", err)
	}

	ids := make([]uint, len(rows))
	for i, r := range rows {
		ids[i] = r.PartyID
	}
	var parties []Models.Party
	if len(ids) > 0 {
		if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&parties).Error; err != nil {
			return nil, classify("top parties", err)
		}
	}
	byID := make(map[uint]Models.Party, len(parties))
	for _, p := range parties {
		byID[p.ID] = p
	}

	out := make([]PartyVolume, 0, len(rows))
	for _, r := range rows {
		p := byID[r.PartyID]
		out = append(out, PartyVolume{
			PartyID:          r.PartyID,
			Name:             p.Name,
			TransactionCount: r.TransactionCount,
			Gross:            Ledger.Round2(r.Gross),
			Bakaya:           p.Bakaya,
		})
	}
	return out, nil
}

// Activity is one ledger event in the recent activity feed.
type Activity struct {
	Kind      string          `json:"kind"`
	ID        uint            `json:"id"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
	Summary   string          `json:"summary"`
	Amount    decimal.Decimal `json:"amount"`
}

// RecentActivity merges the latest transactions and payments.
func (s *Store) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var txns []Models.Transaction
	if err := s.DB.WithContext(ctx).Preload("Kisan").Preload("Vyapari").
		Order("created_at DESC").Limit(limit).Find(&txns).Error; err != nil {
		return nil, classify("recent activity", err)
	}
	var payments []Models.Payment
	if err := s.DB.WithContext(ctx).Preload("Party").
		Order("created_at DESC").Limit(limit).Find(&payments).Error; err != nil {
		return nil, classify("recent activity", err)
	}

	out := make([]Activity, 0, len(txns)+len(payments))
	for _, t := range txns {
		summary := "sale"
		if t.Kisan != nil && t.Vyapari != nil {
			summary = t.Kisan.Name + " to " + t.Vyapari.Name
		}
		out = append(out, Activity{Kind: "transaction", ID: t.ID, Date: t.TransactionDate, CreatedAt: t.CreatedAt, Summary: summary, Amount: t.SubTotal})
	}
	for _, p := range payments {
		summary := string(p.PartyType)
		if p.Party != nil {
			summary = p.PartyType.Label() + " " + p.Party.Name
		}
		out = append(out, Activity{Kind: "payment", ID: p.ID, Date: p.PaymentDate, CreatedAt: p.CreatedAt, Summary: summary, Amount: p.Amount})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
