package Services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"Mandi/Cache"
	"Mandi/Ledger"
	"Mandi/Models"
)

func cached[T any](ctx context.Context, s *LedgerService, key string, compute func() (T, error)) (T, error) {
	if s.cache == nil {
		return compute()
	}
	return Cache.Load(ctx, s.cache, key, compute)
}

func dateKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return Ledger.DateOnly(*t).Format("2006-01-02")
}

// Statement builds the bill statement of one party for an optional period.
// A party of the other type is reported as not found.
func (s *LedgerService) Statement(ctx context.Context, pt Models.PartyType, id uint, start, end *time.Time) (*Ledger.BillStatement, error) {
	if !pt.Valid() {
		return nil, Ledger.Invalid("entity_type", "must be kisan or vyapari")
	}
	if start != nil && end != nil && Ledger.DateOnly(*end).Before(Ledger.DateOnly(*start)) {
		return nil, Ledger.Invalid("end_date", "must not be before start_date")
	}

	key := Cache.Key("statement", pt, id, dateKey(start), dateKey(end))
	return cached(ctx, s, key, func() (*Ledger.BillStatement, error) {
		party, err := s.store.GetParty(ctx, pt, id)
		if err != nil {
			return nil, err
		}
		txns, err := s.store.PartyTransactions(ctx, pt, id)
		if err != nil {
			return nil, err
		}
		payments, err := s.store.PartyPayments(ctx, pt, id)
		if err != nil {
			return nil, err
		}
		return Ledger.BuildStatement(Ledger.StatementParams{
			EntityType:    pt,
			Party:         *party,
			StartDate:     start,
			EndDate:       end,
			Transactions:  txns,
			Payments:      payments,
			StatementDate: s.now(),
		})
	})
}

// DailySummary reports one day's trade plus the standing balances.
func (s *LedgerService) DailySummary(ctx context.Context, day time.Time) (Ledger.DailySummary, error) {
	day = Ledger.DateOnly(day)
	key := Cache.Key("daily", day.Format("2006-01-02"))
	return cached(ctx, s, key, func() (Ledger.DailySummary, error) {
		txns, err := s.store.TransactionsBetween(ctx, day, day)
		if err != nil {
			return Ledger.DailySummary{}, err
		}
		parties, err := s.store.AllParties(ctx)
		if err != nil {
			return Ledger.DailySummary{}, err
		}
		return Ledger.BuildDailySummary(day, txns, parties), nil
	})
}

// Bootstrap is everything the entry screens need in one response.
type Bootstrap struct {
	Kisans   []Models.Party         `json:"kisans"`
	Vyaparis []Models.Party         `json:"vyaparis"`
	Products []Models.Product       `json:"products"`
	Settings *Models.SystemSettings `json:"settings"`
}

// Bootstrap loads parties, products and settings concurrently. The first
// failure cancels the rest.
func (s *LedgerService) Bootstrap(ctx context.Context) (*Bootstrap, error) {
	var b Bootstrap
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		b.Kisans, err = s.store.ListParties(ctx, Models.PartyKisan, "")
		return err
	})
	g.Go(func() (err error) {
		b.Vyaparis, err = s.store.ListParties(ctx, Models.PartyVyapari, "")
		return err
	})
	g.Go(func() (err error) {
		b.Products, err = s.store.ListProducts(ctx)
		return err
	})
	g.Go(func() (err error) {
		b.Settings, err = s.store.GetSettings(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &b, nil
}

// SendDailyDigest notifies staff with the day's summary.
func (s *LedgerService) SendDailyDigest(ctx context.Context, day time.Time) (Ledger.DailySummary, error) {
	summary, err := s.DailySummary(ctx, day)
	if err != nil {
		return summary, err
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return summary, err
	}
	if err := s.notifier.Notify(ctx, dailyNotice(settings.MandiName, summary)); err != nil {
		return summary, err
	}
	return summary, nil
}
