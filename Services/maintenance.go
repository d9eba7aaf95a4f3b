package Services

import (
	"context"
	"errors"
	"time"

	"Mandi/Events"
	"Mandi/Ledger"
	"Mandi/Models"
)

// ReconcileReport lists the parties whose cached bakaya drifted from their
// history, and whether the drift was written back. Conflicts holds drifts
// that could not be fixed because the party changed while reconciling.
type ReconcileReport struct {
	CheckedAt time.Time      `json:"checked_at"`
	Parties   int            `json:"parties"`
	Drifts    []Ledger.Drift `json:"drifts"`
	Conflicts []Ledger.Drift `json:"conflicts,omitempty"`
	Fixed     bool           `json:"fixed"`
}

// Reconcile recomputes every party's balance from its history. With fix each
// drifted party is re-derived and corrected in its own DB transaction.
func (s *LedgerService) Reconcile(ctx context.Context, fix bool, userID uint) (*ReconcileReport, error) {
	parties, err := s.store.AllParties(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.AllTransactions(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.AllPayments(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{
		CheckedAt: s.now(),
		Parties:   len(parties),
		Drifts:    Ledger.Reconcile(parties, txns, payments),
	}
	if len(report.Drifts) == 0 {
		return report, nil
	}

	if !fix {
		s.notify(ctx, driftNotice(report.Drifts))
		return report, nil
	}
	if err := s.fixDrifts(ctx, report, userID); err != nil {
		return nil, err
	}
	return report, nil
}

// ReconcileParty checks a single party. An empty Drifts means the cached
// balance matches the history.
func (s *LedgerService) ReconcileParty(ctx context.Context, pt Models.PartyType, id uint, fix bool, userID uint) (*ReconcileReport, error) {
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

	report := &ReconcileReport{CheckedAt: s.now(), Parties: 1, Drifts: []Ledger.Drift{}}
	d := Ledger.CheckBalance(*party, txns, payments)
	if d == nil {
		return report, nil
	}
	report.Drifts = append(report.Drifts, *d)
	if fix {
		if err := s.fixDrifts(ctx, report, userID); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// fixDrifts corrects every drift in the report. The drifts are replaced by
// what was actually applied; a drift that vanished on re-derivation is
// dropped and one that raced a concurrent write is moved to Conflicts.
func (s *LedgerService) fixDrifts(ctx context.Context, report *ReconcileReport, userID uint) error {
	applied := []Ledger.Drift{}
	for _, d := range report.Drifts {
		fixed, err := s.store.FixBalance(ctx, d.PartyType, d.PartyID, userID)
		if errors.Is(err, Ledger.ErrConflict) {
			s.log.Warn().Err(err).Uint("party_id", d.PartyID).Msg("reconcile skipped party")
			report.Conflicts = append(report.Conflicts, d)
			continue
		}
		if err != nil {
			return err
		}
		if fixed == nil {
			continue
		}
		applied = append(applied, *fixed)

		e := Events.New(Events.BalanceReconciled)
		e.PartyID = fixed.PartyID
		e.PartyType = string(fixed.PartyType)
		e.Amount = fixed.Difference.Neg()
		s.afterWrite(ctx, e)
		s.log.Warn().
			Str("party_type", string(fixed.PartyType)).
			Uint("party_id", fixed.PartyID).
			Str("stored", fixed.Stored.StringFixed(Ledger.Places)).
			Str("derived", fixed.Derived.StringFixed(Ledger.Places)).
			Msg("bakaya reconciled")
	}
	report.Drifts = applied
	report.Fixed = len(report.Conflicts) == 0
	return nil
}

// RefreshPriceStats recomputes the unit price statistics of every product,
// optionally from items recorded since the given time. Returns the number of
// products updated.
func (s *LedgerService) RefreshPriceStats(ctx context.Context, since *time.Time) (int, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return 0, err
	}

	at := s.now()
	updated := 0
	for _, p := range products {
		prices, err := s.store.ProductPrices(ctx, p.ID, since)
		if err != nil {
			return updated, err
		}
		stats, ok := Ledger.ComputePriceStats(prices)
		if !ok {
			continue
		}
		if err := s.store.SavePriceStats(ctx, p.ID, stats, at); err != nil {
			return updated, err
		}
		updated++
	}
	if updated > 0 {
		s.Invalidate(ctx)
	}
	return updated, nil
}

// RateSource fetches reference prices from a public mandi board.
type RateSource interface {
	Source() string
	Fetch(ctx context.Context, day time.Time) ([]Models.MarketRate, error)
}

// RefreshMarketRates replaces the day's rates from the source.
func (s *LedgerService) RefreshMarketRates(ctx context.Context, source RateSource, day time.Time) ([]Models.MarketRate, error) {
	day = Ledger.DateOnly(day)
	rates, err := source.Fetch(ctx, day)
	if err != nil {
		return nil, Ledger.Unavailable("fetch market rates", err)
	}
	for i := range rates {
		rates[i].Source = source.Source()
		rates[i].RateDate = day
		rates[i].MinPrice = Ledger.Round2(rates[i].MinPrice)
		rates[i].MaxPrice = Ledger.Round2(rates[i].MaxPrice)
		rates[i].ModalPrice = Ledger.Round2(rates[i].ModalPrice)
	}
	if err := s.store.ReplaceMarketRates(ctx, source.Source(), day, rates); err != nil {
		return nil, err
	}
	return rates, nil
}
