package Services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"Mandi/Cache"
	"Mandi/Events"
	"Mandi/Ledger"
	"Mandi/Models"
	"Mandi/Notifications"
	"Mandi/Store"
)

type Options struct {
	// LargeTransactionThreshold raises a notification for any transaction
	// whose sub total reaches it. Zero disables the alert.
	LargeTransactionThreshold decimal.Decimal
	// NotifyTimeout bounds notices sent in the background. Defaults to 30s.
	NotifyTimeout time.Duration
	// Location decides which calendar day "today" is. Defaults to UTC.
	Location *time.Location
	Logger   zerolog.Logger
	Now      func() time.Time
}

// LedgerService runs every ledger write and report on top of the store.
type LedgerService struct {
	store     *Store.Store
	cache     Cache.Cache
	events    Events.Publisher
	notifier  Notifications.Notifier
	threshold decimal.Decimal
	log       zerolog.Logger
	now       func() time.Time
	loc       *time.Location

	notifyTimeout time.Duration
	pending       sync.WaitGroup
}

func NewLedgerService(store *Store.Store, cache Cache.Cache, events Events.Publisher, notifier Notifications.Notifier, opts Options) *LedgerService {
	if events == nil {
		events = Events.Noop{}
	}
	if notifier == nil {
		notifier = Notifications.Noop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 30 * time.Second
	}
	return &LedgerService{
		store:         store,
		cache:         cache,
		events:        events,
		notifier:      notifier,
		threshold:     opts.LargeTransactionThreshold,
		log:           opts.Logger,
		now:           opts.Now,
		loc:           opts.Location,
		notifyTimeout: opts.NotifyTimeout,
	}
}

func (s *LedgerService) Store() *Store.Store {
	return s.store
}

// Location is the zone of the mandi's trading day.
func (s *LedgerService) Location() *time.Location {
	return s.loc
}

// Today is the current trading day in the mandi's zone.
func (s *LedgerService) Today() time.Time {
	return s.LocalDay(s.now())
}

// LocalDay is the trading day t falls on.
func (s *LedgerService) LocalDay(t time.Time) time.Time {
	return Ledger.DateIn(t, s.loc)
}

// draft turns a request into a calculator draft, applying the settings
// rates unless the request overrides them.
func (s *LedgerService) draft(ctx context.Context, req Models.TransactionRequest) (Ledger.Draft, error) {
	date, err := Ledger.ParseDate("date", req.Date)
	if err != nil {
		return Ledger.Draft{}, err
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return Ledger.Draft{}, err
	}

	rates := Ledger.RatesFromSettings(*settings)
	if req.CommissionKisanRate.Valid {
		rates.KisanRate = req.CommissionKisanRate.Decimal
	}
	if req.CommissionVyapariRatePerKg.Valid {
		rates.VyapariRatePerKg = req.CommissionVyapariRatePerKg.Decimal
	}

	items := make([]Ledger.ItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = Ledger.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return Ledger.Draft{
		KisanID:           req.KisanID,
		VyapariID:         req.VyapariID,
		Date:              date,
		Items:             items,
		Rates:             rates,
		AmountPaidKisan:   req.AmountPaidKisan,
		AmountPaidVyapari: req.AmountPaidVyapari,
		Type:              req.TransactionType,
		Notes:             req.Notes,
	}, nil
}

// PreviewTransaction computes every derived field without storing anything.
func (s *LedgerService) PreviewTransaction(ctx context.Context, req Models.TransactionRequest) (*Models.Transaction, error) {
	d, err := s.draft(ctx, req)
	if err != nil {
		return nil, err
	}
	return Ledger.PrepareTransaction(d)
}

// RecordTransaction prepares and stores a transaction, moving both parties'
// bakaya atomically with the insert.
func (s *LedgerService) RecordTransaction(ctx context.Context, req Models.TransactionRequest, userID uint) (*Models.Transaction, error) {
	txn, err := s.PreviewTransaction(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateTransaction(ctx, txn, userID); err != nil {
		return nil, err
	}

	stored, err := s.store.GetTransaction(ctx, txn.ID)
	if err != nil {
		return nil, err
	}

	e := Events.New(Events.TransactionRecorded)
	e.TransactionID = stored.ID
	e.KisanID = stored.KisanID
	e.VyapariID = stored.VyapariID
	e.Amount = stored.SubTotal
	s.afterWrite(ctx, e)

	if s.threshold.IsPositive() && stored.SubTotal.GreaterThanOrEqual(s.threshold) {
		s.notifyLater(largeTransactionNotice(stored))
	}
	return stored, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id uint, userID uint) (*Models.Transaction, error) {
	txn, err := s.store.DeleteTransaction(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	e := Events.New(Events.TransactionDeleted)
	e.TransactionID = txn.ID
	e.KisanID = txn.KisanID
	e.VyapariID = txn.VyapariID
	e.Amount = txn.SubTotal
	s.afterWrite(ctx, e)
	return txn, nil
}

// BatchEditTransactions applies an administrative patch to many
// transactions. Balances are untouched since no monetary field can change.
func (s *LedgerService) BatchEditTransactions(ctx context.Context, req Models.BatchEditRequest, userID uint) (int64, error) {
	affected, err := s.store.BatchUpdateTransactions(ctx, req.IDs, req.Patch, userID)
	if err != nil {
		return 0, err
	}

	e := Events.New(Events.TransactionsEdited)
	e.Count = int(affected)
	s.afterWrite(ctx, e)
	return affected, nil
}

func (s *LedgerService) RecordPayment(ctx context.Context, req Models.PaymentRequest, userID uint) (*Models.Payment, error) {
	if !req.PartyType.Valid() {
		return nil, Ledger.Invalid("party_type", "must be kisan or vyapari")
	}
	date, err := Ledger.ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	p := &Models.Payment{
		PartyID:       req.PartyID,
		PartyType:     req.PartyType,
		Amount:        req.Amount,
		Mode:          req.Mode,
		PaymentDate:   date,
		TransactionID: req.TransactionID,
		Reference:     req.Reference,
		Notes:         req.Notes,
	}
	if err := s.store.CreatePayment(ctx, p, userID); err != nil {
		return nil, err
	}

	stored, err := s.store.GetPayment(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	e := Events.New(Events.PaymentRecorded)
	e.PaymentID = stored.ID
	e.PartyID = stored.PartyID
	e.PartyType = string(stored.PartyType)
	e.Amount = stored.Amount
	s.afterWrite(ctx, e)
	return stored, nil
}

func (s *LedgerService) DeletePayment(ctx context.Context, id uint, userID uint) (*Models.Payment, error) {
	p, err := s.store.DeletePayment(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	e := Events.New(Events.PaymentDeleted)
	e.PaymentID = p.ID
	e.PartyID = p.PartyID
	e.PartyType = string(p.PartyType)
	e.Amount = p.Amount
	s.afterWrite(ctx, e)
	return p, nil
}

// Invalidate drops every cached report. Writes that bypass the service,
// such as party or settings edits, call it directly.
func (s *LedgerService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Purge(ctx); err != nil {
		s.log.Warn().Err(err).Msg("cache purge failed")
	}
}

// afterWrite runs once a write is committed. Failures here never undo the
// write, they are logged.
func (s *LedgerService) afterWrite(ctx context.Context, e Events.Event) {
	s.Invalidate(ctx)
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Error().Err(err).Str("event", e.Type).Msg("failed to publish ledger event")
	}
}

func (s *LedgerService) notify(ctx context.Context, n Notifications.Notice) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Error().Err(err).Str("title", n.Title).Msg("notification failed")
	}
}

// notifyLater sends n off the caller's path. The request context is not
// used since it ends with the response.
func (s *LedgerService) notifyLater(n Notifications.Notice) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		s.notify(ctx, n)
	}()
}

// Wait blocks until background notices have been sent.
func (s *LedgerService) Wait() {
	s.pending.Wait()
}
