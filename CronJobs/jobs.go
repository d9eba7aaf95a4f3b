package CronJobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"Mandi/Services"
)

// Schedules are six-field cron specs (seconds first). An empty spec leaves
// the job out.
type Schedules struct {
	DailySummary string
	Reconcile    string
	PriceStats   string
	MarketRates  string
}

// Scheduler runs the ledger's periodic jobs.
type Scheduler struct {
	cron    *cron.Cron
	svc     *Services.LedgerService
	rates   Services.RateSource
	log     zerolog.Logger
	now     func() time.Time
	timeout time.Duration
	jobs    map[string]cron.EntryID
}

// NewScheduler creates a scheduler. rates may be nil, in which case the
// market rates job is never registered.
func NewScheduler(svc *Services.LedgerService, rates Services.RateSource, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(svc.Location())),
		svc:     svc,
		rates:   rates,
		log:     log.With().Str("component", "cron").Logger(),
		now:     time.Now,
		timeout: 5 * time.Minute,
		jobs:    make(map[string]cron.EntryID),
	}
}

// Register adds every job with a schedule. It fails on the first invalid
// spec without starting anything.
func (s *Scheduler) Register(sch Schedules) error {
	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"daily_summary", sch.DailySummary, s.RunDailySummary},
		{"reconcile", sch.Reconcile, s.RunReconcile},
		{"price_stats", sch.PriceStats, s.RunPriceStats},
		{"market_rates", sch.MarketRates, s.RunMarketRates},
	}
	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		if job.name == "market_rates" && s.rates == nil {
			s.log.Warn().Msg("market rates schedule set but no source configured")
			continue
		}
		id, err := s.cron.AddFunc(job.spec, s.wrap(job.name, job.run))
		if err != nil {
			return fmt.Errorf("schedule %s %q: %w", job.name, job.spec, err)
		}
		s.jobs[job.name] = id
	}
	return nil
}

// Jobs returns the names of the registered jobs.
func (s *Scheduler) Jobs() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Strs("jobs", s.Jobs()).Msg("scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) wrap(name string, run func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		err := run(ctx)
		event := s.log.Info()
		if err != nil {
			event = s.log.Error().Err(err)
		}
		event.Str("job", name).Dur("took", time.Since(start)).Msg("job finished")
	}
}

// RunDailySummary sends the digest for the current day.
func (s *Scheduler) RunDailySummary(ctx context.Context) error {
	summary, err := s.svc.SendDailyDigest(ctx, s.svc.LocalDay(s.now()))
	if err != nil {
		return err
	}
	s.log.Info().
		Int("transactions", summary.TransactionCount).
		Str("commission", summary.TotalCommission.StringFixed(2)).
		Msg("daily summary sent")
	return nil
}

// RunReconcile only reports drift. Fixing balances stays a manual admin
// action.
func (s *Scheduler) RunReconcile(ctx context.Context) error {
	report, err := s.svc.Reconcile(ctx, false, 0)
	if err != nil {
		return err
	}
	if len(report.Drifts) > 0 {
		s.log.Warn().Int("parties", report.Parties).Int("drifts", len(report.Drifts)).Msg("bakaya drift found")
	}
	return nil
}

func (s *Scheduler) RunPriceStats(ctx context.Context) error {
	n, err := s.svc.RefreshPriceStats(ctx, nil)
	if err != nil {
		return err
	}
	s.log.Debug().Int("products", n).Msg("price stats refreshed")
	return nil
}

func (s *Scheduler) RunMarketRates(ctx context.Context) error {
	if s.rates == nil {
		return nil
	}
	rates, err := s.svc.RefreshMarketRates(ctx, s.rates, s.svc.LocalDay(s.now()))
	if err != nil {
		return err
	}
	s.log.Info().Int("rates", len(rates)).Str("source", s.rates.Source()).Msg("market rates refreshed")
	return nil
}
