package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"Mandi/Cache"
	"Mandi/Config"
	"Mandi/CronJobs"
	"Mandi/Events"
	"Mandi/FiberConfig"
	"Mandi/Logger"
	"Mandi/MarketRates"
	"Mandi/Models"
	"Mandi/Notifications"
	"Mandi/Services"
	"Mandi/Store"
	"Mandi/middleware"
)

func main() {
	cfg := Config.Load()

	log := Logger.New(Logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	Logger.SetGlobalLogger(log)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := Models.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	store := Store.New(db, Models.SystemSettings{
		CommissionKisanRate:        cfg.DefaultCommissionKisanRate,
		CommissionVyapariRatePerKg: cfg.DefaultCommissionVyapariRatePerKg,
		MandiName:                  cfg.DefaultMandiName,
		MandiAddress:               cfg.DefaultMandiAddress,
	})
	if err := seedAdmin(ctx, store, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}

	cache := newCache(ctx, cfg, log)
	defer cache.Close()
	events := newPublisher(cfg, log)
	defer events.Close()
	notifier := newNotifier(ctx, cfg, store, log)

	svc := Services.NewLedgerService(store, cache, events, notifier, Services.Options{
		LargeTransactionThreshold: cfg.LargeTransactionThreshold,
		Location:                  cfg.Location,
		Logger:                    log,
	})
	defer svc.Wait()

	var rates Services.RateSource
	if cfg.MarketRatesURL != "" {
		rates = MarketRates.NewScraper(cfg.MarketRatesURL, cfg.MarketRatesTable)
	}

	scheduler := CronJobs.NewScheduler(svc, rates, log)
	if err := scheduler.Register(CronJobs.Schedules{
		DailySummary: cfg.CronDailySummary,
		Reconcile:    cfg.CronReconcile,
		PriceStats:   cfg.CronPriceStats,
		MarketRates:  cfg.CronMarketRates,
	}); err != nil {
		log.Fatal().Err(err).Msg("cron")
	}
	scheduler.Start()
	defer scheduler.Stop()

	app := FiberConfig.NewApp(FiberConfig.Server{
		Service:     svc,
		Auth:        middleware.NewAuth(cfg.JWTSecret, store),
		Rates:       rates,
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("db", cfg.DBDriver).Msg("server up")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("listen")
	}
}

// seedAdmin creates the first admin when the users table is empty.
func seedAdmin(ctx context.Context, store *Store.Store, cfg *Config.Config, log zerolog.Logger) error {
	n, err := store.CountUsers(ctx)
	if err != nil || n > 0 {
		return err
	}
	if cfg.AdminPassword == "" {
		log.Warn().Msg("no users and ADMIN_PASSWORD is empty, nobody can log in")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := Models.User{Name: "Admin", Email: cfg.AdminEmail, Password: hash, Permission: Models.PermAdmin}
	if err := store.CreateUser(ctx, &admin); err != nil {
		return err
	}
	log.Info().Str("email", admin.Email).Msg("admin user created")
	return nil
}

func newCache(ctx context.Context, cfg *Config.Config, log zerolog.Logger) Cache.Cache {
	if cfg.RedisURL != "" {
		redis, err := Cache.NewRedis(ctx, cfg.RedisURL, "mandi", cfg.CacheTTL)
		if err == nil {
			return redis
		}
		log.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
	}
	return Cache.NewMemory(cfg.CacheSize, cfg.CacheTTL)
}

func newPublisher(cfg *Config.Config, log zerolog.Logger) Events.Publisher {
	if cfg.AMQPURL == "" {
		return Events.Noop{}
	}
	publisher, err := Events.NewAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, log)
	if err != nil {
		log.Warn().Err(err).Msg("amqp unavailable, ledger events disabled")
		return Events.Noop{}
	}
	return publisher
}

func newNotifier(ctx context.Context, cfg *Config.Config, store *Store.Store, log zerolog.Logger) Notifications.Notifier {
	var notifiers Notifications.Multi
	if cfg.SlackToken != "" {
		notifiers = append(notifiers, Notifications.NewSlack(cfg.SlackToken, cfg.SlackChannel))
	}
	if cfg.FirebaseCredentialsFile != "" {
		fcm, err := Notifications.NewFCM(ctx, cfg.FirebaseCredentialsFile, store)
		if err != nil {
			log.Warn().Err(err).Msg("firebase unavailable, push notifications disabled")
		} else {
			notifiers = append(notifiers, fcm)
		}
	}
	if cfg.SMTPHost != "" && len(cfg.DigestEmails) > 0 {
		notifiers = append(notifiers, Notifications.NewEmail(Notifications.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, cfg.DigestEmails))
	}
	if len(notifiers) == 0 {
		return Notifications.Noop{}
	}
	return notifiers
}
