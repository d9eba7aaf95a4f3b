package Config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	// HTTP Server
	Port        string
	CORSOrigins string
	JWTSecret   string

	// Database
	DBDriver    string
	DatabaseURL string

	// Bootstrap admin, created when the users table is empty
	AdminEmail    string
	AdminPassword string

	// Ledger defaults, rates are fractions (0.02 = 2%)
	DefaultCommissionKisanRate        decimal.Decimal
	DefaultCommissionVyapariRatePerKg decimal.Decimal
	LargeTransactionThreshold         decimal.Decimal
	DefaultMandiName                  string
	DefaultMandiAddress               string

	// TimeZone names the zone the mandi's trading day follows. Location is
	// set from it by Validate.
	TimeZone string
	Location *time.Location

	// Logging
	LogLevel  string
	LogPretty bool

	// Cache
	RedisURL  string
	CacheSize int
	CacheTTL  time.Duration

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Notifications
	SlackToken              string
	SlackChannel            string
	FirebaseCredentialsFile string
	SMTPHost                string
	SMTPPort                int
	SMTPUsername            string
	SMTPPassword            string
	SMTPFrom                string
	DigestEmails            []string

	// Market rates scraper
	MarketRatesURL   string
	MarketRatesTable string

	// Cron schedules, empty disables the job
	CronDailySummary string
	CronReconcile    string
	CronPriceStats   string
	CronMarketRates  string
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "3000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabaseURL: getEnv("DATABASE_URL", "mandi.db"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@mandi.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		DefaultCommissionKisanRate:        getEnvDecimal("DEFAULT_COMMISSION_KISAN_RATE", decimal.RequireFromString("0.02")),
		DefaultCommissionVyapariRatePerKg: getEnvDecimal("DEFAULT_COMMISSION_VYAPARI_RATE_PER_KG", decimal.RequireFromString("0.40")),
		LargeTransactionThreshold:         getEnvDecimal("LARGE_TRANSACTION_THRESHOLD", decimal.NewFromInt(100000)),
		DefaultMandiName:                  getEnv("MANDI_NAME", "Mandi"),
		DefaultMandiAddress:               getEnv("MANDI_ADDRESS", ""),

		TimeZone: getEnv("TIMEZONE", "Asia/Kolkata"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),

		RedisURL:  getEnv("REDIS_URL", ""),
		CacheSize: getEnvInt("CACHE_SIZE", 512),
		CacheTTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "mandi"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "mandi_ledger_events"),

		SlackToken:              getEnv("SLACK_BOT_TOKEN", ""),
		SlackChannel:            getEnv("SLACK_CHANNEL", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		SMTPHost:                getEnv("SMTP_HOST", ""),
		SMTPPort:                getEnvInt("SMTP_PORT", 587),
		SMTPUsername:            getEnv("SMTP_USERNAME", ""),
		SMTPPassword:            getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:                getEnv("SMTP_FROM", ""),
		DigestEmails:            getEnvList("DIGEST_EMAILS"),

		MarketRatesURL:   getEnv("MARKET_RATES_URL", ""),
		MarketRatesTable: getEnv("MARKET_RATES_TABLE", "table"),

		CronDailySummary: getEnv("CRON_DAILY_SUMMARY", "0 0 21 * * *"),
		CronReconcile:    getEnv("CRON_RECONCILE", "0 30 2 * * *"),
		CronPriceStats:   getEnv("CRON_PRICE_STATS", "0 0 3 * * *"),
		CronMarketRates:  getEnv("CRON_MARKET_RATES", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		errors = append(errors, fmt.Sprintf("invalid DB driver '%s': must be one of [sqlite postgres mysql]", c.DBDriver))
	}
	if c.DatabaseURL == "" {
		errors = append(errors, "DATABASE_URL cannot be empty")
	}

	if len(c.JWTSecret) < 16 {
		errors = append(errors, "JWT_SECRET must be at least 16 characters")
	}

	if c.DefaultCommissionKisanRate.IsNegative() || c.DefaultCommissionKisanRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		errors = append(errors, fmt.Sprintf("invalid kisan commission rate %s: must be a fraction in [0, 1)", c.DefaultCommissionKisanRate))
	}
	if c.DefaultCommissionVyapariRatePerKg.IsNegative() {
		errors = append(errors, fmt.Sprintf("invalid vyapari commission rate %s: must not be negative", c.DefaultCommissionVyapariRatePerKg))
	}

	if loc, err := time.LoadLocation(c.TimeZone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid TIMEZONE '%s': %v", c.TimeZone, err))
	} else {
		c.Location = loc
	}

	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RedisURL != "" {
		if parsedURL, err := url.Parse(c.RedisURL); err != nil || (parsedURL.Scheme != "redis" && parsedURL.Scheme != "rediss") {
			errors = append(errors, fmt.Sprintf("invalid Redis URL '%s': must use redis:// or rediss://", c.RedisURL))
		}
	}

	if c.SlackToken != "" && c.SlackChannel == "" {
		errors = append(errors, "SLACK_CHANNEL is required when SLACK_BOT_TOKEN is set")
	}

	if c.FirebaseCredentialsFile != "" {
		if _, err := os.Stat(c.FirebaseCredentialsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("firebase credentials file does not exist: %s", c.FirebaseCredentialsFile))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
