package Config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CACHE_TTL", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "0.02", cfg.DefaultCommissionKisanRate.String())
	assert.Equal(t, "0.4", cfg.DefaultCommissionVyapariRatePerKg.String())
	assert.Equal(t, "Asia/Kolkata", cfg.TimeZone)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DEFAULT_COMMISSION_KISAN_RATE", "0.035")
	t.Setenv("DIGEST_EMAILS", "a@mandi.in, ,b@mandi.in")
	t.Setenv("LOG_PRETTY", "true")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "0.035", cfg.DefaultCommissionKisanRate.String())
	assert.Equal(t, []string{"a@mandi.in", "b@mandi.in"}, cfg.DigestEmails)
	assert.True(t, cfg.LogPretty)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Load()
		cfg.JWTSecret = "0123456789abcdef"
		cfg.DBDriver = "sqlite"
		cfg.DatabaseURL = "mandi.db"
		cfg.Port = "3000"
		cfg.AMQPURL = ""
		cfg.RedisURL = ""
		cfg.SlackToken = ""
		cfg.FirebaseCredentialsFile = ""
		cfg.TimeZone = "Asia/Kolkata"
		return cfg
	}

	ok := valid()
	require.NoError(t, ok.Validate())
	require.NotNil(t, ok.Location)
	assert.Equal(t, "Asia/Kolkata", ok.Location.String())

	cfg := valid()
	cfg.TimeZone = "Mars/Olympus"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid TIMEZONE")

	cfg = valid()
	cfg.DefaultCommissionKisanRate = decimal.NewFromInt(2)
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kisan commission rate")

	cfg = valid()
	cfg.Port = "http"
	cfg.DBDriver = "oracle"
	cfg.AMQPURL = "http://broker"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "invalid DB driver")
	assert.Contains(t, err.Error(), "AMQP URL scheme")
}
