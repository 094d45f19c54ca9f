package config

import (
	"testing"
	"time"

	"dj-booking/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "dj")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "bookings")
	t.Setenv("REDIS_ADDR", "localhost:6379")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Redis.StateTTL)
	assert.EqualValues(t, 400, cfg.Pricing.BaseFee)
	assert.EqualValues(t, 500, cfg.Pricing.AnniversaryParty)
	assert.Equal(t, "usd", cfg.Payment.Currency)
	assert.False(t, cfg.HTTP.TrustProxy)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
	assert.Equal(t, "host=localhost port=5432 user=dj password=secret dbname=bookings sslmode=disable", cfg.Database.DSN())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BotNeedsAdmins(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ADMIN_IDS", "10,20")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, cfg.Admin.IDs)
}

func TestConfig_RateTable(t *testing.T) {
	setRequired(t)
	t.Setenv("PRICING_VOW_RENEWAL", "1000")
	t.Setenv("PRICING_LIGHTING", "120")

	cfg, err := Load()
	require.NoError(t, err)

	table, err := cfg.RateTable(map[pricing.EventType]int64{
		pricing.Prom:             550,
		pricing.AnniversaryParty: 800,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 120, table.Rates().Lighting)

	price, _ := table.PackagePrice(pricing.Prom)
	assert.EqualValues(t, 550, price)
	price, _ = table.PackagePrice(pricing.VowRenewal)
	assert.EqualValues(t, 1000, price)
	price, _ = table.PackagePrice(pricing.AnniversaryParty)
	assert.EqualValues(t, 500, price)
	price, _ = table.PackagePrice(pricing.WeddingCeremonyAndReception)
	assert.EqualValues(t, 1500, price)
}

func TestConfig_RateTableRejectsNegative(t *testing.T) {
	setRequired(t)
	t.Setenv("PRICING_BASE_FEE", "-1")

	cfg, err := Load()
	require.NoError(t, err)

	_, err = cfg.RateTable(nil)
	assert.ErrorIs(t, err, pricing.ErrInvalidRate)
}

func TestLoad_LogSettings(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DEV", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}
