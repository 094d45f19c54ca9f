package config

import (
	"errors"
	"fmt"
	"time"

	"dj-booking/internal/pricing"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Telegram TelegramConfig
	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Pricing  PricingConfig
	Payment  PaymentConfig
	Admin    AdminConfig
	Reports  ReportsConfig
	Log      LogConfig
}

type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Development bool   `env:"LOG_DEV" envDefault:"false"`
}

type TelegramConfig struct {
	Token string `env:"TELEGRAM_TOKEN"`
	Debug bool   `env:"TELEGRAM_DEBUG" envDefault:"false"`
}

type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes    int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`
	QuoteRateLimit  int64         `env:"HTTP_QUOTE_RATE_LIMIT" envDefault:"30"`
	QuoteRateWindow time.Duration `env:"HTTP_QUOTE_RATE_WINDOW" envDefault:"1m"`
	TrustProxy      bool          `env:"HTTP_TRUST_PROXY" envDefault:"false"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST,required"`
	Port            int           `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER,required"`
	Password        string        `env:"DB_PASSWORD,required"`
	Name            string        `env:"DB_NAME,required"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"2m"`
	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"2m"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,required"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	StateTTL time.Duration `env:"REDIS_STATE_TTL" envDefault:"24h"`
}

// PricingConfig overrides the standard fees. AnniversaryParty and VowRenewal
// are set explicitly because their package price is a business decision.
type PricingConfig struct {
	BaseFee          int64 `env:"PRICING_BASE_FEE" envDefault:"400"`
	Lighting         int64 `env:"PRICING_LIGHTING" envDefault:"100"`
	Photography      int64 `env:"PRICING_PHOTOGRAPHY" envDefault:"150"`
	VideoVisuals     int64 `env:"PRICING_VIDEO_VISUALS" envDefault:"100"`
	AdditionalHour   int64 `env:"PRICING_ADDITIONAL_HOUR" envDefault:"75"`
	BaselineHours    int   `env:"PRICING_BASELINE_HOURS" envDefault:"3"`
	AnniversaryParty int64 `env:"PRICING_ANNIVERSARY_PARTY" envDefault:"500"`
	VowRenewal       int64 `env:"PRICING_VOW_RENEWAL" envDefault:"500"`
}

type PaymentConfig struct {
	IntentURL string        `env:"PAYMENT_INTENT_URL"`
	APIKey    string        `env:"PAYMENT_API_KEY"`
	Currency  string        `env:"PAYMENT_CURRENCY" envDefault:"usd"`
	Timeout   time.Duration `env:"PAYMENT_TIMEOUT" envDefault:"15s"`
}

type AdminConfig struct {
	IDs       []int64 `env:"ADMIN_IDS" envSeparator:","`
	ChannelID int64   `env:"ADMIN_CHANNEL_ID"`
	APIToken  string  `env:"ADMIN_API_TOKEN"`
}

type ReportsConfig struct {
	Dir string `env:"REPORTS_DIR" envDefault:"reports"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Telegram.Token != "" && len(cfg.Admin.IDs) == 0 {
		return nil, errors.New("at least one admin ID is required when the bot is enabled")
	}

	return &cfg, nil
}

// RateTable builds the immutable price list. Package prices loaded from the
// database replace the defaults; the explicitly configured anniversary and
// vow renewal prices are applied last.
func (c *Config) RateTable(stored map[pricing.EventType]int64) (pricing.RateTable, error) {
	rates := pricing.Rates{
		BaseFee:        c.Pricing.BaseFee,
		Lighting:       c.Pricing.Lighting,
		Photography:    c.Pricing.Photography,
		VideoVisuals:   c.Pricing.VideoVisuals,
		AdditionalHour: c.Pricing.AdditionalHour,
		BaselineHours:  c.Pricing.BaselineHours,
	}

	packages := pricing.DefaultPackages()
	for et, price := range stored {
		packages[et] = price
	}
	packages[pricing.AnniversaryParty] = c.Pricing.AnniversaryParty
	packages[pricing.VowRenewal] = c.Pricing.VowRenewal

	table, err := pricing.NewRateTable(rates, packages)
	if err != nil {
		return pricing.RateTable{}, fmt.Errorf("build rate table: %w", err)
	}
	return table, nil
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}
