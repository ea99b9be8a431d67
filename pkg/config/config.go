// Package config holds the environment-driven application configuration.
package config

import (
	"time"
)

// Log configures the slog handler built in cmd.
type Log struct {
	Level  int    `envconfig:"LEVEL" default:"0"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// Redis configures the persistent kv backend for the exchange cache. When URL
// is empty the composition root falls back to the in-memory backend.
type Redis struct {
	URL       string `envconfig:"URL" default:""`
	KeyPrefix string `envconfig:"KEY_PREFIX" default:""`
}

// ExchangeCache configures the currency-conversion cache.
type ExchangeCache struct {
	TTL time.Duration `envconfig:"TTL" default:"1h"`
}

// Offline configures the local booking store and the sync loop.
type Offline struct {
	Path         string        `envconfig:"PATH" default:"travelsync.db"`
	SyncInterval time.Duration `envconfig:"SYNC_INTERVAL" default:"30s"`
	SyncRetries  uint64        `envconfig:"SYNC_RETRIES" default:"3"`
}

// CurrencyAPI configures the upstream conversion endpoint.
type CurrencyAPI struct {
	APIKey      string        `envconfig:"API_KEY"`
	BaseURL     string        `envconfig:"API_URL"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

// BookingsAPI configures the remote bookings service.
type BookingsAPI struct {
	APIKey      string        `envconfig:"API_KEY"`
	BaseURL     string        `envconfig:"API_URL"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
}

// App is the root configuration.
type App struct {
	Env      string         `envconfig:"APP_ENV" default:"development"`
	Log      *Log           `envconfig:"LOG"`
	Redis    *Redis         `envconfig:"REDIS"`
	Exchange *ExchangeCache `envconfig:"EXCHANGE_CACHE"`
	Offline  *Offline       `envconfig:"OFFLINE"`
	Currency *CurrencyAPI   `envconfig:"CURRENCY"`
	Bookings *BookingsAPI   `envconfig:"BOOKINGS"`
}
