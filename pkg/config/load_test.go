package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/travelsync/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, time.Hour, cfg.Exchange.TTL)
	assert.Equal(t, "travelsync.db", cfg.Offline.Path)
	assert.Equal(t, 30*time.Second, cfg.Offline.SyncInterval)
	assert.Equal(t, uint64(3), cfg.Offline.SyncRetries)
	assert.Equal(t, 10*time.Second, cfg.Currency.HTTPTimeout)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("EXCHANGE_CACHE_TTL", "30m")
	t.Setenv("OFFLINE_PATH", "/tmp/bookings.db")
	t.Setenv("CURRENCY_API_URL", "https://rates.example.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 30*time.Minute, cfg.Exchange.TTL)
	assert.Equal(t, "/tmp/bookings.db", cfg.Offline.Path)
	assert.Equal(t, "https://rates.example.com", cfg.Currency.BaseURL)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
}
