package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{AddressEnv, TimeoutEnv, LogLevelEnv, StubPortEnv} {
		t.Setenv(k, "")
	}
}

func TestLoadAppConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.Address)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout)
	assert.Equal(t, 0, cfg.Backend.RequestsPerMinute)
	assert.Equal(t, 10, cfg.Dashboard.ClosedTradesLimit)
	assert.Equal(t, 20, cfg.Dashboard.NotificationsLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8000", cfg.Stub.Port)
	assert.Equal(t, "XAUUSD", cfg.Defaults.Symbol)
	assert.Equal(t, 240, cfg.Defaults.SessionMinutes)
}

func TestLoadAppConfig_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "app.yaml")
	content := `
log_level: debug
backend:
  address: http://10.0.0.5:9000/
  timeout: 5s
  requests_per_minute: 120
dashboard:
  closed_trades_limit: 50
defaults:
  symbol: EURUSD
  max_open_trades: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://10.0.0.5:9000/", cfg.Backend.Address)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 120, cfg.Backend.RequestsPerMinute)
	assert.Equal(t, 50, cfg.Dashboard.ClosedTradesLimit)
	assert.Equal(t, 20, cfg.Dashboard.NotificationsLimit)
	assert.Equal(t, "EURUSD", cfg.Defaults.Symbol)
	assert.Equal(t, 7, cfg.Defaults.MaxOpenTrades)
}

func TestLoadAppConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(AddressEnv, "https://bot.example.com")
	t.Setenv(TimeoutEnv, "1500ms")
	t.Setenv(LogLevelEnv, "warn")
	t.Setenv(StubPortEnv, "9100")

	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://bot.example.com", cfg.Backend.Address)
	assert.Equal(t, 1500*time.Millisecond, cfg.Backend.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "9100", cfg.Stub.Port)
}

func TestLoadAppConfig_Invalid(t *testing.T) {
	clearEnv(t)

	t.Run("bad timeout env", func(t *testing.T) {
		t.Setenv(TimeoutEnv, "soon")
		_, err := LoadAppConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad scheme", func(t *testing.T) {
		t.Setenv(AddressEnv, "ftp://127.0.0.1")
		_, err := LoadAppConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.yaml")
		require.NoError(t, os.WriteFile(path, []byte("backend: [1, 2"), 0o644))
		_, err := LoadAppConfig(path)
		assert.Error(t, err)
	})
}
