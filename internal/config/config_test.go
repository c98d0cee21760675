package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "logs", "relay.log"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "3023", cfg.Port)
	assert.Equal(t, "0.0.0.0:3023", cfg.ListenAddr())
	assert.Equal(t, 2*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 3, cfg.RateLimitMax)
	assert.Equal(t, "config.yaml", cfg.AppsFile)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "relay.log"))
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8080")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_MAX", "10")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr())
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 10, cfg.RateLimitMax)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsInvalidLimits(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "relay.log"))
	t.Setenv("RATE_LIMIT_MAX", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLogConfig(t *testing.T) {
	cfg := &Config{LogLevel: "warn", LogFile: "/tmp/relay.log", RedactPII: true}

	lc := cfg.LogConfig()
	require.NoError(t, lc.Validate())
	assert.Equal(t, "warn", lc.Level)
	assert.Equal(t, "/tmp/relay.log", lc.File)
	assert.True(t, lc.RedactPII)
}
