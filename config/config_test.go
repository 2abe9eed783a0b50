package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	require.Equal(t, "8080", c.AppPort)
	require.Equal(t, "release", c.GinMode)
	require.Equal(t, "mysql", c.StorageDriver)
	require.Equal(t, "https://ip-api.com", c.GeoAPIBaseURL)
	require.Equal(t, 24, c.GeoCacheTTLHrs)
	require.Equal(t, []string{"*"}, c.AllowedOrigins)
	require.Equal(t, 60, c.RateLimitPerMinute)
	require.Equal(t, "info", c.LogLevel)
}

func TestApplyDefaultsKeepsExistingValues(t *testing.T) {
	c := AppConfig{AppPort: "9090", StorageDriver: "memory", RateLimitPerMinute: 5}
	applyDefaults(&c)

	require.Equal(t, "9090", c.AppPort)
	require.Equal(t, "memory", c.StorageDriver)
	require.Equal(t, 5, c.RateLimitPerMinute)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9191")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("GEO_API_BASE_URL", "http://127.0.0.1:9999")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("LOG_COMPRESS", "true")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	require.Equal(t, "9191", c.AppPort)
	require.Equal(t, "memory", c.StorageDriver)
	require.Equal(t, "http://127.0.0.1:9999", c.GeoAPIBaseURL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	require.Equal(t, 120, c.RateLimitPerMinute)
	require.True(t, c.LogCompress)
}

func TestSplitAndTrim(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, splitAndTrim(" a ,, b "))
	require.Empty(t, splitAndTrim(" , "))
}
