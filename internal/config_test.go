package internal

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnv clears every config key so a stray .env or shell variable cannot
// leak into a case, then applies the given values.
func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range []string{
		"ENV", "PORT", "LOG_LEVEL", "DATABASE_URL", "BASE_URL",
		"API_RATE_LIMIT", "API_RATE_WINDOW", "API_IP_RATE_LIMIT", "TRUST_PROXY_HEADERS",
		"METRICS_USERNAME", "METRICS_PASSWORD", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
	for k, v := range values {
		t.Setenv(k, v)
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"DATABASE_URL": "postgres://localhost/poolcheck"})

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 120, cfg.APIRateLimit)
	assert.Equal(t, time.Minute, cfg.APIRateWindow)
	assert.Equal(t, 300, cfg.APIIPRateLimit)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.MetricsUsername)
}

func TestNewConfig_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"ENV":                 "production",
		"PORT":                "9090",
		"DATABASE_URL":        "postgres://db/poolcheck",
		"API_RATE_LIMIT":      "30",
		"API_RATE_WINDOW":     "10s",
		"API_IP_RATE_LIMIT":   "60",
		"TRUST_PROXY_HEADERS": "true",
		"SHUTDOWN_TIMEOUT":    "5s",
		"METRICS_USERNAME":    "prom",
		"METRICS_PASSWORD":    "scrape",
	})

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30, cfg.APIRateLimit)
	assert.Equal(t, 10*time.Second, cfg.APIRateWindow)
	assert.Equal(t, 60, cfg.APIIPRateLimit)
	assert.True(t, cfg.TrustProxyHeaders)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "prom", cfg.MetricsUsername)
}

func TestNewConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{}},
		{"zero rate limit", map[string]string{"DATABASE_URL": "postgres://x", "API_RATE_LIMIT": "0"}},
		{"zero ip rate limit", map[string]string{"DATABASE_URL": "postgres://x", "API_IP_RATE_LIMIT": "0"}},
		{"negative rate window", map[string]string{"DATABASE_URL": "postgres://x", "API_RATE_WINDOW": "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}

func TestNewConfig_UnparseableValuesFallBack(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL":        "postgres://x",
		"PORT":                "eighty",
		"API_RATE_WINDOW":     "soon",
		"TRUST_PROXY_HEADERS": "maybe",
	})

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, time.Minute, cfg.APIRateWindow)
	assert.False(t, cfg.TrustProxyHeaders)
}

func TestNewLogger(t *testing.T) {
	t.Run("development is text", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, "development", "info").Info("water test recorded", "overall", "compliant")
		assert.Contains(t, buf.String(), "overall=compliant")
	})

	t.Run("production is json", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, "production", "info").Info("water test recorded", "overall", "violation")
		assert.Contains(t, buf.String(), `"overall":"violation"`)
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, "production", "warn").Info("hidden")
		assert.Empty(t, buf.String())
	})
}
