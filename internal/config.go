package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// Public base URL of the API
	BaseURL string

	// Per-company request budget for /api/ routes
	APIRateLimit  int
	APIRateWindow time.Duration

	// Per-client-IP budget, spent before the API key is looked up
	APIIPRateLimit int

	// Honour X-Forwarded-For / X-Real-IP. Only enable behind a proxy that
	// overwrites them.
	TrustProxyHeaders bool

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string

	// How long in-flight requests get to finish on SIGTERM
	ShutdownTimeout time.Duration
}

// IsDevelopment reports whether the server runs with development defaults
// (text logs, no HSTS).
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		APIRateLimit:  getEnvInt("API_RATE_LIMIT", 120),
		APIRateWindow: getEnvDuration("API_RATE_WINDOW", time.Minute),

		APIIPRateLimit:    getEnvInt("API_IP_RATE_LIMIT", 300),
		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	// Required
	cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
	if cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.APIRateLimit <= 0 {
		return nil, fmt.Errorf("API_RATE_LIMIT must be positive, got: %d", cfg.APIRateLimit)
	}
	if cfg.APIIPRateLimit <= 0 {
		return nil, fmt.Errorf("API_IP_RATE_LIMIT must be positive, got: %d", cfg.APIIPRateLimit)
	}
	if cfg.APIRateWindow <= 0 {
		return nil, fmt.Errorf("API_RATE_WINDOW must be positive, got: %s", cfg.APIRateWindow)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
