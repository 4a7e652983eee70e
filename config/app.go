package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds all process-level settings. It is loaded once at startup;
// the demo and lightweight switches are never re-read per request.
type AppConfig struct {
	Host string
	Port string

	AllowedOrigins []string

	// MaxConcurrentRequests caps simultaneous outbound site fetches.
	MaxConcurrentRequests int

	// RequestTimeout bounds the fast (static document) fetch path.
	RequestTimeout time.Duration
	// RenderTimeout bounds page navigation on the rendered path.
	RenderTimeout time.Duration
	// SelectorTimeout bounds the wait for the listing container to appear
	// after navigation.
	SelectorTimeout time.Duration

	// LightweightMode disables the rendered-fetch path entirely and shortens
	// the fast-path timeout. Meant for constrained deployments.
	LightweightMode bool
	// DemoMode backfills zero-result sites with placeholder listings.
	DemoMode bool
	// Development enables detailed error messages in API responses.
	Development bool

	// RateLimit is the per-client request rate for the API, in requests/second.
	RateLimit float64

	// BrowserRecycleSchedule is a cron spec for restarting the shared
	// browser session. Empty disables recycling.
	BrowserRecycleSchedule string
	// RateReloadSchedule is a cron spec for re-reading exchange rate
	// overrides. Empty disables reloading.
	RateReloadSchedule string
}

const lightweightRequestTimeout = 5 * time.Second

// Load builds the application configuration from environment variables.
func Load() *AppConfig {
	cfg := &AppConfig{
		Host:                   getEnv("HOST", "0.0.0.0"),
		Port:                   getEnv("PORT", "8080"),
		AllowedOrigins:         splitList(getEnv("ALLOWED_ORIGINS", "*")),
		MaxConcurrentRequests:  getEnvInt("MAX_CONCURRENT_REQUESTS", 5),
		RequestTimeout:         getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		RenderTimeout:          getEnvDuration("RENDER_TIMEOUT", 30*time.Second),
		SelectorTimeout:        getEnvDuration("SELECTOR_TIMEOUT", 10*time.Second),
		LightweightMode:        getEnvBool("LIGHTWEIGHT_MODE", false),
		DemoMode:               getEnvBool("DEMO_MODE", false),
		Development:            getEnv("APP_ENV", "production") == "development",
		RateLimit:              getEnvFloat("RATE_LIMIT", 10),
		BrowserRecycleSchedule: getEnv("BROWSER_RECYCLE_SCHEDULE", "0 */6 * * *"),
		RateReloadSchedule:     getEnv("RATE_RELOAD_SCHEDULE", ""),
	}

	if cfg.Development {
		cfg.DemoMode = true
	}
	if cfg.LightweightMode {
		cfg.RequestTimeout = lightweightRequestTimeout
	}

	return cfg
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
