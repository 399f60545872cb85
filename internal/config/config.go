// Package config provides configuration management for Halcyon.
// It loads settings from environment variables with the HALCYON_ prefix
// and provides sensible defaults for all configuration options.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/halcyon-app/halcyon/pkg/types"
)

// Config holds all configuration settings for the Halcyon application.
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Engine     EngineConfig
	Classifier ClassifierConfig
	Alerts     AlertsConfig
	Security   SecurityConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    // Server port (default: 6060)
	Host string // Server host (default: 127.0.0.1)
}

// StorageConfig contains database and storage configuration.
type StorageConfig struct {
	StorageEngine string // Storage engine type: sqlite, postgres (default: sqlite)
	DataPath      string // Path to data directory for sqlite (default: ./data)
	PostgresDSN   string // Postgres connection string, required for postgres
}

// EngineConfig tunes the profile engine.
type EngineConfig struct {
	MaxHistory int // Emotion records kept per profile (default: 1000)
	CacheSize  int // Profiles held in the in-memory cache (default: 512)
}

// ClassifierConfig contains remote classifier configuration. An empty URL
// means the built-in heuristic classifier is used.
type ClassifierConfig struct {
	ServiceURL     string // Base URL of the classification service
	TimeoutSeconds int    // Per-request timeout (default: 5)
}

// AlertsConfig contains alert rule and notification configuration.
type AlertsConfig struct {
	RulesPath string // Path to a YAML rule override file, empty for built-ins

	// Webhook URLs per severity. Empty URLs disable delivery for that level.
	WebhookLow      string
	WebhookMedium   string
	WebhookHigh     string
	WebhookCritical string
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	SecurityMode string // Security mode: development, production (default: development)
	APIToken     string // API authentication token, required in production

	RateLimitPerSecond int // Requests per second per server (default: 10)
	RateLimitBurst     int // Burst allowance (default: 20)
}

// WebhookURLs returns the severity→URL map for the webhook notifier,
// skipping unset levels.
func (c *AlertsConfig) WebhookURLs() map[types.AlertLevel]string {
	urls := map[types.AlertLevel]string{}
	for level, url := range map[types.AlertLevel]string{
		types.AlertLevelLow:      c.WebhookLow,
		types.AlertLevelMedium:   c.WebhookMedium,
		types.AlertLevelHigh:     c.WebhookHigh,
		types.AlertLevelCritical: c.WebhookCritical,
	} {
		if url != "" {
			urls[level] = url
		}
	}
	return urls
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the HALCYON_ prefix.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("HALCYON_PORT", 6060),
			Host: getEnv("HALCYON_HOST", "127.0.0.1"),
		},
		Storage: StorageConfig{
			StorageEngine: getEnv("HALCYON_STORAGE_ENGINE", "sqlite"),
			DataPath:      getEnv("HALCYON_DATA_PATH", "./data"),
			PostgresDSN:   getEnv("HALCYON_POSTGRES_DSN", ""),
		},
		Engine: EngineConfig{
			MaxHistory: getEnvInt("HALCYON_MAX_HISTORY", 1000),
			CacheSize:  getEnvInt("HALCYON_CACHE_SIZE", 512),
		},
		Classifier: ClassifierConfig{
			ServiceURL:     getEnv("HALCYON_CLASSIFIER_URL", ""),
			TimeoutSeconds: getEnvInt("HALCYON_CLASSIFIER_TIMEOUT", 5),
		},
		Alerts: AlertsConfig{
			RulesPath:       getEnv("HALCYON_RULES_PATH", ""),
			WebhookLow:      getEnv("HALCYON_WEBHOOK_LOW", ""),
			WebhookMedium:   getEnv("HALCYON_WEBHOOK_MEDIUM", ""),
			WebhookHigh:     getEnv("HALCYON_WEBHOOK_HIGH", ""),
			WebhookCritical: getEnv("HALCYON_WEBHOOK_CRITICAL", ""),
		},
		Security: SecurityConfig{
			SecurityMode:       getEnv("HALCYON_SECURITY_MODE", "development"),
			APIToken:           getEnv("HALCYON_API_TOKEN", ""),
			RateLimitPerSecond: getEnvInt("HALCYON_RATE_LIMIT_RPS", 10),
			RateLimitBurst:     getEnvInt("HALCYON_RATE_LIMIT_BURST", 20),
		},
	}

	if cfg.Storage.StorageEngine != "sqlite" && cfg.Storage.StorageEngine != "postgres" {
		return nil, fmt.Errorf("config: unknown storage engine %q", cfg.Storage.StorageEngine)
	}
	if cfg.Storage.StorageEngine == "postgres" && cfg.Storage.PostgresDSN == "" {
		return nil, fmt.Errorf("config: HALCYON_POSTGRES_DSN is required for the postgres engine")
	}
	if cfg.Security.SecurityMode == "production" && cfg.Security.APIToken == "" {
		return nil, fmt.Errorf("config: HALCYON_API_TOKEN is required in production mode")
	}

	return cfg, nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. If the environment variable exists but cannot be parsed as an
// integer, it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
