package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-app/halcyon/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 6060, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "sqlite", cfg.Storage.StorageEngine)
	assert.Equal(t, "./data", cfg.Storage.DataPath)
	assert.Equal(t, 1000, cfg.Engine.MaxHistory)
	assert.Equal(t, 512, cfg.Engine.CacheSize)
	assert.Equal(t, "development", cfg.Security.SecurityMode)
	assert.Equal(t, 10, cfg.Security.RateLimitPerSecond)
	assert.Equal(t, 20, cfg.Security.RateLimitBurst)
	assert.Empty(t, cfg.Classifier.ServiceURL)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("HALCYON_PORT", "8080")
	t.Setenv("HALCYON_STORAGE_ENGINE", "postgres")
	t.Setenv("HALCYON_POSTGRES_DSN", "postgres://localhost/halcyon")
	t.Setenv("HALCYON_CLASSIFIER_URL", "http://localhost:9000")
	t.Setenv("HALCYON_WEBHOOK_HIGH", "https://hooks.example.com/high")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.StorageEngine)
	assert.Equal(t, "postgres://localhost/halcyon", cfg.Storage.PostgresDSN)
	assert.Equal(t, "http://localhost:9000", cfg.Classifier.ServiceURL)
	assert.Equal(t, map[types.AlertLevel]string{
		types.AlertLevelHigh: "https://hooks.example.com/high",
	}, cfg.Alerts.WebhookURLs())
}

func TestLoadConfigInvalidIntFallsBack(t *testing.T) {
	t.Setenv("HALCYON_PORT", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Setenv("HALCYON_STORAGE_ENGINE", "mongodb")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("HALCYON_STORAGE_ENGINE", "postgres")
	t.Setenv("HALCYON_POSTGRES_DSN", "")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("HALCYON_STORAGE_ENGINE", "sqlite")
	t.Setenv("HALCYON_SECURITY_MODE", "production")
	t.Setenv("HALCYON_API_TOKEN", "")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("HALCYON_API_TOKEN", "secret")
	_, err = LoadConfig()
	assert.NoError(t, err)
}
