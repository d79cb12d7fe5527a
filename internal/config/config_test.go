package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10000, cfg.Port)
	assert.Equal(t, "file", cfg.StoreDriver)
	assert.Equal(t, "1234", cfg.AdminPIN)
	assert.Equal(t, 20, cfg.Tables)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TABLES", "35")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 35, cfg.Tables)
}
