package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.GoEnv)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, 1024, cfg.WSMaxConnections)
	assert.Equal(t, 50.0, cfg.WSHandshakeRate)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4jURI)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("CORS_ORIGINS", "https://soc.example.com, https://ops.example.com")
	t.Setenv("WS_MAX_CONNECTIONS", "64")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.GoEnv)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"https://soc.example.com", "https://ops.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 64, cfg.WSMaxConnections)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Run("BadInt", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "not-a-port")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("BadBool", func(t *testing.T) {
		t.Setenv("DB_LOG_SQL", "maybe")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("BadDuration", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "sixty seconds")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		return cfg
	}

	t.Run("DefaultsAreValid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("PortOutOfRange", func(t *testing.T) {
		cfg := base()
		cfg.HTTPPort = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("BadLogLevel", func(t *testing.T) {
		cfg := base()
		cfg.LogLevel = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("ZeroConnections", func(t *testing.T) {
		cfg := base()
		cfg.WSMaxConnections = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("NegativeTTL", func(t *testing.T) {
		cfg := base()
		cfg.CacheTTL = -time.Second
		assert.Error(t, cfg.Validate())
	})
}
