package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv_Overlays(t *testing.T) {
	t.Setenv(EnvSurrealURL, "db.example.com")
	t.Setenv(EnvSurrealNS, "app")
	t.Setenv(EnvSurrealDB, "main")
	t.Setenv(EnvAppOrigin, "https://app.example.com")
	t.Setenv(EnvListenAddr, ":9090")
	t.Setenv(EnvMode, "production")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "db.example.com", cfg.SurrealHost)
	assert.Equal(t, "app", cfg.Namespace)
	assert.Equal(t, "main", cfg.Database)
	assert.Equal(t, "https://app.example.com", cfg.AppOrigin)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.True(t, cfg.Production)
}

func TestParseEnv_UnsetLeavesValues(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.SurrealHost = "preset.example.com"

	parseEnv(cfg)

	assert.Equal(t, "preset.example.com", cfg.SurrealHost)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.False(t, cfg.Production)
}

func TestParseEnv_NonProductionMode(t *testing.T) {
	t.Setenv(EnvMode, "development")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.False(t, cfg.Production)
}
