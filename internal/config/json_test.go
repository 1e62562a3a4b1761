package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseJson_OverlaysFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	data := `{
		"surreal_host": "db.example.com",
		"namespace": "app",
		"database": "main",
		"listen_addr": ":7070",
		"access_token_ttl": "20m",
		"refresh_token_ttl": "720h"
	}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"app", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "db.example.com", cfg.SurrealHost)
	assert.Equal(t, "app", cfg.Namespace)
	assert.Equal(t, "main", cfg.Database)
	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, 20*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTokenTTL)
	// Untouched fields keep defaults.
	assert.Equal(t, 10*time.Second, cfg.SigninTimeout)
}

func TestParseJson_NoFileIsNoop(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"app"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":8080", cfg.ListenAddr)
}
