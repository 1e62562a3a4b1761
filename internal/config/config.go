// Package config handles configuration for the session gateway, including
// defaults, JSON overlay, environment variables, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds runtime settings for the gateway.
//
// Fields:
//   - SurrealHost: host[:port] of the remote SurrealDB endpoint, without scheme.
//   - Namespace / Database: identifiers sent on signin and transport connect.
//   - AppOrigin: optional CSRF allow-list origin (e.g. https://app.example.com).
//     Empty disables the origin guard.
//   - ListenAddr: bind address for the HTTP frontend.
//   - Production: marks cookies Secure.
//   - AccessTokenTTL / RefreshTokenTTL: cookie max-age fallbacks used when a
//     token carries no decodable expiry.
//   - SigninTimeout: HTTP timeout for calls to the remote signin endpoint.
type Config struct {
	SurrealHost     string
	Namespace       string
	Database        string
	AppOrigin       string
	ListenAddr      string
	Production      bool
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SigninTimeout   time.Duration
}

// LoadDefaults populates Config with development defaults. The required
// SurrealDB settings have no defaults on purpose: they must be provided
// explicitly or startup fails.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 30 * 24 * time.Hour
	c.SigninTimeout = 10 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing required value at once so a misconfigured
// deployment fails loudly with the full list.
func (c *Config) Validate() error {
	var missing []string
	if c.SurrealHost == "" {
		missing = append(missing, "SURREAL_URL")
	}
	if c.Namespace == "" {
		missing = append(missing, "SURREAL_NS")
	}
	if c.Database == "" {
		missing = append(missing, "SURREAL_DB")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required configuration missing: %s", strings.Join(missing, ", "))
	}
	if c.SigninTimeout <= 0 {
		return errors.New("signin timeout must be positive")
	}
	return nil
}

// SigninURL is the remote token issuer endpoint.
func (c *Config) SigninURL() string {
	return "https://" + c.SurrealHost + "/signin"
}

// RPCURL is the WebSocket endpoint the transport connects to.
func (c *Config) RPCURL() string {
	return "wss://" + c.SurrealHost + "/rpc"
}
