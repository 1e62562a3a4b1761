package config

import "os"

// Recognized environment variables.
const (
	EnvSurrealURL = "SURREAL_URL"
	EnvSurrealNS  = "SURREAL_NS"
	EnvSurrealDB  = "SURREAL_DB"
	EnvAppOrigin  = "APP_ORIGIN"
	EnvListenAddr = "LISTEN_ADDR"
	EnvMode       = "ENV"
)

// parseEnv overlays Config with values from the environment. Unset variables
// leave the current value untouched.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvSurrealURL); ok {
		cfg.SurrealHost = v
	}
	if v, ok := os.LookupEnv(EnvSurrealNS); ok {
		cfg.Namespace = v
	}
	if v, ok := os.LookupEnv(EnvSurrealDB); ok {
		cfg.Database = v
	}
	if v, ok := os.LookupEnv(EnvAppOrigin); ok {
		cfg.AppOrigin = v
	}
	if v, ok := os.LookupEnv(EnvListenAddr); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv(EnvMode); ok {
		cfg.Production = v == "production"
	}
}
