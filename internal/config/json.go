package config

import (
	"encoding/json"
	"os"

	"github.com/mkarev/surrealsession/internal/flagx"
	"github.com/mkarev/surrealsession/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "15m"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	SurrealHost     string         `json:"surreal_host"`
	Namespace       string         `json:"namespace"`
	Database        string         `json:"database"`
	AppOrigin       string         `json:"app_origin"`
	ListenAddr      string         `json:"listen_addr"`
	Production      bool           `json:"production"`
	AccessTokenTTL  timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL timex.Duration `json:"refresh_token_ttl"`
	SigninTimeout   timex.Duration `json:"signin_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file named via
// the -c or -config flags. When no file is given the function returns
// without touching cfg. Read or unmarshal errors panic; the intended usage
// is defaults -> parseJson -> parseEnv -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.SurrealHost != "" {
		cfg.SurrealHost = jc.SurrealHost
	}
	if jc.Namespace != "" {
		cfg.Namespace = jc.Namespace
	}
	if jc.Database != "" {
		cfg.Database = jc.Database
	}
	if jc.AppOrigin != "" {
		cfg.AppOrigin = jc.AppOrigin
	}
	if jc.ListenAddr != "" {
		cfg.ListenAddr = jc.ListenAddr
	}
	if jc.Production {
		cfg.Production = true
	}
	if jc.AccessTokenTTL.Duration != 0 {
		cfg.AccessTokenTTL = jc.AccessTokenTTL.Duration
	}
	if jc.RefreshTokenTTL.Duration != 0 {
		cfg.RefreshTokenTTL = jc.RefreshTokenTTL.Duration
	}
	if jc.SigninTimeout.Duration != 0 {
		cfg.SigninTimeout = jc.SigninTimeout.Duration
	}
}
