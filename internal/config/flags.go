package config

import (
	"flag"
	"os"

	"github.com/mkarev/surrealsession/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   host of the remote SurrealDB endpoint (no scheme)
//	-n string   namespace identifier
//	-d string   database identifier
//	-l string   HTTP listen address
//	-o string   allowed origin for the CSRF guard
//
// Note: the function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-n", "-d", "-l", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.SurrealHost, "s", cfg.SurrealHost, "host of the remote SurrealDB endpoint")
	fs.StringVar(&cfg.Namespace, "n", cfg.Namespace, "namespace identifier")
	fs.StringVar(&cfg.Database, "d", cfg.Database, "database identifier")
	fs.StringVar(&cfg.ListenAddr, "l", cfg.ListenAddr, "HTTP listen address")
	fs.StringVar(&cfg.AppOrigin, "o", cfg.AppOrigin, "allowed origin for the CSRF guard")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
