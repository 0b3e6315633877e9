// Package config reads server settings from flags, falling back to
// GEARBOX_* environment variables.
package config

import (
	"flag"
	"fmt"
	"io"
)

// Config holds the server settings.
type Config struct {
	DBPath    string
	Addr      string
	UploadDir string
	LogPath   string
	// JWTSecret overrides the secret stored in the database when set.
	JWTSecret string
}

const usage = `Usage: gearbox [flags]

Flags:
  -d, -db <path>          SQLite database path (env GEARBOX_DB, default: gearbox.sqlite3)
  -a, -addr <host:port>   listen address (env GEARBOX_ADDR, default: :8080)
  -u, -uploads <dir>      image upload directory (env GEARBOX_UPLOADS, default: uploads)
  -l, -log <path>         log file path (env GEARBOX_LOG, default: stdout/stderr only)
      -jwt-secret <s>     JWT signing secret (env GEARBOX_JWT_SECRET, default: generated and stored in the database)
  -h, -help               show this help and exit
`

// Load parses args. getenv supplies defaults for flags not given on the
// command line. Help requests return flag.ErrHelp after printing usage to out.
func Load(args []string, getenv func(string) string, out io.Writer) (*Config, error) {
	env := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{}
	fs := flag.NewFlagSet("gearbox", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }

	dbPath := env("GEARBOX_DB", "gearbox.sqlite3")
	fs.StringVar(&cfg.DBPath, "db", dbPath, "")
	fs.StringVar(&cfg.DBPath, "d", dbPath, "")

	addr := env("GEARBOX_ADDR", ":8080")
	fs.StringVar(&cfg.Addr, "addr", addr, "")
	fs.StringVar(&cfg.Addr, "a", addr, "")

	uploads := env("GEARBOX_UPLOADS", "uploads")
	fs.StringVar(&cfg.UploadDir, "uploads", uploads, "")
	fs.StringVar(&cfg.UploadDir, "u", uploads, "")

	logPath := env("GEARBOX_LOG", "")
	fs.StringVar(&cfg.LogPath, "log", logPath, "")
	fs.StringVar(&cfg.LogPath, "l", logPath, "")

	fs.StringVar(&cfg.JWTSecret, "jwt-secret", env("GEARBOX_JWT_SECRET", ""), "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return cfg, nil
}
