// Package config resolves server settings from a .env file, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/erazemk/gearkiosk/internal/auth"
)

// Environment variables.
const (
	EnvDB         = "GEARKIOSK_DB"
	EnvAddr       = "GEARKIOSK_ADDR"
	EnvLog        = "GEARKIOSK_LOG"
	EnvCodeScheme = "GEARKIOSK_CODE_SCHEME"
	EnvTokenTTL   = "GEARKIOSK_TOKEN_TTL"
)

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

// Config holds the server settings.
type Config struct {
	DBPath     string
	Addr       string
	LogPath    string
	CodeScheme string
	TokenTTL   time.Duration
}

const usage = `Usage: gearkiosk [flags]

Flags:
  -d, -db <path>           SQLite database path (default: gearkiosk.sqlite3)
  -a, -addr <host:port>    listen address (default: :8080)
  -l, -log <path>          log file path (default: no file, stdout/stderr only)
  -code-scheme <name>      classroom code storage: plain or bcrypt (default: plain)
  -token-ttl <duration>    session lifetime (default: 12h)
  -h, -help                show this help and exit

Every flag can also be set with a GEARKIOSK_* environment variable or in a
.env file in the working directory.
`

// Load parses args on top of the environment. It returns flag.ErrHelp when
// help was requested.
func Load(args []string, out io.Writer) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", DotEnvFile, err)
	}

	ttl, err := envDuration(EnvTokenTTL, auth.DefaultTokenTTL)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	fset := flag.NewFlagSet("gearkiosk", flag.ContinueOnError)
	fset.SetOutput(out)
	fset.Usage = func() { fmt.Fprint(out, usage) }

	dbPath := env(EnvDB, "gearkiosk.sqlite3")
	fset.StringVar(&cfg.DBPath, "db", dbPath, "")
	fset.StringVar(&cfg.DBPath, "d", dbPath, "")

	addr := env(EnvAddr, ":8080")
	fset.StringVar(&cfg.Addr, "addr", addr, "")
	fset.StringVar(&cfg.Addr, "a", addr, "")

	logPath := env(EnvLog, "")
	fset.StringVar(&cfg.LogPath, "log", logPath, "")
	fset.StringVar(&cfg.LogPath, "l", logPath, "")

	fset.StringVar(&cfg.CodeScheme, "code-scheme", env(EnvCodeScheme, auth.SchemePlain), "")
	fset.DurationVar(&cfg.TokenTTL, "token-ttl", ttl, "")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if fset.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fset.Arg(0))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that flags cannot type-check.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("database path required")
	}
	if _, err := auth.SchemeByName(c.CodeScheme); err != nil {
		return err
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
