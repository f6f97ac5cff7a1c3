// Package config reads process configuration from flags, with environment
// variables (optionally from a .env file) seeding each flag's default.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// GeminiKeySlots is how many numbered GEMINI_API_KEY_n variables are read.
const GeminiKeySlots = 4

// Config holds everything main needs to run.
type Config struct {
	// DB describes the database. DSN wins over the discrete parts.
	DBDriver   string
	DSN        string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBSchema   string

	RankingsFile string
	QueryTimeout time.Duration
	VerifySchema bool
	NoColor      bool

	// GeminiKeys holds GEMINI_API_KEY followed by GEMINI_API_KEY_1..4.
	GeminiKeys  []string
	GeminiModel string

	// One-shot modes. Report runs a single report, Ask translates a
	// question into one; both exit afterwards.
	Report     string
	Selections map[string]string
	Ask        string
	Export     string
}

// selections collects repeated -set key=value flags.
type selections map[string]string

func (s selections) String() string {
	parts := make([]string, 0, len(s))
	for k, v := range s {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (s selections) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	s[key] = value
	return nil
}

// LoadFromArgs defines flags on fs seeded from getenv and parses args.
// Explicit flags override the environment.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	cfg := &Config{}

	envOrDefault := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	boolEnvOrDefault := func(k string, d bool) bool {
		switch strings.ToLower(getenv(k)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
		return d
	}

	timeout := 30 * time.Second
	if v := getenv("QUERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid QUERY_TIMEOUT %q: %w", v, err)
		}
		timeout = d
	}

	fs.StringVar(&cfg.DBDriver, "db_driver", envOrDefault("DB_DRIVER", "postgres"), "Database driver: 'postgres', 'pgx' or 'sqlite'.")
	fs.StringVar(&cfg.DSN, "dsn", getenv("DB_DSN"), "Full DSN; required for sqlite (a file path).")
	fs.StringVar(&cfg.DBHost, "db_host", envOrDefault("DB_HOST", "localhost"), "DB host")
	fs.StringVar(&cfg.DBPort, "db_port", envOrDefault("DB_PORT", "5432"), "DB port")
	fs.StringVar(&cfg.DBUser, "db_user", envOrDefault("DB_USER", "postgres"), "DB user")
	fs.StringVar(&cfg.DBPassword, "db_password", getenv("DB_PASSWORD"), "DB password")
	fs.StringVar(&cfg.DBName, "db_name", envOrDefault("DB_NAME", "ncaafb_db"), "DB name")
	fs.StringVar(&cfg.DBSSLMode, "db_sslmode", envOrDefault("DB_SSLMODE", "disable"), "Postgres sslmode")
	fs.StringVar(&cfg.DBSchema, "db_schema", envOrDefault("DB_SCHEMA", "public"), "Schema checked by -verify-schema")

	fs.StringVar(&cfg.RankingsFile, "rankings", envOrDefault("RANKINGS_FILE", "rankings.csv"), "Rankings file (.csv, .tsv or .xlsx)")
	fs.DurationVar(&cfg.QueryTimeout, "timeout", timeout, "Per-query timeout")
	fs.BoolVar(&cfg.VerifySchema, "verify-schema", boolEnvOrDefault("VERIFY_SCHEMA", true), "Check tables and columns at startup")
	fs.BoolVar(&cfg.NoColor, "no-color", getenv("NO_COLOR") != "", "Disable coloured output")
	fs.StringVar(&cfg.GeminiModel, "gemini_model", envOrDefault("GEMINI_MODEL", "gemini-1.5-flash"), "Gemini model used by -ask")

	sel := selections{}
	fs.StringVar(&cfg.Report, "report", "", "Run one report by id and exit")
	fs.Var(sel, "set", "Answer a report prompt, key=value (repeatable)")
	fs.StringVar(&cfg.Ask, "ask", "", "Answer a question in plain English and exit")
	fs.StringVar(&cfg.Export, "export", "", "Also write the results to this .xlsx file")

	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Selections = sel

	if k := getenv("GEMINI_API_KEY"); k != "" {
		cfg.GeminiKeys = append(cfg.GeminiKeys, k)
	}
	for i := 1; i <= GeminiKeySlots; i++ {
		if k := getenv(fmt.Sprintf("GEMINI_API_KEY_%d", i)); k != "" {
			cfg.GeminiKeys = append(cfg.GeminiKeys, k)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads .env when present, then the process flags and environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}

// Validate checks the combinations flags cannot express.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "pgx":
	case "sqlite":
		if c.DSN == "" {
			return fmt.Errorf("db_driver sqlite needs -dsn (a database file path)")
		}
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}
	if c.QueryTimeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.Report != "" && c.Ask != "" {
		return fmt.Errorf("-report and -ask are mutually exclusive")
	}
	if c.Export != "" && !strings.HasSuffix(strings.ToLower(c.Export), ".xlsx") {
		return fmt.Errorf("-export must name an .xlsx file")
	}
	return nil
}

// ConnString returns the DSN, building a Postgres URL from the discrete
// parts when none was given.
func (c *Config) ConnString() string {
	if c.DSN != "" || c.DBDriver == "sqlite" {
		return c.DSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// Interactive reports whether the menu loop should run.
func (c *Config) Interactive() bool {
	return c.Report == "" && c.Ask == ""
}
