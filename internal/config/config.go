// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/AAWorks/atlas-infra/internal/store"
)

// Store backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Auth modes.
const (
	AuthJWT    = "jwt"
	AuthHeader = "header"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreBackend is "postgres" (default) or "memory".
	StoreBackend string

	// DatabaseURL is the Postgres connection string. Required for the
	// postgres backend.
	DatabaseURL string

	// MigrateOnStart applies the embedded migrations before serving.
	MigrateOnStart bool

	// Tables holds the record store table names, defaults overlaid with
	// any names set in the YAML file at TABLES_FILE.
	Tables store.Tables

	// AuthMode is "jwt" (default) or "header". Header mode trusts X-User-ID
	// and is meant for local demos only.
	AuthMode string

	// JWTSecret is the HS256 signing key. Required in jwt mode.
	JWTSecret string

	// RateLimitRPS and RateLimitBurst size the per-caller limiter. A zero
	// RPS disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// RedisAddr, when set, moves rate limiting to a shared Redis instance.
	RedisAddr string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// SeedDemo loads the LA Getaway demo trip on start. Memory backend only.
	SeedDemo bool

	// DemoUserID owns the demo trip. A random id is used when unset.
	DemoUserID uuid.UUID
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is read first when present; it never
// overrides variables already set. Returns an error listing any required
// variables that are not set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: reading .env: %w", err)
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		AuthMode:     strings.ToLower(getEnv("AUTH_MODE", AuthJWT)),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
	}

	var problems []string
	parse := func(key string, fn func(string) error) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		if err := fn(v); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", key, err))
		}
	}

	cfg.RateLimitRPS = 10
	parse("RATE_LIMIT_RPS", func(v string) (err error) {
		cfg.RateLimitRPS, err = strconv.ParseFloat(v, 64)
		return err
	})
	cfg.RateLimitBurst = 20
	parse("RATE_LIMIT_BURST", func(v string) (err error) {
		cfg.RateLimitBurst, err = strconv.Atoi(v)
		return err
	})
	cfg.MaxBodyBytes = 1 << 20
	parse("MAX_BODY_BYTES", func(v string) (err error) {
		cfg.MaxBodyBytes, err = strconv.ParseInt(v, 10, 64)
		return err
	})
	parse("MIGRATE_ON_START", func(v string) (err error) {
		cfg.MigrateOnStart, err = strconv.ParseBool(v)
		return err
	})
	parse("SEED_DEMO", func(v string) (err error) {
		cfg.SeedDemo, err = strconv.ParseBool(v)
		return err
	})
	parse("DEMO_USER_ID", func(v string) (err error) {
		cfg.DemoUserID, err = uuid.Parse(v)
		return err
	})

	cfg.Tables = store.DefaultTables()
	parse("TABLES_FILE", func(path string) (err error) {
		cfg.Tables, err = loadTables(path)
		return err
	})

	var missing []string
	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendMemory:
	default:
		problems = append(problems, "STORE_BACKEND: must be postgres or memory")
	}
	switch cfg.AuthMode {
	case AuthJWT:
		if cfg.JWTSecret == "" {
			missing = append(missing, "JWT_SECRET")
		}
	case AuthHeader:
	default:
		problems = append(problems, "AUTH_MODE: must be jwt or header")
	}

	if len(missing) > 0 {
		problems = append([]string{"required environment variables not set: " + strings.Join(missing, ", ")}, problems...)
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("config.Load: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// loadTables reads table-name overrides from a YAML file and fills the
// names it leaves out from the defaults.
func loadTables(path string) (store.Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return store.Tables{}, err
	}
	var t store.Tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return store.Tables{}, err
	}
	return t.Merge(store.DefaultTables()), nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
