package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/boddenberg/finance-tracker/internal/finance"
)

// Backend names accepted by DATA_BACKEND.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// HTTP client (Supabase)
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Idempotency replay window for creates
	IdempotencyTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Record store
	DataBackend string

	// Supabase
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	SupabaseJWTSecret  string

	// SQL backends
	DatabaseURL string
	SQLitePath  string

	// Engine
	PeriodMode string

	// Dev mode
	DevAuth bool // DEV_AUTH=true trusts the X-User-ID header
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		IdempotencyTTL: getEnvDuration("IDEMPOTENCY_TTL", 10*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		DataBackend: strings.ToLower(getEnv("DATA_BACKEND", BackendSupabase)),

		SupabaseURL:        strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseJWTSecret:  getEnv("SUPABASE_JWT_SECRET", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_DB_PATH", "finance.db"),
		PeriodMode:  getEnv("PERIOD_MODE", "calendar"),
		DevAuth:     getEnvBool("DEV_AUTH", false),
	}
}

// Validate reports every configuration problem of the HTTP server at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be in 1..65535, got %d", c.Port))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, errors.New("MAX_RETRIES must not be negative"))
	}
	if c.MaxConcurrency <= 0 {
		errs = append(errs, errors.New("MAX_CONCURRENCY must be positive"))
	}
	if c.IdempotencyTTL <= 0 {
		errs = append(errs, errors.New("IDEMPOTENCY_TTL must be positive"))
	}
	if !c.DevAuth && c.SupabaseJWTSecret == "" {
		errs = append(errs, errors.New("SUPABASE_JWT_SECRET is required unless DEV_AUTH=true"))
	}

	return errors.Join(append(errs, c.ValidateStore())...)
}

// ValidateStore checks only what opening the record store needs. The
// operator CLI uses it since it never verifies tokens.
func (c *Config) ValidateStore() error {
	var errs []error

	if _, err := finance.ParsePeriodMode(c.PeriodMode); err != nil {
		errs = append(errs, fmt.Errorf("PERIOD_MODE: %w", err))
	}

	switch c.DataBackend {
	case BackendSupabase:
		if c.SupabaseURL == "" {
			errs = append(errs, errors.New("SUPABASE_URL is required for the supabase backend"))
		}
		if c.SupabaseServiceKey == "" && c.SupabaseAnonKey == "" {
			errs = append(errs, errors.New("SUPABASE_SERVICE_ROLE_KEY or SUPABASE_ANON_KEY is required"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_DB_PATH is required for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATA_BACKEND must be supabase, postgres or sqlite, got %q", c.DataBackend))
	}

	return errors.Join(errs...)
}

// Period returns the configured period mode. Call Validate first.
func (c *Config) Period() finance.PeriodMode {
	mode, _ := finance.ParsePeriodMode(c.PeriodMode)
	return mode
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
