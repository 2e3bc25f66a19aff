package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boddenberg/finance-tracker/internal/config"
	"github.com/boddenberg/finance-tracker/internal/finance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATA_BACKEND", "")
	t.Setenv("PERIOD_MODE", "")
	t.Setenv("IDEMPOTENCY_TTL", "")

	cfg := config.Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, config.BackendSupabase, cfg.DataBackend)
	assert.Equal(t, 10*time.Minute, cfg.IdempotencyTTL)
	assert.Equal(t, finance.PeriodCalendar, cfg.Period())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "SQLite")
	t.Setenv("SQLITE_DB_PATH", "/tmp/ft.db")
	t.Setenv("PERIOD_MODE", "legacy31")
	t.Setenv("DEV_AUTH", "true")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/")

	cfg := config.Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, config.BackendSQLite, cfg.DataBackend)
	assert.Equal(t, "https://example.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, finance.PeriodLegacyDay31, cfg.Period())
	assert.True(t, cfg.DevAuth)
	require.NoError(t, cfg.Validate())
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &config.Config{
		Port:           0,
		MaxConcurrency: 1,
		IdempotencyTTL: time.Minute,
		DataBackend:    "mongo",
		PeriodMode:     "weekly",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "DATA_BACKEND")
	assert.Contains(t, err.Error(), "PERIOD_MODE")
	assert.Contains(t, err.Error(), "SUPABASE_JWT_SECRET")
}

func TestValidate_SupabaseNeedsURL(t *testing.T) {
	cfg := &config.Config{
		Port:              8080,
		MaxConcurrency:    1,
		IdempotencyTTL:    time.Minute,
		DataBackend:       config.BackendSupabase,
		SupabaseJWTSecret: "secret",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
}

func TestValidateStore_IgnoresServerSettings(t *testing.T) {
	cfg := &config.Config{
		DataBackend: config.BackendSQLite,
		SQLitePath:  "finance.db",
		PeriodMode:  "calendar",
	}

	require.NoError(t, cfg.ValidateStore())
	assert.Error(t, cfg.Validate())
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FT_TEST_A=from-file\nFT_TEST_B=from-file\n"), 0o600))
	t.Setenv("FT_TEST_A", "from-env")
	os.Unsetenv("FT_TEST_B")
	t.Cleanup(func() { os.Unsetenv("FT_TEST_B") })

	require.NoError(t, config.LoadDotEnv(path))

	assert.Equal(t, "from-env", os.Getenv("FT_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("FT_TEST_B"))
}

func TestLoadDotEnv_MissingFileIsFine(t *testing.T) {
	assert.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
