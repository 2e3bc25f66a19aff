package backend_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/boddenberg/finance-tracker/internal/config"
	"github.com/boddenberg/finance-tracker/internal/infra/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		DataBackend:    config.BackendSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "ft.db"),
		MaxConcurrency: 2,
	}

	s, err := backend.Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "sqlite", s.Name)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpen_SupabaseNeedsNoConnection(t *testing.T) {
	cfg := &config.Config{
		DataBackend:    config.BackendSupabase,
		SupabaseURL:    "http://127.0.0.1:1",
		MaxConcurrency: 1,
	}

	s, err := backend.Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestOpen_Unknown(t *testing.T) {
	_, err := backend.Open(context.Background(), &config.Config{DataBackend: "mongo"}, zap.NewNop())
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	cfg := &config.Config{DataBackend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "m.db")}
	assert.NoError(t, backend.Migrate(cfg))

	assert.Error(t, backend.Migrate(&config.Config{DataBackend: config.BackendSupabase}))
}
