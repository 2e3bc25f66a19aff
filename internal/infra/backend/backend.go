// Package backend picks the record store named by DATA_BACKEND.
package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/boddenberg/finance-tracker/internal/config"
	"github.com/boddenberg/finance-tracker/internal/infra/resilience"
	"github.com/boddenberg/finance-tracker/internal/infra/sqlstore"
	"github.com/boddenberg/finance-tracker/internal/infra/supabase"
	"github.com/boddenberg/finance-tracker/internal/port"

	"go.uber.org/zap"
)

// Store is an opened record store plus its release hook.
type Store struct {
	port.RecordStore
	Name  string
	Guard *resilience.Guard
	close func() error
}

// Close releases connections held by the store.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open builds the configured record store. SQL backends are migrated on open.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	rcfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	guard := resilience.NewGuard(cfg.DataBackend, rcfg)

	switch cfg.DataBackend {
	case config.BackendSupabase:
		logger.Info("using Supabase as record store", zap.String("supabase_url", cfg.SupabaseURL))
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		c := supabase.NewClient(httpClient, cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseServiceKey, guard, logger)
		return &Store{RecordStore: c, Name: cfg.DataBackend, Guard: guard}, nil

	case config.BackendPostgres:
		logger.Info("using Postgres as record store")
		s, err := sqlstore.OpenPostgres(ctx, cfg.DatabaseURL, guard, logger)
		if err != nil {
			return nil, err
		}
		return &Store{RecordStore: s, Name: cfg.DataBackend, Guard: guard, close: s.Close}, nil

	case config.BackendSQLite:
		logger.Info("using SQLite as record store", zap.String("path", cfg.SQLitePath))
		s, err := sqlstore.OpenSQLite(ctx, cfg.SQLitePath, guard, logger)
		if err != nil {
			return nil, err
		}
		return &Store{RecordStore: s, Name: cfg.DataBackend, Guard: guard, close: s.Close}, nil
	}
	return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
}

// Migrate applies schema migrations for the SQL backends. Supabase
// manages its own schema.
func Migrate(cfg *config.Config) error {
	switch cfg.DataBackend {
	case config.BackendPostgres:
		return sqlstore.RunMigrations(sqlstore.Postgres, cfg.DatabaseURL)
	case config.BackendSQLite:
		return sqlstore.RunMigrations(sqlstore.SQLite, cfg.SQLitePath)
	case config.BackendSupabase:
		return fmt.Errorf("the supabase backend is migrated from the Supabase dashboard; set DATA_BACKEND=postgres with DATABASE_URL to migrate directly")
	}
	return fmt.Errorf("unknown data backend %q", cfg.DataBackend)
}
