// Package sqlstore implements the record store on database/sql, for a local
// SQLite file or a direct Postgres connection (for example Supabase's own
// database). Money is kept as exact decimals in both dialects.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/infra/resilience"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("sqlstore")

// Store is a RecordStore over a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
	guard   *resilience.Guard
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// OpenSQLite opens (creating if needed) the SQLite file at path and
// migrates it.
func OpenSQLite(ctx context.Context, path string, guard *resilience.Guard, logger *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	return open(ctx, SQLite, path, guard, logger)
}

// OpenPostgres connects with a lib/pq DSN and migrates the schema.
func OpenPostgres(ctx context.Context, dsn string, guard *resilience.Guard, logger *zap.Logger) (*Store, error) {
	return open(ctx, Postgres, dsn, guard, logger)
}

func open(ctx context.Context, d Dialect, dsn string, guard *resilience.Guard, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d.Name, err)
	}
	if d.Name == SQLite.Name {
		// One writer at a time; avoids SQLITE_BUSY under concurrent requests.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", d.Name, err)
	}

	if err := RunMigrations(d, dsn); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("sqlstore: database ready", zap.String("dialect", d.Name))
	return New(db, d, guard, logger), nil
}

// New wraps an already-migrated database.
func New(db *sql.DB, d Dialect, guard *resilience.Guard, logger *zap.Logger) *Store {
	return &Store{
		db:      db,
		dialect: d,
		guard:   guard,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "SQLStore.Ping", "")
	defer span.End()

	return s.guard.Read(ctx, "ping", func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *Store) startSpan(ctx context.Context, name, userID string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(attribute.String("db.system", s.dialect.Name))
	if userID != "" {
		span.SetAttributes(attribute.String("user.id", userID))
	}
	return ctx, span
}

// timestampLayout is fixed-width so TEXT timestamps sort chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// queryAll runs a read through the guard and scans every row.
func queryAll[T any](ctx context.Context, s *Store, op, query string, scan func(scanner) (T, error), args ...any) ([]T, error) {
	var out []T
	err := s.guard.Read(ctx, op, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]T, 0)
		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				return resilience.Permanent(fmt.Errorf("scan %s: %w", op, err))
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	if err != nil {
		s.logger.Error("sqlstore: query failed", zap.String("op", op), zap.Error(err))
		return nil, err
	}
	return out, nil
}

// writeOne runs an INSERT/UPDATE ... RETURNING once and scans the row.
// No row means the target did not exist for this user.
func writeOne[T any](ctx context.Context, s *Store, op, resource, id, query string, scan func(scanner) (T, error), args ...any) (*T, error) {
	var out T
	err := s.guard.Write(ctx, op, func(ctx context.Context) error {
		v, err := scan(s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...))
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ErrNotFound{Resource: resource, ID: id}
		}
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, s.logged(op, err)
	}
	return &out, nil
}

// deleteOne removes a row owned by userID.
func (s *Store) deleteOne(ctx context.Context, op, table, resource, userID, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ? AND user_id = ?", table)
	err := s.guard.Write(ctx, op, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), id, userID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &domain.ErrNotFound{Resource: resource, ID: id}
		}
		return nil
	})
	return s.logged(op, err)
}

func (s *Store) logged(op string, err error) error {
	var nf *domain.ErrNotFound
	if err != nil && !errors.As(err, &nf) {
		s.logger.Error("sqlstore: write failed", zap.String("op", op), zap.Error(err))
	}
	return err
}
