package pgstore

import (
	"context"
	stdsql "database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver, used only for migrations

	"github.com/eventflow/meshrunner/pkg/eventlog"
)

//go:embed migrations
var migrationsFS embed.FS

// Store persists eventlog.MessageLogged events to a PostgreSQL table,
// deduplicating by event id so a replayed Bus subscription is idempotent.
type Store struct {
	pool *pgxpool.Pool
}

// Open runs pending migrations then opens a connection pool against cfg.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("pgstore: migrate: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("pgstore: parse config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pgstore: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Append implements eventlog.Store.
func (s *Store) Append(ctx context.Context, event eventlog.MessageLogged) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO eventlog_messages (event_id, bucket_id, occurred_at, level, message)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO NOTHING`,
		event.EventID, event.EntityID, event.OccurredAt, event.Level, event.Message,
	)
	if err != nil {
		return fmt.Errorf("pgstore: append: %w", err)
	}
	return nil
}

// runMigrations applies the embedded schema using golang-migrate, through a
// throwaway database/sql connection opened via the pgx stdlib driver (the
// pool used for runtime queries is opened separately, the same split the
// teacher's client keeps between its ent driver and golang-migrate).
func runMigrations(cfg Config) error {
	db, err := stdsql.Open("pgx", cfg.DSN())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, cfg.Database, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return sourceDriver.Close()
}
