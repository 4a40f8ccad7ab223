// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/potties/internal/model"
	"github.com/alfredjeanlab/potties/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreatePotty(ctx context.Context, p *model.Potty) error {
	return queryCreatePotty(ctx, s.db, p)
}

func (s *PostgresStore) GetPotty(ctx context.Context, id int64) (*model.Potty, error) {
	return queryGetPotty(ctx, s.db, id)
}

func (s *PostgresStore) ListPotties(ctx context.Context, filter model.PottyFilter) ([]*model.Potty, error) {
	return queryListPotties(ctx, s.db, filter)
}

func (s *PostgresStore) UpdatePotty(ctx context.Context, p *model.Potty) error {
	return queryUpdatePotty(ctx, s.db, p)
}

func (s *PostgresStore) CreateSubscriber(ctx context.Context, sub *model.Subscriber) error {
	return queryCreateSubscriber(ctx, s.db, sub)
}

func (s *PostgresStore) GetSubscriber(ctx context.Context, id int64) (*model.Subscriber, error) {
	return queryGetSubscriber(ctx, s.db, id)
}

func (s *PostgresStore) ListSubscribers(ctx context.Context) ([]*model.Subscriber, error) {
	return queryListSubscribers(ctx, s.db)
}

func (s *PostgresStore) DeleteSubscriber(ctx context.Context, id int64) error {
	return queryDeleteSubscriber(ctx, s.db, id)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&txStore{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

var _ store.Store = (*txStore)(nil)

func (s *txStore) CreatePotty(ctx context.Context, p *model.Potty) error {
	return queryCreatePotty(ctx, s.tx, p)
}

func (s *txStore) GetPotty(ctx context.Context, id int64) (*model.Potty, error) {
	return queryGetPotty(ctx, s.tx, id)
}

func (s *txStore) ListPotties(ctx context.Context, filter model.PottyFilter) ([]*model.Potty, error) {
	return queryListPotties(ctx, s.tx, filter)
}

func (s *txStore) UpdatePotty(ctx context.Context, p *model.Potty) error {
	return queryUpdatePotty(ctx, s.tx, p)
}

func (s *txStore) CreateSubscriber(ctx context.Context, sub *model.Subscriber) error {
	return queryCreateSubscriber(ctx, s.tx, sub)
}

func (s *txStore) GetSubscriber(ctx context.Context, id int64) (*model.Subscriber, error) {
	return queryGetSubscriber(ctx, s.tx, id)
}

func (s *txStore) ListSubscribers(ctx context.Context) ([]*model.Subscriber, error) {
	return queryListSubscribers(ctx, s.tx)
}

func (s *txStore) DeleteSubscriber(ctx context.Context, id int64) error {
	return queryDeleteSubscriber(ctx, s.tx, id)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
