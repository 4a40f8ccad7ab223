// Package sqlite implements the store.Store interface backed by an embedded
// SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/alfredjeanlab/potties/internal/model"
	"github.com/alfredjeanlab/potties/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements store.Store on top of a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteStore)(nil)

// New opens the SQLite database at path (":memory:" for a private in-memory
// database) and runs any pending migrations.
func New(path string) (*SQLiteStore, error) {
	const op = "store.sqlite.New"

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%s: open database: %w", op, err)
	}

	// An in-memory database exists only on the connection that created it.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping database: %w", op, err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: run migrations: %w", op, err)
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreatePotty(ctx context.Context, p *model.Potty) error {
	return insertPotty(ctx, s.db, p)
}

func (s *SQLiteStore) GetPotty(ctx context.Context, id int64) (*model.Potty, error) {
	return selectPotty(ctx, s.db, id)
}

func (s *SQLiteStore) ListPotties(ctx context.Context, filter model.PottyFilter) ([]*model.Potty, error) {
	return selectPotties(ctx, s.db, filter)
}

func (s *SQLiteStore) UpdatePotty(ctx context.Context, p *model.Potty) error {
	return updatePotty(ctx, s.db, p)
}

func (s *SQLiteStore) CreateSubscriber(ctx context.Context, sub *model.Subscriber) error {
	return insertSubscriber(ctx, s.db, sub)
}

func (s *SQLiteStore) GetSubscriber(ctx context.Context, id int64) (*model.Subscriber, error) {
	return selectSubscriber(ctx, s.db, id)
}

func (s *SQLiteStore) ListSubscribers(ctx context.Context) ([]*model.Subscriber, error) {
	return selectSubscribers(ctx, s.db)
}

func (s *SQLiteStore) DeleteSubscriber(ctx context.Context, id int64) error {
	return deleteSubscriber(ctx, s.db, id)
}

// RunInTransaction runs fn inside a single transaction, committing when fn
// returns nil and rolling back otherwise.
func (s *SQLiteStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	const op = "store.sqlite.RunInTransaction"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}

	if err := fn(&txStore{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

type txStore struct {
	tx *sql.Tx
}

var _ store.Store = (*txStore)(nil)

func (s *txStore) CreatePotty(ctx context.Context, p *model.Potty) error {
	return insertPotty(ctx, s.tx, p)
}

func (s *txStore) GetPotty(ctx context.Context, id int64) (*model.Potty, error) {
	return selectPotty(ctx, s.tx, id)
}

func (s *txStore) ListPotties(ctx context.Context, filter model.PottyFilter) ([]*model.Potty, error) {
	return selectPotties(ctx, s.tx, filter)
}

func (s *txStore) UpdatePotty(ctx context.Context, p *model.Potty) error {
	return updatePotty(ctx, s.tx, p)
}

func (s *txStore) CreateSubscriber(ctx context.Context, sub *model.Subscriber) error {
	return insertSubscriber(ctx, s.tx, sub)
}

func (s *txStore) GetSubscriber(ctx context.Context, id int64) (*model.Subscriber, error) {
	return selectSubscriber(ctx, s.tx, id)
}

func (s *txStore) ListSubscribers(ctx context.Context) ([]*model.Subscriber, error) {
	return selectSubscribers(ctx, s.tx)
}

func (s *txStore) DeleteSubscriber(ctx context.Context, id int64) error {
	return deleteSubscriber(ctx, s.tx, id)
}

func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

func (s *txStore) Close() error {
	return nil
}
