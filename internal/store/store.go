// Package store persists budgets, goals and the transaction ledger in SQLite.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/theirongolddev/goalpost/internal/logging"

	_ "modernc.org/sqlite" // register sqlite driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("not found")

const dsnPragmas = "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)"

// Store is the SQLite-backed repository for budgets, goals and transactions.
type Store struct {
	db  *sql.DB
	log logging.Logger

	// readHook, when set, runs before each table read inside Snapshot.
	readHook func(table string)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// Open opens or creates the database at dbPath and applies pending migrations.
func Open(dbPath string, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Nop()
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening db: %w", err)
	}

	log.Debug("store opened", logging.F(logging.FieldFile, dbPath))
	return &Store{db: db, log: log}, nil
}

// runMigrations uses its own connection: closing the migrator closes the handle it was given.
func runMigrations(dbPath string) error {
	mdb, err := sql.Open("sqlite", dbPath+dsnPragmas)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}

	driver, err := sqlite.WithInstance(mdb, &sqlite.Config{})
	if err != nil {
		_ = mdb.Close()
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
