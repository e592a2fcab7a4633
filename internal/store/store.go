package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// DefaultSlot is the name under which test history is kept.
const DefaultSlot = "allTestResults"

// Store owns the SQLite connection and hands out repositories.
type Store struct {
	db  *sqlx.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open connects to the SQLite database at dsn, applies pragmas and
// migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time keeps the sequence counter and WAL simple.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(context.Background(), db)
	if err != nil {
		drv.Close()
		return nil, err
	}

	return &Store{
		db:  sqlx.NewDb(db, "sqlite"),
		drv: drv,
		seq: seq,
	}, nil
}

func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// History returns the test history kept under DefaultSlot.
func (s *Store) History() HistoryRepo {
	return &historyRepo{db: s.db, seq: s.seq, slot: DefaultSlot}
}

// EventRepo returns the request event log.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

// ReviewRepo returns the review note repository.
func (s *Store) ReviewRepo() ReviewRepo {
	return &reviewRepo{db: s.db, seq: s.seq}
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file in priority order:
//  1. PLACEMENT_DB
//  2. $XDG_DATA_HOME/placement/placement.db
//  3. ~/.local/share/placement/placement.db
//
// The parent directory is created if missing.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PLACEMENT_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "placement", "placement.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// builder returns an SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
