package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DefaultReadConns is the reader pool size used by OpenReadOnly.
const DefaultReadConns = 4

// ErrNoPacketsTable is returned by OpenReadOnly when the database has no
// packets table, i.e. nothing has ever been ingested into it.
var ErrNoPacketsTable = errors.New("store: no packets table")

// Store provides durable storage for captured packets.
type Store struct {
	db       *sqlx.DB
	readOnly bool
}

// Open creates or opens the database at path as the single writer.
// Applies the schema automatically.
//
// The connection is configured with:
//   - WAL mode so readers scan committed rows during writes
//   - FULL synchronous mode so a returned Append survives power loss
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	dsn := path + "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

	// Open database (creates file if doesn't exist)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One writer: a second connection could only contend for the write lock.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenReadOnly opens an existing database for queries only.
// The file must exist and contain the packets table.
func OpenReadOnly(path string) (*Store, error) {
	dsn := "file:" + path + "?mode=ro&_busy_timeout=5000"

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(DefaultReadConns)
	db.SetMaxIdleConns(DefaultReadConns)

	var name string
	err = db.Get(&name, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'packets'")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w in %s", ErrNoPacketsTable, path)
	}

	return &Store{db: db, readOnly: true}, nil
}

// Close closes the database connections.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ReadOnly reports whether the store was opened with OpenReadOnly.
func (s *Store) ReadOnly() bool {
	return s.readOnly
}

// Count returns the number of stored packets.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM packets"); err != nil {
		return 0, fmt.Errorf("count packets: %w", err)
	}
	return n, nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
