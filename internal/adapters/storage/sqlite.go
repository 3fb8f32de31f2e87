// Package storage provides SQLite implementations of the storage ports.
// The database lives in memory only and is discarded with the process.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xvierd/focusify/internal/ports"
	"modernc.org/sqlite"
)

// sqliteStorage implements the ports.Storage interface using SQLite.
type sqliteStorage struct {
	db          *sql.DB
	journalRepo ports.JournalRepository
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// NewMemory creates an in-memory SQLite storage instance.
func NewMemory(ctx context.Context) (ports.Storage, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: opens its own empty database.
	db.SetMaxOpenConns(1)

	storage := &sqliteStorage{
		db:          db,
		journalRepo: newJournalRepository(db),
	}

	if err := storage.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// Journal returns the journal repository.
func (s *sqliteStorage) Journal() ports.JournalRepository {
	return s.journalRepo
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *sqliteStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS journal (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		session_number INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		completed_at DATETIME NOT NULL,
		git_branch TEXT,
		git_commit TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_journal_completed ON journal(completed_at);
	CREATE INDEX IF NOT EXISTS idx_journal_kind ON journal(kind);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// isUniqueConstraintError checks if an error is a primary key or unique constraint violation.
func isUniqueConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == 1555 || code == 2067 // SQLITE_CONSTRAINT_PRIMARYKEY, SQLITE_CONSTRAINT_UNIQUE
}
