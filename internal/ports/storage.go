// Package ports defines the interfaces (driven and driving ports)
// for the focusify timer following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"

	"github.com/xvierd/focusify/internal/domain"
)

// JournalRepository records completed phases for the lifetime of the process.
// This is a driven port (implemented by adapters).
type JournalRepository interface {
	// Save records a completed phase.
	Save(ctx context.Context, entry *domain.JournalEntry) error

	// FindRecent returns up to limit entries, newest first.
	FindRecent(ctx context.Context, limit int) ([]*domain.JournalEntry, error)

	// Stats aggregates all recorded entries.
	Stats(ctx context.Context) (*domain.JournalStats, error)
}

// Storage combines all repositories and provides lifecycle methods.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Journal returns the journal repository.
	Journal() JournalRepository

	// Close closes the storage connection.
	Close() error

	// Migrate creates the schema.
	Migrate(ctx context.Context) error
}
