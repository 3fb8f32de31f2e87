package ports

import (
	"context"

	"github.com/xvierd/focusify/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides state information to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// CurrentSnapshot returns the timer's observable state.
	CurrentSnapshot(ctx context.Context) (domain.Snapshot, error)

	// RecentEntries returns the most recent journal entries, newest first.
	RecentEntries(ctx context.Context, limit int) ([]*domain.JournalEntry, error)

	// JournalStats aggregates every journal entry.
	JournalStats(ctx context.Context) (*domain.JournalStats, error)
}
