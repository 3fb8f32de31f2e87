package services

import (
	"context"

	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
)

// StateService implements the MCPStateProvider interface.
type StateService struct {
	engine  ports.TimerEngine
	journal *JournalService
}

// NewStateService creates a new state service.
func NewStateService(engine ports.TimerEngine, journal *JournalService) *StateService {
	return &StateService{engine: engine, journal: journal}
}

// CurrentSnapshot implements ports.MCPStateProvider.
func (s *StateService) CurrentSnapshot(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	return s.engine.Snapshot(), nil
}

// RecentEntries implements ports.MCPStateProvider.
func (s *StateService) RecentEntries(ctx context.Context, limit int) ([]*domain.JournalEntry, error) {
	return s.journal.Recent(ctx, limit)
}

// JournalStats implements ports.MCPStateProvider.
func (s *StateService) JournalStats(ctx context.Context) (*domain.JournalStats, error) {
	return s.journal.Stats(ctx)
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
