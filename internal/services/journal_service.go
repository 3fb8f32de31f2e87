package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
)

const journalQueueSize = 32

// JournalService records every completed phase in the journal. It is
// registered as a timer listener; entries are written by Run so the
// listener itself never blocks the engine.
type JournalService struct {
	storage     ports.Storage
	gitDetector ports.GitDetector
	cfg         domain.PomodoroConfig
	now         func() time.Time
	logger      *slog.Logger

	mu    sync.Mutex
	last  domain.Snapshot
	queue chan *domain.JournalEntry
}

// NewJournalService creates a journal service. gitDetector may be nil.
func NewJournalService(storage ports.Storage, gitDetector ports.GitDetector, cfg domain.PomodoroConfig, logger *slog.Logger) *JournalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalService{
		storage:     storage,
		gitDetector: gitDetector,
		cfg:         cfg,
		now:         time.Now,
		logger:      logger,
		queue:       make(chan *domain.JournalEntry, journalQueueSize),
	}
}

// SetClock replaces the time source used for completion timestamps.
func (s *JournalService) SetClock(now func() time.Time) {
	s.now = now
}

// OnTimerUpdate implements ports.Listener.
func (s *JournalService) OnTimerUpdate(snapshot domain.Snapshot) error {
	s.mu.Lock()
	prev := s.last
	s.last = snapshot
	s.mu.Unlock()

	completed, ok := domain.DetectRollover(prev, snapshot)
	if !ok {
		return nil
	}

	kind := completed.Kind()
	session := prev.CompletedSessions
	if kind == domain.PhaseWorking {
		session = snapshot.CompletedSessions
	}
	completedAt := snapshot.StartedAt
	if completedAt.IsZero() {
		completedAt = s.now()
	}
	entry := domain.NewJournalEntry(kind, s.cfg.DurationFor(kind), session, completedAt)
	entry.SetStartedAt(prev.StartedAt)

	select {
	case s.queue <- entry:
	default:
		s.logger.Warn("journal queue full, dropping entry", "kind", kind.String(), "session", session)
	}
	return nil
}

// Run writes queued entries until ctx is cancelled.
func (s *JournalService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-s.queue:
			s.record(ctx, entry)
		}
	}
}

func (s *JournalService) record(ctx context.Context, entry *domain.JournalEntry) {
	if entry.IsWork() && s.gitDetector != nil && s.gitDetector.IsAvailable() {
		if info, err := s.gitDetector.Detect(ctx, ""); err == nil && info != nil {
			entry.SetGitContext(info.Branch, info.Commit)
		} else if err != nil {
			s.logger.Debug("git context unavailable", "error", err)
		}
	}

	if err := s.storage.Journal().Save(ctx, entry); err != nil {
		s.logger.Error("failed to record phase", "kind", entry.Kind.String(), "error", err)
		return
	}
	s.logger.Info("phase recorded",
		"kind", entry.Kind.String(),
		"session", entry.SessionNumber,
		"duration", entry.Duration.String(),
	)
}

// Recent returns up to limit entries, newest first.
func (s *JournalService) Recent(ctx context.Context, limit int) ([]*domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.storage.Journal().FindRecent(ctx, limit)
}

// Stats aggregates the journal.
func (s *JournalService) Stats(ctx context.Context) (*domain.JournalStats, error) {
	return s.storage.Journal().Stats(ctx)
}

var _ ports.Listener = (*JournalService)(nil)
