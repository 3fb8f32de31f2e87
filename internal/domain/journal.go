package domain

import "time"

// JournalEntry records one completed phase. Entries live only as long as
// the process does.
type JournalEntry struct {
	ID            string
	Kind          PhaseKind
	Duration      time.Duration
	SessionNumber int
	StartedAt     time.Time
	CompletedAt   time.Time
	GitBranch     string
	GitCommit     string
}

// NewJournalEntry creates an entry for a phase that just completed.
func NewJournalEntry(kind PhaseKind, duration time.Duration, sessionNumber int, completedAt time.Time) *JournalEntry {
	return &JournalEntry{
		ID:            generateID(),
		Kind:          kind,
		Duration:      duration,
		SessionNumber: sessionNumber,
		StartedAt:     completedAt.Add(-duration),
		CompletedAt:   completedAt,
	}
}

// SetStartedAt records the actual phase start. A zero t keeps the start
// derived from the configured duration.
func (e *JournalEntry) SetStartedAt(t time.Time) {
	if !t.IsZero() {
		e.StartedAt = t
	}
}

// SetGitContext stores git information for the entry.
func (e *JournalEntry) SetGitContext(branch, commit string) {
	e.GitBranch = branch
	e.GitCommit = commit
}

// IsWork returns true if the entry is a completed work phase.
func (e *JournalEntry) IsWork() bool {
	return e.Kind == PhaseWorking
}

// JournalStats aggregates the journal.
type JournalStats struct {
	WorkSessions  int
	ShortBreaks   int
	LongBreaks    int
	TotalWorkTime time.Duration
}
