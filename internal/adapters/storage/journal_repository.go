package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
)

// journalRepository implements ports.JournalRepository using SQLite.
type journalRepository struct {
	db *sql.DB
}

// newJournalRepository creates a new journal repository.
func newJournalRepository(db *sql.DB) ports.JournalRepository {
	return &journalRepository{db: db}
}

// Save records a completed phase.
func (r *journalRepository) Save(ctx context.Context, entry *domain.JournalEntry) error {
	query := `
		INSERT INTO journal (
			id, kind, duration_ms, session_number, started_at, completed_at, git_branch, git_commit
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Kind.String(),
		entry.Duration.Milliseconds(),
		entry.SessionNumber,
		entry.StartedAt.UTC(),
		entry.CompletedAt.UTC(),
		nullableString(entry.GitBranch),
		nullableString(entry.GitCommit),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateEntry, entry.ID)
		}
		return fmt.Errorf("failed to save journal entry: %w", err)
	}

	return nil
}

// FindRecent returns up to limit entries, newest first.
func (r *journalRepository) FindRecent(ctx context.Context, limit int) ([]*domain.JournalEntry, error) {
	query := `
		SELECT id, kind, duration_ms, session_number, started_at, completed_at, git_branch, git_commit
		FROM journal
		ORDER BY completed_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal: %w", err)
	}

	return entries, nil
}

// Stats aggregates all recorded entries.
func (r *journalRepository) Stats(ctx context.Context) (*domain.JournalStats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = ? THEN duration_ms ELSE 0 END), 0)
		FROM journal
	`

	working := domain.PhaseWorking.String()
	var stats domain.JournalStats
	var workMs int64
	err := r.db.QueryRowContext(ctx, query,
		working,
		domain.PhaseShortBreak.String(),
		domain.PhaseLongBreak.String(),
		working,
	).Scan(&stats.WorkSessions, &stats.ShortBreaks, &stats.LongBreaks, &workMs)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate journal: %w", err)
	}
	stats.TotalWorkTime = time.Duration(workMs) * time.Millisecond

	return &stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*domain.JournalEntry, error) {
	var (
		entry      domain.JournalEntry
		kind       string
		durationMs int64
		branch     sql.NullString
		commit     sql.NullString
	)

	err := row.Scan(
		&entry.ID,
		&kind,
		&durationMs,
		&entry.SessionNumber,
		&entry.StartedAt,
		&entry.CompletedAt,
		&branch,
		&commit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan journal entry: %w", err)
	}

	entry.Kind, err = domain.ParsePhaseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to decode journal entry %s: %w", entry.ID, err)
	}
	entry.Duration = time.Duration(durationMs) * time.Millisecond
	entry.GitBranch = branch.String
	entry.GitCommit = commit.String

	return &entry, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
