package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/focusify/internal/domain"
)

func TestStateService(t *testing.T) {
	e, _ := setupTestEngine(t)
	store := setupTestStorage(t)
	journal := NewJournalService(store, nil, testConfig(), nil)
	svc := NewStateService(e, journal)
	ctx := context.Background()

	snap, err := svc.CurrentSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Snapshot{State: domain.Idle, TotalSessions: 2}, snap)

	require.NoError(t, e.Start())
	snap, err = svc.CurrentSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Working, snap.State)

	entry := domain.NewJournalEntry(domain.PhaseWorking, 3*time.Second, 1, epoch)
	require.NoError(t, store.Journal().Save(ctx, entry))

	entries, err := svc.RecentEntries(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)

	stats, err := svc.JournalStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.WorkSessions)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.CurrentSnapshot(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
