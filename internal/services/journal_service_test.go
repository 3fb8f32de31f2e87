package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
)

func runJournal(t *testing.T, svc *JournalService) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func waitForEntries(t *testing.T, svc *JournalService, n int) []*domain.JournalEntry {
	t.Helper()
	var entries []*domain.JournalEntry
	require.Eventually(t, func() bool {
		var err error
		entries, err = svc.Recent(context.Background(), 50)
		return err == nil && len(entries) >= n
	}, 2*time.Second, 5*time.Millisecond)
	return entries
}

func TestJournalService_RecordsRollovers(t *testing.T) {
	store := setupTestStorage(t)
	git := &fakeGitDetector{available: true, info: &ports.GitInfo{Branch: "feature/timer", Commit: "abc1234"}}
	svc := NewJournalService(store, git, testConfig(), nil)
	svc.SetClock(func() time.Time { return epoch })
	runJournal(t, svc)

	paused, _ := domain.Working.Suspend()
	updates := []domain.Snapshot{
		{State: domain.Working, Remaining: 3, TotalSessions: 2},
		{State: domain.Working, Remaining: 1, TotalSessions: 2},
		{State: paused, Remaining: 1, TotalSessions: 2},
		{State: domain.Working, Remaining: 1, TotalSessions: 2},
		{State: domain.ShortBreak, Remaining: 2, CompletedSessions: 1, TotalSessions: 2},
		{State: domain.ShortBreak, Remaining: 1, CompletedSessions: 1, TotalSessions: 2},
		{State: domain.Working, Remaining: 3, CompletedSessions: 1, TotalSessions: 2},
	}
	for _, u := range updates {
		require.NoError(t, svc.OnTimerUpdate(u))
	}

	entries := waitForEntries(t, svc, 2)
	require.Len(t, entries, 2)

	work, brk := entries[1], entries[0]
	if work.Kind != domain.PhaseWorking {
		work, brk = brk, work
	}

	assert.Equal(t, domain.PhaseWorking, work.Kind)
	assert.Equal(t, 1, work.SessionNumber)
	assert.Equal(t, 3*time.Second, work.Duration)
	assert.Equal(t, "feature/timer", work.GitBranch)
	assert.Equal(t, "abc1234", work.GitCommit)

	assert.Equal(t, domain.PhaseShortBreak, brk.Kind)
	assert.Equal(t, 1, brk.SessionNumber)
	assert.Empty(t, brk.GitBranch, "breaks carry no git context")

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.WorkSessions)
	assert.Equal(t, 1, stats.ShortBreaks)
	assert.Equal(t, 3*time.Second, stats.TotalWorkTime)
}

func TestJournalService_IgnoresStopAndStart(t *testing.T) {
	store := setupTestStorage(t)
	svc := NewJournalService(store, nil, testConfig(), nil)

	updates := []domain.Snapshot{
		{State: domain.Working, Remaining: 3, TotalSessions: 2},
		{State: domain.Idle, TotalSessions: 2},
		{State: domain.Working, Remaining: 3, TotalSessions: 2},
	}
	for _, u := range updates {
		require.NoError(t, svc.OnTimerUpdate(u))
	}

	assert.Empty(t, svc.queue, "no rollover means nothing is queued")
}

func TestJournalService_WithEngine(t *testing.T) {
	e, clk := setupTestEngine(t)
	store := setupTestStorage(t)
	svc := NewJournalService(store, &fakeGitDetector{}, testConfig(), nil)
	svc.SetClock(clk.Now)
	runJournal(t, svc)
	e.Subscribe("journal", svc)

	require.NoError(t, e.Start())
	// 3s work, 2s short break, 3s work.
	for i := 0; i < 8; i++ {
		require.True(t, clk.Tick())
	}

	entries := waitForEntries(t, svc, 3)
	kinds := make([]domain.PhaseKind, len(entries))
	for i, entry := range entries {
		kinds[i] = entry.Kind
	}
	assert.ElementsMatch(t, []domain.PhaseKind{domain.PhaseWorking, domain.PhaseShortBreak, domain.PhaseWorking}, kinds)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.WorkSessions)
}

func TestJournalService_RecentDefaultLimit(t *testing.T) {
	store := setupTestStorage(t)
	svc := NewJournalService(store, nil, testConfig(), nil)

	for i := 0; i < 12; i++ {
		entry := domain.NewJournalEntry(domain.PhaseShortBreak, time.Minute, i, epoch.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Journal().Save(context.Background(), entry))
	}

	entries, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}

func TestJournalService_StartedAtSurvivesPause(t *testing.T) {
	e, clk := setupTestEngine(t)
	store := setupTestStorage(t)
	svc := NewJournalService(store, nil, testConfig(), nil)
	svc.SetClock(clk.Now)
	runJournal(t, svc)
	e.Subscribe("journal", svc)

	updates := make(chan domain.Snapshot, 16)
	e.Subscribe("recorder", ports.ListenerFunc(func(s domain.Snapshot) error {
		updates <- s
		return nil
	}))
	await := func() domain.Snapshot {
		t.Helper()
		select {
		case s := <-updates:
			return s
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for timer update")
			return domain.Snapshot{}
		}
	}
	tick := func() domain.Snapshot {
		t.Helper()
		require.True(t, clk.Tick())
		return await()
	}

	require.NoError(t, e.Start())
	assert.True(t, await().StartedAt.Equal(epoch))
	tick()

	require.True(t, e.Pause())
	assert.True(t, await().StartedAt.Equal(epoch), "pausing keeps the phase start")
	clk.Advance(10 * time.Minute)
	require.True(t, e.Resume())
	await()

	tick()
	brk := tick()
	require.Equal(t, domain.ShortBreak, brk.State)

	entries := waitForEntries(t, svc, 1)
	require.Len(t, entries, 1)
	work := entries[0]

	assert.Equal(t, domain.PhaseWorking, work.Kind)
	assert.True(t, work.StartedAt.Equal(epoch), "StartedAt = %v, want %v", work.StartedAt, epoch)
	assert.True(t, work.CompletedAt.Equal(brk.StartedAt), "CompletedAt = %v, want %v", work.CompletedAt, brk.StartedAt)
	assert.Greater(t, work.CompletedAt.Sub(work.StartedAt), work.Duration, "wall time includes the pause")
}
