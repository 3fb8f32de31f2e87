package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xvierd/focusify/internal/adapters/storage"
	"github.com/xvierd/focusify/internal/clock"
	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/engine"
	"github.com/xvierd/focusify/internal/ports"
)

var epoch = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func setupTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	store, err := storage.NewMemory(context.Background())
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testConfig() domain.PomodoroConfig {
	return domain.PomodoroConfig{
		WorkDuration:       3 * time.Second,
		ShortBreakDuration: 2 * time.Second,
		LongBreakDuration:  5 * time.Second,
		SessionsBeforeLong: 2,
	}
}

func setupTestEngine(t *testing.T) (*engine.Engine, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(epoch)
	e, err := engine.New(testConfig(), engine.WithClock(clk))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e, clk
}

type fakeGitDetector struct {
	available bool
	info      *ports.GitInfo
}

func (f *fakeGitDetector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	return f.info, nil
}

func (f *fakeGitDetector) IsAvailable() bool {
	return f.available
}
