package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewTimerState(t *testing.T) {
	s := NewTimerState(4)

	if s.Phase != Idle {
		t.Errorf("Phase = %v, want Idle", s.Phase)
	}
	if s.RemainingSeconds != 0 || s.CompletedSessions != 0 {
		t.Errorf("counters = %d/%d, want 0/0", s.RemainingSeconds, s.CompletedSessions)
	}
	if s.TotalSessions != 4 {
		t.Errorf("TotalSessions = %d, want 4", s.TotalSessions)
	}
	if _, ok := s.ResumePhase(); ok {
		t.Error("ResumePhase() should be unset while Idle")
	}
}

func TestSnapshot_JSON(t *testing.T) {
	paused, _ := Working.Suspend()
	state := TimerState{
		Phase:             paused,
		RemainingSeconds:  873,
		CompletedSessions: 1,
		TotalSessions:     4,
		PhaseStartedAt:    time.Now(),
	}

	data, err := json.Marshal(state.Snapshot())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if !state.Snapshot().StartedAt.Equal(state.PhaseStartedAt) {
		t.Error("Snapshot() should carry the phase start time")
	}

	want := `{"state":{"type":"Paused","value":{"type":"Working"}},"remaining":873,"completed_sessions":1,"total_sessions":4}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestSnapshot_JSON_NoValueForRunningPhase(t *testing.T) {
	data, err := json.Marshal(Snapshot{State: ShortBreak, Remaining: 10, TotalSessions: 4})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "value") || strings.Contains(string(data), "null") {
		t.Errorf("optional phase detail should be absent, got %s", data)
	}
}

func TestDetectRollover(t *testing.T) {
	paused, _ := Working.Suspend()

	tests := []struct {
		name     string
		prev     Snapshot
		next     Snapshot
		wantOK   bool
		wantKind PhaseKind
	}{
		{"countdown tick", Snapshot{State: Working, Remaining: 3}, Snapshot{State: Working, Remaining: 2}, false, 0},
		{"work to short break", Snapshot{State: Working}, Snapshot{State: ShortBreak}, true, PhaseWorking},
		{"long break to work", Snapshot{State: LongBreak}, Snapshot{State: Working}, true, PhaseLongBreak},
		{"start from idle", Snapshot{State: Idle}, Snapshot{State: Working}, false, 0},
		{"stop", Snapshot{State: Working}, Snapshot{State: Idle}, false, 0},
		{"pause", Snapshot{State: Working}, Snapshot{State: paused}, false, 0},
		{"resume", Snapshot{State: paused}, Snapshot{State: Working}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectRollover(tt.prev, tt.next)
			if ok != tt.wantOK {
				t.Fatalf("DetectRollover() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Kind() != tt.wantKind {
				t.Errorf("DetectRollover() = %v, want %v", got.Kind(), tt.wantKind)
			}
		})
	}
}

func TestPomodoroConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PomodoroConfig)
		wantErr bool
	}{
		{"default", func(c *PomodoroConfig) {}, false},
		{"zero work", func(c *PomodoroConfig) { c.WorkDuration = 0 }, true},
		{"sub-second short break", func(c *PomodoroConfig) { c.ShortBreakDuration = 500 * time.Millisecond }, true},
		{"negative long break", func(c *PomodoroConfig) { c.LongBreakDuration = -time.Minute }, true},
		{"zero sessions", func(c *PomodoroConfig) { c.SessionsBeforeLong = 0 }, true},
		{"one session", func(c *PomodoroConfig) { c.SessionsBeforeLong = 1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPomodoroConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestPomodoroConfig_SecondsFor(t *testing.T) {
	cfg := DefaultPomodoroConfig()

	tests := []struct {
		kind PhaseKind
		want int
	}{
		{PhaseWorking, 1500},
		{PhaseShortBreak, 300},
		{PhaseLongBreak, 900},
		{PhaseIdle, 0},
		{PhasePaused, 0},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := cfg.SecondsFor(tt.kind); got != tt.want {
				t.Errorf("SecondsFor(%v) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestListenerDeliveryError(t *testing.T) {
	underlying := errors.New("boom")
	err := &ListenerDeliveryError{Listener: "tui", Err: underlying}

	if got, want := err.Error(), "deliver timer-update [tui]: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is should see the wrapped error")
	}

	anonymous := &ListenerDeliveryError{Err: underlying}
	if got, want := anonymous.Error(), "deliver timer-update: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewJournalEntry(t *testing.T) {
	completed := time.Date(2024, 1, 15, 10, 25, 0, 0, time.UTC)
	entry := NewJournalEntry(PhaseWorking, 25*time.Minute, 1, completed)

	if entry.ID == "" {
		t.Error("ID should not be empty")
	}
	if !entry.IsWork() {
		t.Error("IsWork() should be true for a work entry")
	}
	if want := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC); !entry.StartedAt.Equal(want) {
		t.Errorf("StartedAt = %v, want %v", entry.StartedAt, want)
	}

	actual := time.Date(2024, 1, 15, 9, 50, 0, 0, time.UTC)
	entry.SetStartedAt(actual)
	if !entry.StartedAt.Equal(actual) {
		t.Errorf("StartedAt after SetStartedAt = %v, want %v", entry.StartedAt, actual)
	}
	entry.SetStartedAt(time.Time{})
	if !entry.StartedAt.Equal(actual) {
		t.Error("a zero start time should be ignored")
	}

	entry.SetGitContext("main", "abc123")
	if entry.GitBranch != "main" || entry.GitCommit != "abc123" {
		t.Errorf("git context = %q/%q, want main/abc123", entry.GitBranch, entry.GitCommit)
	}
}
