package domain

import (
	"fmt"
	"time"
)

// PomodoroConfig holds the phase durations and the long-break cadence.
type PomodoroConfig struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	SessionsBeforeLong int
}

// DefaultPomodoroConfig returns the standard pomodoro configuration.
func DefaultPomodoroConfig() PomodoroConfig {
	return PomodoroConfig{
		WorkDuration:       25 * time.Minute,
		ShortBreakDuration: 5 * time.Minute,
		LongBreakDuration:  15 * time.Minute,
		SessionsBeforeLong: 4,
	}
}

// Validate checks that every duration is at least one second and the
// long-break cadence is positive.
func (c PomodoroConfig) Validate() error {
	if c.WorkDuration < time.Second {
		return fmt.Errorf("%w: work duration %s must be at least 1s", ErrInvalidConfig, c.WorkDuration)
	}
	if c.ShortBreakDuration < time.Second {
		return fmt.Errorf("%w: short break %s must be at least 1s", ErrInvalidConfig, c.ShortBreakDuration)
	}
	if c.LongBreakDuration < time.Second {
		return fmt.Errorf("%w: long break %s must be at least 1s", ErrInvalidConfig, c.LongBreakDuration)
	}
	if c.SessionsBeforeLong < 1 {
		return fmt.Errorf("%w: sessions before long break must be positive, got %d", ErrInvalidConfig, c.SessionsBeforeLong)
	}
	return nil
}

// DurationFor returns the configured duration of a running phase kind.
func (c PomodoroConfig) DurationFor(kind PhaseKind) time.Duration {
	switch kind {
	case PhaseWorking:
		return c.WorkDuration
	case PhaseShortBreak:
		return c.ShortBreakDuration
	case PhaseLongBreak:
		return c.LongBreakDuration
	default:
		return 0
	}
}

// SecondsFor is DurationFor truncated to whole seconds.
func (c PomodoroConfig) SecondsFor(kind PhaseKind) int {
	return int(c.DurationFor(kind) / time.Second)
}
