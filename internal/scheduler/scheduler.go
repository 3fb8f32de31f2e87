// Package scheduler decides which phase follows the current one and how
// long it lasts. It has no state beyond its configuration.
package scheduler

import (
	"github.com/xvierd/focusify/internal/domain"
)

// Scheduler picks the next phase at a phase boundary.
type Scheduler struct {
	cfg domain.PomodoroConfig
}

// New creates a scheduler for the given durations.
func New(cfg domain.PomodoroConfig) *Scheduler {
	return &Scheduler{cfg: cfg}
}

// Next returns the phase that follows current and its duration in seconds.
// completed is the number of work sessions finished before current ends.
//
// Working is followed by a long break when completing it reaches a multiple
// of total, otherwise by a short break. Breaks and Idle are followed by
// Working. A paused phase is evaluated as the phase it suspended.
func (s *Scheduler) Next(current domain.Phase, completed, total int) (domain.Phase, int) {
	if inner, ok := current.Suspended(); ok {
		current = inner
	}

	next := domain.Working
	if current.Kind() == domain.PhaseWorking {
		next = domain.ShortBreak
		if total > 0 && (completed+1)%total == 0 {
			next = domain.LongBreak
		}
	}
	return next, s.cfg.SecondsFor(next.Kind())
}

// Seconds returns the configured length of a phase kind in whole seconds.
func (s *Scheduler) Seconds(kind domain.PhaseKind) int {
	return s.cfg.SecondsFor(kind)
}

// Config returns the scheduler's configuration.
func (s *Scheduler) Config() domain.PomodoroConfig {
	return s.cfg
}
