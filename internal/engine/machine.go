package engine

import (
	"time"

	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/scheduler"
)

// Machine holds the timer state and applies transitions to it.
// It is not safe for concurrent use; Engine serializes access.
type Machine struct {
	state domain.TimerState
	sched *scheduler.Scheduler
}

// NewMachine creates an Idle machine. The long-break cadence is taken from
// the scheduler's configuration.
func NewMachine(sched *scheduler.Scheduler) *Machine {
	return &Machine{
		state: domain.NewTimerState(sched.Config().SessionsBeforeLong),
		sched: sched,
	}
}

// State returns a copy of the current state.
func (m *Machine) State() domain.TimerState {
	return m.state
}

// Start moves Idle to Working with a full work duration.
func (m *Machine) Start(now time.Time) error {
	if !m.state.Phase.IsIdle() {
		return domain.ErrAlreadyRunning
	}
	m.state.Phase = domain.Working
	m.state.RemainingSeconds = m.sched.Seconds(domain.PhaseWorking)
	m.state.PhaseStartedAt = now
	return nil
}

// Stop resets to Idle. It reports whether anything changed.
func (m *Machine) Stop() bool {
	reset := domain.NewTimerState(m.state.TotalSessions)
	if m.state == reset {
		return false
	}
	m.state = reset
	return true
}

// Pause suspends a running phase and freezes the countdown.
func (m *Machine) Pause() bool {
	paused, ok := m.state.Phase.Suspend()
	if !ok {
		return false
	}
	m.state.Phase = paused
	return true
}

// Resume restores the suspended phase. Remaining time is untouched.
func (m *Machine) Resume() bool {
	inner, ok := m.state.ResumePhase()
	if !ok {
		return false
	}
	m.state.Phase = inner
	return true
}

// Tick advances the countdown by one second. When the countdown reaches
// zero the machine rolls over into the next phase within the same tick.
// Tick reports whether a rollover happened; it is a no-op unless running.
func (m *Machine) Tick(now time.Time) bool {
	if !m.state.IsRunning() {
		return false
	}
	if m.state.RemainingSeconds > 0 {
		m.state.RemainingSeconds--
	}
	if m.state.RemainingSeconds > 0 {
		return false
	}
	m.rollover(now)
	return true
}

func (m *Machine) rollover(now time.Time) {
	next, seconds := m.sched.Next(m.state.Phase, m.state.CompletedSessions, m.state.TotalSessions)
	if m.state.Phase.Kind() == domain.PhaseWorking {
		m.state.CompletedSessions++
	}
	m.state.Phase = next
	m.state.RemainingSeconds = seconds
	m.state.PhaseStartedAt = now
}
