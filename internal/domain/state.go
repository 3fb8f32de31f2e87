package domain

import "time"

// EventTimerUpdate is the event name snapshots are published under.
const EventTimerUpdate = "timer-update"

// TimerState is the mutable aggregate owned by the state machine.
type TimerState struct {
	Phase             Phase
	RemainingSeconds  int
	CompletedSessions int
	TotalSessions     int
	// PhaseStartedAt is when the current running phase began; zero while Idle.
	PhaseStartedAt time.Time
}

// NewTimerState returns an Idle state for an engine with the given target.
func NewTimerState(totalSessions int) TimerState {
	return TimerState{Phase: Idle, TotalSessions: totalSessions}
}

// ResumePhase returns the phase a paused timer resumes into.
func (s TimerState) ResumePhase() (Phase, bool) {
	return s.Phase.Suspended()
}

// IsRunning reports whether a countdown is active.
func (s TimerState) IsRunning() bool {
	return s.Phase.IsRunning()
}

// Snapshot returns the immutable, observable view of the state.
func (s TimerState) Snapshot() Snapshot {
	return Snapshot{
		State:             s.Phase,
		Remaining:         s.RemainingSeconds,
		CompletedSessions: s.CompletedSessions,
		TotalSessions:     s.TotalSessions,
		StartedAt:         s.PhaseStartedAt,
	}
}

// Snapshot is the payload of a timer-update event.
type Snapshot struct {
	State             Phase `json:"state"`
	Remaining         int   `json:"remaining"`
	CompletedSessions int   `json:"completed_sessions"`
	TotalSessions     int   `json:"total_sessions"`
	// StartedAt is when the current phase began. It survives pauses and is
	// not part of the wire format.
	StartedAt time.Time `json:"-"`
}

// IsRunning reports whether the snapshot was taken during an active countdown.
func (s Snapshot) IsRunning() bool {
	return s.State.IsRunning()
}

// Equal compares the observable fields of two snapshots. StartedAt is ignored.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.State.Equal(other.State) &&
		s.Remaining == other.Remaining &&
		s.CompletedSessions == other.CompletedSessions &&
		s.TotalSessions == other.TotalSessions
}

// DetectRollover reports the phase that completed between two consecutive
// snapshots, if the second one was produced by a rollover.
func DetectRollover(prev, next Snapshot) (Phase, bool) {
	if !prev.IsRunning() || !next.IsRunning() {
		return Phase{}, false
	}
	if prev.State.Kind() == next.State.Kind() {
		return Phase{}, false
	}
	return prev.State, true
}
