package ports

import (
	"context"

	"github.com/xvierd/focusify/internal/domain"
)

// Listener receives every published timer-update snapshot.
// This is a driven port (implemented by adapters).
//
// OnTimerUpdate is called synchronously while the engine holds its
// mutation lock. Reading State or Snapshot from inside it is fine;
// commands must be handed to another goroutine.
type Listener interface {
	OnTimerUpdate(snapshot domain.Snapshot) error
}

// ListenerFunc adapts an ordinary function to the Listener interface.
type ListenerFunc func(snapshot domain.Snapshot) error

// OnTimerUpdate calls f(snapshot).
func (f ListenerFunc) OnTimerUpdate(snapshot domain.Snapshot) error {
	return f(snapshot)
}

// TimerCommand is the wire name of an engine command.
type TimerCommand string

const (
	// CmdStart starts a fresh pomodoro cycle.
	CmdStart TimerCommand = "start_pomodoro"

	// CmdStop stops the timer and resets all counters.
	CmdStop TimerCommand = "stop_pomodoro"

	// CmdPause suspends the running phase.
	CmdPause TimerCommand = "pause_pomodoro"

	// CmdResume continues a paused phase.
	CmdResume TimerCommand = "resume_pomodoro"
)

// TimerCommands lists every command in display order.
var TimerCommands = []TimerCommand{CmdStart, CmdStop, CmdPause, CmdResume}

// TimerEngine is the command and observation surface of the timer.
// This is a driving port (called by services and adapters).
type TimerEngine interface {
	// Start begins a work phase. It fails with domain.ErrAlreadyRunning
	// unless the timer is Idle.
	Start() error

	// Stop returns the timer to Idle. It reports whether anything changed.
	Stop() bool

	// Pause suspends the running phase. No-op unless running.
	Pause() bool

	// Resume continues a paused phase. No-op unless paused.
	Resume() bool

	// Snapshot returns the current observable state.
	Snapshot() domain.Snapshot

	// Subscribe registers a listener and returns a function that removes it.
	Subscribe(name string, l Listener) (unsubscribe func())
}

// CommandResult describes the outcome of a timer command.
type CommandResult struct {
	Command TimerCommand `json:"command"`
	// Changed is false when the command was a no-op for the current state.
	Changed  bool            `json:"changed"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// TimerCommander executes commands by wire name.
// This is a driven port (implemented by the services layer).
type TimerCommander interface {
	Execute(ctx context.Context, name string) (*CommandResult, error)
}
