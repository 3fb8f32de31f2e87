// Package engine runs the pomodoro state machine against a clock and
// publishes a snapshot after every change.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xvierd/focusify/internal/broadcast"
	"github.com/xvierd/focusify/internal/clock"
	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
	"github.com/xvierd/focusify/internal/scheduler"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Engine serializes commands and ticks through one mutex and publishes
// every resulting snapshot before the lock is released. Reads go through
// current and never take the mutex, so listeners may call State and
// Snapshot.
type Engine struct {
	mu      sync.Mutex
	machine *Machine
	current atomic.Pointer[domain.TimerState]
	clock   clock.Clock
	pub     *broadcast.Publisher
	logger  *slog.Logger

	ticker clock.Ticker
	done   chan struct{}
	gen    uint64
	closed bool
	wg     sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. Defaults to the system clock.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithPublisher sets the publisher snapshots are delivered through.
func WithPublisher(p *broadcast.Publisher) Option {
	return func(e *Engine) { e.pub = p }
}

// New creates an Idle engine for cfg.
func New(cfg domain.PomodoroConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	e := &Engine{
		machine: NewMachine(scheduler.New(cfg)),
		clock:   clock.System{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.pub == nil {
		e.pub = broadcast.New(e.logger)
	}
	e.storeLocked()
	return e, nil
}

var _ ports.TimerEngine = (*Engine)(nil)

// Start begins a work phase and the tick source.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return domain.ErrEngineClosed
	}
	if err := e.machine.Start(e.clock.Now()); err != nil {
		return err
	}
	e.startTickerLocked()
	e.publishLocked()
	return nil
}

// Stop halts the tick source and resets to Idle.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTickerLocked()
	if !e.machine.Stop() {
		return false
	}
	e.publishLocked()
	return true
}

// Pause suspends the running phase. The tick source is stopped, not ignored.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.machine.Pause() {
		return false
	}
	e.stopTickerLocked()
	e.publishLocked()
	return true
}

// Resume continues a paused phase with a fresh tick source. It is a no-op
// once the engine is closed.
func (e *Engine) Resume() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || !e.machine.Resume() {
		return false
	}
	e.startTickerLocked()
	e.publishLocked()
	return true
}

// State returns a copy of the full timer state as last published.
func (e *Engine) State() domain.TimerState {
	return *e.current.Load()
}

// Snapshot returns the current observable state.
func (e *Engine) Snapshot() domain.Snapshot {
	return e.State().Snapshot()
}

// Subscribe registers a listener for timer updates.
func (e *Engine) Subscribe(name string, l ports.Listener) func() {
	return e.pub.Subscribe(name, l)
}

// Close stops the tick source and waits for its goroutine to exit.
// Afterwards Start fails with domain.ErrEngineClosed and Resume is a no-op;
// Stop and Pause still apply.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.stopTickerLocked()
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *Engine) startTickerLocked() {
	if e.closed {
		return
	}
	e.stopTickerLocked()
	e.gen++
	e.ticker = e.clock.NewTicker(TickInterval)
	e.done = make(chan struct{})
	e.wg.Add(1)
	go e.run(e.ticker, e.done, e.gen)
}

func (e *Engine) stopTickerLocked() {
	if e.ticker == nil {
		return
	}
	e.ticker.Stop()
	close(e.done)
	e.ticker = nil
	e.done = nil
	e.gen++
}

func (e *Engine) run(t clock.Ticker, done <-chan struct{}, gen uint64) {
	defer e.wg.Done()
	for {
		select {
		case <-done:
			return
		case now := <-t.C():
			e.tick(gen, now)
		}
	}
}

func (e *Engine) tick(gen uint64, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// A tick that raced with stop or pause belongs to a cancelled run.
	if gen != e.gen {
		return
	}
	prev := e.machine.State().Phase
	if e.machine.Tick(now) {
		next := e.machine.State()
		e.logger.Info("phase completed",
			"completed", prev.String(),
			"next", next.Phase.String(),
			"completed_sessions", next.CompletedSessions,
		)
	}
	e.publishLocked()
}

func (e *Engine) storeLocked() domain.TimerState {
	st := e.machine.State()
	e.current.Store(&st)
	return st
}

func (e *Engine) publishLocked() {
	e.pub.Publish(e.storeLocked().Snapshot())
}
