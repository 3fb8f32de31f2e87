// Package broadcast fans timer snapshots out to registered listeners.
package broadcast

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
)

type subscriber struct {
	id       uint64
	name     string
	listener ports.Listener
}

// Publisher delivers snapshots to listeners in registration order.
//
// The subscriber slice is never mutated in place: Subscribe and the
// returned unsubscribe func install a new slice, so a publish that has
// already captured the list is unaffected by concurrent changes.
type Publisher struct {
	mu     sync.RWMutex
	subs   []subscriber
	nextID uint64
	logger *slog.Logger
}

// New creates a publisher. A nil logger discards log output.
func New(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{logger: logger}
}

// Subscribe registers l under name and returns a func that removes it.
// The returned func is safe to call more than once.
func (p *Publisher) Subscribe(name string, l ports.Listener) func() {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	subs := make([]subscriber, len(p.subs), len(p.subs)+1)
	copy(subs, p.subs)
	p.subs = append(subs, subscriber{id: id, name: name, listener: l})
	p.mu.Unlock()

	p.logger.Debug("listener subscribed", "listener", name)

	var once sync.Once
	return func() {
		once.Do(func() { p.remove(id) })
	}
}

func (p *Publisher) remove(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	subs := make([]subscriber, 0, len(p.subs))
	for _, s := range p.subs {
		if s.id == id {
			p.logger.Debug("listener unsubscribed", "listener", s.name)
			continue
		}
		subs = append(subs, s)
	}
	p.subs = subs
}

// Len returns the number of registered listeners.
func (p *Publisher) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}

// Publish delivers snapshot to every listener registered when the call
// began. Failures are logged and returned, never retried.
func (p *Publisher) Publish(snapshot domain.Snapshot) []error {
	p.mu.RLock()
	subs := p.subs
	p.mu.RUnlock()

	if len(subs) == 0 {
		p.logger.Debug("no listeners for timer update", "state", snapshot.State.String())
		return nil
	}

	var errs []error
	for _, s := range subs {
		if err := deliver(s, snapshot); err != nil {
			p.logger.Warn("listener failed to handle timer update",
				"listener", s.name,
				"state", snapshot.State.String(),
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errs
}

func deliver(s subscriber, snapshot domain.Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.ListenerDeliveryError{Listener: s.name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if lerr := s.listener.OnTimerUpdate(snapshot); lerr != nil {
		return &domain.ListenerDeliveryError{Listener: s.name, Err: lerr}
	}
	return nil
}
