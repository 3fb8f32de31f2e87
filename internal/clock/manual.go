package clock

import (
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance or Tick is called.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

// NewManual returns a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the clock's current time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// NewTicker registers a ticker that fires on every call to Tick.
// The period is only used to advance the clock.
func (m *Manual) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{
		period: d,
		ch:     make(chan time.Time),
		done:   make(chan struct{}),
	}
	m.tickers = append(m.tickers, t)
	return t
}

// Advance moves the clock forward without firing tickers.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Tick advances the clock by the period of the active ticker and delivers
// one tick to it. It blocks until the tick is received or the ticker is
// stopped, and reports whether a tick was delivered.
func (m *Manual) Tick() bool {
	m.mu.Lock()
	m.prune()
	if len(m.tickers) == 0 {
		m.mu.Unlock()
		return false
	}
	t := m.tickers[len(m.tickers)-1]
	m.now = m.now.Add(t.period)
	now := m.now
	m.mu.Unlock()

	select {
	case t.ch <- now:
		return true
	case <-t.done:
		return false
	}
}

// ActiveTickers returns the number of tickers that have not been stopped.
func (m *Manual) ActiveTickers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune()
	return len(m.tickers)
}

func (m *Manual) prune() {
	live := m.tickers[:0]
	for _, t := range m.tickers {
		if !t.stopped() {
			live = append(live, t)
		}
	}
	m.tickers = live
}

type manualTicker struct {
	period time.Duration
	ch     chan time.Time
	done   chan struct{}
	once   sync.Once
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.once.Do(func() { close(t.done) })
}

func (t *manualTicker) stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
