// Package clock abstracts wall time and periodic ticks so the timer engine
// can be driven deterministically in tests.
package clock

import "time"

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock provides the current time and creates tickers.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// System is the real clock backed by the time package.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// NewTicker returns a ticker firing every d.
func (System) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s *systemTicker) C() <-chan time.Time { return s.t.C }
func (s *systemTicker) Stop()               { s.t.Stop() }
