// Package notification provides desktop notifications for phase rollovers.
package notification

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/xvierd/focusify/internal/config"
	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
)

// NotifyFunc displays a desktop notification.
type NotifyFunc func(title, message string) error

// Notifier announces phase rollovers on the desktop. It is a timer
// listener; notifications are dispatched off the publishing goroutine.
type Notifier struct {
	cfg    *config.NotificationConfig
	notify NotifyFunc
	logger *slog.Logger

	mu   sync.Mutex
	last domain.Snapshot
	wg   sync.WaitGroup
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Notifier{cfg: cfg, logger: logger}
	n.notify = n.desktop
	return n
}

// SetNotifyFunc replaces the notification backend.
func (n *Notifier) SetNotifyFunc(fn NotifyFunc) {
	n.notify = fn
}

var _ ports.Listener = (*Notifier)(nil)

// OnTimerUpdate implements ports.Listener.
func (n *Notifier) OnTimerUpdate(snapshot domain.Snapshot) error {
	n.mu.Lock()
	prev := n.last
	n.last = snapshot
	n.mu.Unlock()

	if !n.IsEnabled() {
		return nil
	}
	completed, ok := domain.DetectRollover(prev, snapshot)
	if !ok {
		return nil
	}

	title, message := Message(completed.Kind(), snapshot)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.notify(title, message); err != nil {
			n.logger.Warn("desktop notification failed", "error", err)
		}
	}()
	return nil
}

// Wait blocks until all dispatched notifications have been shown.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

func (n *Notifier) desktop(title, message string) error {
	if n.cfg.Sound {
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			n.logger.Debug("beep failed", "error", err)
		}
	}
	return beeep.Notify(title, message, "")
}

// Message builds the notification shown when a phase of the given kind ends.
func Message(completed domain.PhaseKind, next domain.Snapshot) (title, message string) {
	switch completed {
	case domain.PhaseWorking:
		title = "🍅 Pomodoro Complete!"
		message = fmt.Sprintf("%s done. Time for a %s.",
			sessionInCycle(next.CompletedSessions, next.TotalSessions), next.State.Label())
	case domain.PhaseLongBreak:
		title = "☕ Long Break Over!"
		message = "Rested and ready. A new cycle starts now."
	default:
		title = "☕ Break Over!"
		message = "Your short break is complete. Ready to focus?"
	}
	return title, message
}

// sessionInCycle numbers a completed session within its long-break cycle.
func sessionInCycle(completed, total int) string {
	if total <= 0 || completed <= 0 {
		return fmt.Sprintf("Session %d", completed)
	}
	return fmt.Sprintf("Session %d of %d", (completed-1)%total+1, total)
}
