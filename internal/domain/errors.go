// Package domain contains the core entities of the focusify timer engine.
// These types describe phases, timer state and snapshots, and are independent
// of any transport, storage or UI.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors.
var (
	ErrAlreadyRunning = errors.New("timer already running")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidConfig  = errors.New("invalid pomodoro config")
	ErrDuplicateEntry = errors.New("journal entry already recorded")
	ErrEngineClosed   = errors.New("timer engine closed")
)

// ListenerDeliveryError reports a subscriber that failed to process a snapshot.
type ListenerDeliveryError struct {
	Listener string
	Err      error
}

func (e *ListenerDeliveryError) Error() string {
	if e.Listener != "" {
		return fmt.Sprintf("deliver %s [%s]: %v", EventTimerUpdate, e.Listener, e.Err)
	}
	return fmt.Sprintf("deliver %s: %v", EventTimerUpdate, e.Err)
}

func (e *ListenerDeliveryError) Unwrap() error {
	return e.Err
}
