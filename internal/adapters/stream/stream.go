// Package stream implements the headless line protocol: command names are
// read one per line and every timer event is written as a JSON line.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
)

// Event names written besides domain.EventTimerUpdate.
const (
	EventCommandResult = "command-result"
	EventError         = "error"
)

// Event is one line of output.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Writer encodes events as JSON lines. It is safe for concurrent use and
// implements ports.Listener.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// OnTimerUpdate writes a timer-update line.
func (w *Writer) OnTimerUpdate(snapshot domain.Snapshot) error {
	return w.Write(Event{Event: domain.EventTimerUpdate, Payload: snapshot})
}

// Write encodes a single event followed by a newline.
func (w *Writer) Write(ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(ev); err != nil {
		return fmt.Errorf("failed to write %s event: %w", ev.Event, err)
	}
	return nil
}

var _ ports.Listener = (*Writer)(nil)

// Serve reads commands from in until it is exhausted, a quit line is read,
// or ctx is cancelled. Blank lines and lines starting with '#' are ignored.
// Command failures are reported on out and do not stop the loop.
func Serve(ctx context.Context, in io.Reader, commander ports.TimerCommander, out *Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read commands: %w", err)
					}
				default:
				}
				return nil
			}

			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if line == "quit" || line == "exit" {
				logger.Debug("headless session ended by command", "command", line)
				return nil
			}

			result, err := commander.Execute(ctx, line)
			if err != nil {
				if werr := out.Write(Event{Event: EventError, Error: err.Error()}); werr != nil {
					return werr
				}
				continue
			}
			if err := out.Write(Event{Event: EventCommandResult, Payload: result}); err != nil {
				return err
			}
		}
	}
}
