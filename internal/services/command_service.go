// Package services implements the application use cases on top of the
// timer engine and the storage ports.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
)

// CommandService translates external commands into engine operations.
type CommandService struct {
	engine ports.TimerEngine
	logger *slog.Logger
}

// NewCommandService creates a new command service.
func NewCommandService(engine ports.TimerEngine, logger *slog.Logger) *CommandService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandService{engine: engine, logger: logger}
}

// StartPomodoro starts a work phase. It fails with domain.ErrAlreadyRunning
// unless the timer is Idle; the running timer is left untouched.
func (s *CommandService) StartPomodoro(ctx context.Context) (*ports.CommandResult, error) {
	if err := s.engine.Start(); err != nil {
		s.logger.WarnContext(ctx, "start rejected", "error", err, "state", s.engine.Snapshot().State.String())
		return nil, fmt.Errorf("failed to start pomodoro: %w", err)
	}
	return s.result(ctx, ports.CmdStart, true), nil
}

// StopPomodoro stops the timer and resets all counters. It always succeeds.
func (s *CommandService) StopPomodoro(ctx context.Context) *ports.CommandResult {
	return s.result(ctx, ports.CmdStop, s.engine.Stop())
}

// PausePomodoro suspends the running phase.
func (s *CommandService) PausePomodoro(ctx context.Context) *ports.CommandResult {
	return s.result(ctx, ports.CmdPause, s.engine.Pause())
}

// ResumePomodoro continues a paused phase.
func (s *CommandService) ResumePomodoro(ctx context.Context) *ports.CommandResult {
	return s.result(ctx, ports.CmdResume, s.engine.Resume())
}

// Execute runs a command given by name. See ParseCommand for accepted names.
func (s *CommandService) Execute(ctx context.Context, name string) (*ports.CommandResult, error) {
	cmd, err := ParseCommand(name)
	if err != nil {
		return nil, err
	}

	switch cmd {
	case ports.CmdStart:
		return s.StartPomodoro(ctx)
	case ports.CmdStop:
		return s.StopPomodoro(ctx), nil
	case ports.CmdPause:
		return s.PausePomodoro(ctx), nil
	default:
		return s.ResumePomodoro(ctx), nil
	}
}

var _ ports.TimerCommander = (*CommandService)(nil)

func (s *CommandService) result(ctx context.Context, cmd ports.TimerCommand, changed bool) *ports.CommandResult {
	snap := s.engine.Snapshot()
	s.logger.InfoContext(ctx, "timer command",
		"command", string(cmd),
		"changed", changed,
		"state", snap.State.String(),
		"remaining", snap.Remaining,
	)
	return &ports.CommandResult{Command: cmd, Changed: changed, Snapshot: snap}
}

// ParseCommand resolves a command name. Both the wire names
// ("start_pomodoro") and their short forms ("start") are accepted,
// case-insensitively. Unknown names fail with domain.ErrUnknownCommand and
// a suggestion when one is close enough.
func ParseCommand(name string) (ports.TimerCommand, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, cmd := range ports.TimerCommands {
		if normalized == string(cmd) || normalized == shortName(cmd) {
			return cmd, nil
		}
	}

	if suggestion := SuggestCommand(normalized); suggestion != "" {
		return "", fmt.Errorf("%w %q, did you mean %q?", domain.ErrUnknownCommand, name, suggestion)
	}
	return "", fmt.Errorf("%w %q", domain.ErrUnknownCommand, name)
}

// SuggestCommand returns the command name closest to input, or "" when
// nothing matches.
func SuggestCommand(input string) string {
	if input == "" {
		return ""
	}

	names := make([]string, len(ports.TimerCommands))
	for i, cmd := range ports.TimerCommands {
		names[i] = string(cmd)
	}

	matches := fuzzy.Find(input, names)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

func shortName(cmd ports.TimerCommand) string {
	return strings.TrimSuffix(string(cmd), "_pomodoro")
}
