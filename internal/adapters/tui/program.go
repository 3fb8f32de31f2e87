package tui

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
)

// Program runs the TUI and feeds it published snapshots.
type Program struct {
	program *tea.Program

	mu      sync.Mutex
	running bool
}

// NewProgram creates the bubbletea program for model. When stdout is a
// terminal its size is applied up front so the first frame is not blank.
func NewProgram(model Model, opts ...tea.ProgramOption) *Program {
	if w, h, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		m, _ := model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		model = m.(Model)
	}
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &Program{program: tea.NewProgram(model, opts...)}
}

// OnTimerUpdate implements ports.Listener. It blocks until the event loop
// takes the snapshot, and returns immediately once the program has exited.
func (p *Program) OnTimerUpdate(snapshot domain.Snapshot) error {
	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if !running {
		return nil
	}
	p.program.Send(snapshotMsg(snapshot))
	return nil
}

var _ ports.Listener = (*Program)(nil)

// Run blocks until the user quits or ctx is cancelled.
func (p *Program) Run(ctx context.Context) error {
	p.mu.Lock()
	p.running = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.program.Quit()
		case <-done:
		}
	}()

	if _, err := p.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
