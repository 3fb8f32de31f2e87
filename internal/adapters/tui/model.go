// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/focusify/internal/config"
	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// snapshotMsg carries a published timer-update into the event loop.
type snapshotMsg domain.Snapshot

// commandDoneMsg reports the outcome of a key-triggered command.
type commandDoneMsg struct {
	command ports.TimerCommand
	err     error
}

// Model represents the TUI state.
type Model struct {
	snapshot  domain.Snapshot
	durations domain.PomodoroConfig
	commander ports.TimerCommander
	theme     config.ThemeConfig
	progress  progress.Model
	width     int
	height    int
	lastError error
}

// NewModel creates a new TUI model showing initial until the first update arrives.
func NewModel(initial domain.Snapshot, durations domain.PomodoroConfig, commander ports.TimerCommander, theme *config.ThemeConfig) Model {
	return Model{
		snapshot:  initial,
		durations: durations,
		commander: commander,
		theme:     resolveTheme(theme),
		progress:  progress.New(progress.WithDefaultGradient()),
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

// runCommand dispatches a command off the event loop. The engine publishes
// while it holds its lock, and publishing sends into this loop, so the
// command must not run inside Update.
func (m Model) runCommand(cmd ports.TimerCommand) tea.Cmd {
	if m.commander == nil {
		return nil
	}
	commander := m.commander
	return func() tea.Msg {
		_, err := commander.Execute(context.Background(), string(cmd))
		return commandDoneMsg{command: cmd, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			return m, m.runCommand(ports.CmdStart)
		case "x":
			return m, m.runCommand(ports.CmdStop)
		case "p":
			return m, m.runCommand(ports.CmdPause)
		case "r":
			return m, m.runCommand(ports.CmdResume)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 4

	case snapshotMsg:
		m.snapshot = domain.Snapshot(msg)

	case commandDoneMsg:
		m.lastError = msg.err
	}

	return m, nil
}

// Snapshot returns the snapshot currently on screen.
func (m Model) Snapshot() domain.Snapshot {
	return m.snapshot
}

// activeKind is the running kind shown on screen, looking through Paused.
func (m Model) activeKind() domain.PhaseKind {
	if inner, ok := m.snapshot.State.Suspended(); ok {
		return inner.Kind()
	}
	return m.snapshot.State.Kind()
}

// fraction returns how much of the current phase has elapsed, in [0, 1].
func (m Model) fraction() float64 {
	total := m.durations.SecondsFor(m.activeKind())
	if total <= 0 {
		return 0
	}
	f := 1 - float64(m.snapshot.Remaining)/float64(total)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// phaseColor returns the color for the current phase, accounting for pause state.
func (m Model) phaseColor() lipgloss.Color {
	switch {
	case m.snapshot.State.IsPaused():
		return lipgloss.Color(m.theme.ColorPaused)
	case m.snapshot.State.IsIdle():
		return lipgloss.Color(m.theme.ColorIdle)
	case m.activeKind() == domain.PhaseWorking:
		return lipgloss.Color(m.theme.ColorWork)
	default:
		return lipgloss.Color(m.theme.ColorBreak)
	}
}

func (m Model) progressBar() progress.Model {
	var bar progress.Model
	if m.activeKind() == domain.PhaseWorking {
		bar = progress.New(progress.WithGradient(m.theme.WorkGradientStart, m.theme.WorkGradientEnd))
	} else {
		bar = progress.New(progress.WithGradient(m.theme.BreakGradientStart, m.theme.BreakGradientEnd))
	}
	bar.Width = m.progress.Width
	if bar.Width <= 0 {
		bar.Width = m.width - 4
	}
	return bar
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	phaseStyle := lipgloss.NewStyle().Foreground(m.phaseColor())

	var sections []string
	titleStyle := lipgloss.NewStyle().Bold(true).MarginBottom(1)
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s focusify", m.theme.IconApp)))
	sections = append(sections, phaseStyle.Render(m.snapshot.State.Label()))
	sections = append(sections, "")

	if m.snapshot.State.IsIdle() {
		preview := int(m.durations.WorkDuration.Seconds())
		sections = append(sections, bigTime(formatSeconds(preview), lipgloss.Color(m.theme.ColorIdle), m.width))
	} else {
		sections = append(sections, bigTime(formatSeconds(m.snapshot.Remaining), m.phaseColor(), m.width))
	}

	if m.snapshot.State.IsPaused() {
		badge := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(m.theme.ColorPaused)).
			Padding(0, 1).
			Render(fmt.Sprintf("%s PAUSED", m.theme.IconPaused))
		sections = append(sections, "", badge)
	}

	if !m.snapshot.State.IsIdle() {
		sections = append(sections, "", m.progressBar().ViewAs(m.fraction()))
	}

	sections = append(sections, "", helpStyle.Render(sessionLine(m.snapshot)))

	if m.lastError != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75"))
		sections = append(sections, errStyle.Render(m.lastError.Error()))
	}

	sections = append(sections, "", helpStyle.Render(m.helpLine()))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) helpLine() string {
	switch {
	case m.snapshot.State.IsIdle():
		return "[s]tart  [q]uit"
	case m.snapshot.State.IsPaused():
		return "[r]esume  [x] stop  [q]uit"
	default:
		return "[p]ause  [x] stop  [q]uit"
	}
}

// sessionLine renders progress towards the next long break, e.g. "●●○○ 2 completed".
func sessionLine(s domain.Snapshot) string {
	if s.TotalSessions <= 0 {
		return fmt.Sprintf("%d completed", s.CompletedSessions)
	}
	filled := s.CompletedSessions % s.TotalSessions
	if filled == 0 && s.CompletedSessions > 0 && s.State.Kind() == domain.PhaseLongBreak {
		filled = s.TotalSessions
	}
	dots := strings.Repeat("●", filled) + strings.Repeat("○", s.TotalSessions-filled)
	return fmt.Sprintf("%s %d completed", dots, s.CompletedSessions)
}

// formatSeconds formats a second count as MM:SS.
func formatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
