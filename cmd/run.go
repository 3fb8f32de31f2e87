package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/xvierd/focusify/internal/adapters/stream"
	"github.com/xvierd/focusify/internal/adapters/tui"
)

var (
	headless bool
	follow   bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the timer",
	Long: `Open the pomodoro timer. In a terminal this shows the full-screen UI
(s start, x stop, p pause, r resume, q quit).

With --headless, or when stdin is not a terminal, commands are read one
per line from stdin (start_pomodoro, stop_pomodoro, pause_pomodoro,
resume_pomodoro or their short forms) and every timer update is written
to stdout as a JSON line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimer(cmd, false)
	},
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&headless, "headless", false, "Use the line protocol on stdin/stdout instead of the UI")
	cmd.Flags().BoolVar(&follow, "follow", false, "Headless: keep running after stdin ends until interrupted")
}

// interactive reports whether the full-screen UI can be used.
func interactive() bool {
	return !headless && term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())
}

// runTimer wires the services and hands control to the UI or the line
// protocol. With startNow a work phase is started before either attaches.
func runTimer(cmd *cobra.Command, startNow bool) error {
	ctx, stop := setupSignalHandler()
	defer stop()

	fullscreen := interactive()
	logger, closeLog, err := buildLogger(cmd.ErrOrStderr(), fullscreen)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := initializeServices(ctx, logger); err != nil {
		return err
	}
	defer func() { _ = cleanupServices() }()

	if fullscreen {
		return runTUI(ctx, startNow)
	}
	return runHeadless(ctx, cmd, startNow)
}

func runTUI(ctx context.Context, startNow bool) error {
	if startNow {
		if _, err := app.commands.StartPomodoro(ctx); err != nil {
			return err
		}
	}

	model := tui.NewModel(app.engine.Snapshot(), app.config.ToDomain(), app.commands, &app.config.Theme)
	program := tui.NewProgram(model)
	app.subscribe("tui", program)

	return program.Run(ctx)
}

func runHeadless(ctx context.Context, cmd *cobra.Command, startNow bool) error {
	out := stream.NewWriter(cmd.OutOrStdout())
	app.subscribe("stream", out)

	if startNow {
		result, err := app.commands.StartPomodoro(ctx)
		if err != nil {
			return err
		}
		if err := out.Write(stream.Event{Event: stream.EventCommandResult, Payload: result}); err != nil {
			return err
		}
	}

	err := stream.Serve(ctx, cmd.InOrStdin(), app.commands, out, app.logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("headless session failed: %w", err)
	}

	if follow {
		<-ctx.Done()
	}
	return nil
}
