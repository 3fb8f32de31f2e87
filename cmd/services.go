package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/xvierd/focusify/internal/adapters/git"
	"github.com/xvierd/focusify/internal/adapters/notification"
	"github.com/xvierd/focusify/internal/adapters/storage"
	"github.com/xvierd/focusify/internal/config"
	"github.com/xvierd/focusify/internal/engine"
	"github.com/xvierd/focusify/internal/ports"
	"github.com/xvierd/focusify/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	logger   *slog.Logger
	engine   *engine.Engine
	storage  ports.Storage
	journal  *services.JournalService
	notifier *notification.Notifier
	commands *services.CommandService
	state    *services.StateService

	cancel       context.CancelFunc
	journalDone  chan struct{}
	unsubscribes []func()
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices creates the engine and registers the journal and
// notification listeners. Adapters that drive the engine subscribe later.
func initializeServices(ctx context.Context, logger *slog.Logger) error {
	app = appDeps{config: appConfig, logger: logger}
	pomodoro := appConfig.ToDomain()

	var err error
	app.engine, err = engine.New(pomodoro, engine.WithLogger(logger.With("component", "engine")))
	if err != nil {
		return fmt.Errorf("failed to create timer engine: %w", err)
	}

	app.storage, err = storage.NewMemory(ctx)
	if err != nil {
		app.engine.Close()
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	workingDir, _ := os.Getwd()
	app.journal = services.NewJournalService(app.storage, git.NewDetector(workingDir), pomodoro, logger.With("component", "journal"))

	runCtx, cancel := context.WithCancel(ctx)
	app.cancel = cancel
	app.journalDone = make(chan struct{})
	go func() {
		defer close(app.journalDone)
		app.journal.Run(runCtx)
	}()
	app.subscribe("journal", app.journal)

	app.notifier = notification.New(&appConfig.Notifications, logger.With("component", "notifier"))
	if app.notifier.IsEnabled() {
		app.subscribe("notifier", app.notifier)
	}

	app.commands = services.NewCommandService(app.engine, logger)
	app.state = services.NewStateService(app.engine, app.journal)

	return nil
}

// subscribe registers l with the engine and remembers how to remove it.
func (a *appDeps) subscribe(name string, l ports.Listener) {
	a.unsubscribes = append(a.unsubscribes, a.engine.Subscribe(name, l))
}

// cleanupServices stops the timer and releases all resources.
func cleanupServices() error {
	for i := len(app.unsubscribes) - 1; i >= 0; i-- {
		app.unsubscribes[i]()
	}
	app.unsubscribes = nil

	if app.engine != nil {
		app.engine.Close()
	}
	if app.notifier != nil {
		app.notifier.Wait()
	}
	if app.cancel != nil {
		app.cancel()
		<-app.journalDone
	}

	if app.storage != nil {
		return app.storage.Close()
	}
	return nil
}

// setupSignalHandler returns a context that is cancelled on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
