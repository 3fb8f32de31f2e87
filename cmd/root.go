// Package cmd provides the CLI commands for focusify.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/xvierd/focusify/internal/config"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath string
	logLevel   string
	logFile    string
	jsonOutput bool

	// appConfig is loaded before every command except the config subcommands.
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "focusify",
	Short: "focusify - a pomodoro timer engine",
	Long: `focusify runs a pomodoro timer: work phases alternate with short
breaks, and every few work sessions a long break is taken.

The timer can be driven from a terminal UI, from a line-based headless
protocol, or by an AI assistant over MCP.

Run "focusify" with no arguments to open the timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimer(cmd, false)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.focusify/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides the config file)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("focusify\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfigPath returns the --config flag or the default location.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	appConfig, err = config.LoadFrom(path)
	if err != nil {
		return err
	}

	if logLevel != "" {
		appConfig.Log.Level = logLevel
		if _, err := appConfig.Log.SlogLevel(); err != nil {
			return err
		}
	}
	return nil
}

// newLogger builds a text or JSON logger on w from the log settings.
func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// buildLogger picks the log destination: the --log-file when given,
// nowhere while a full-screen UI owns the terminal, stderr otherwise.
// The returned function closes the log file, if any.
func buildLogger(stderr io.Writer, fullscreen bool) (*slog.Logger, func(), error) {
	noop := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open log file: %w", err)
		}
		logger, err := newLogger(f, appConfig.Log)
		if err != nil {
			_ = f.Close()
			return nil, noop, err
		}
		return logger, func() { _ = f.Close() }, nil
	}

	if fullscreen {
		return slog.New(slog.DiscardHandler), noop, nil
	}

	logger, err := newLogger(stderr, appConfig.Log)
	if err != nil {
		return nil, noop, err
	}
	return logger, noop, nil
}
