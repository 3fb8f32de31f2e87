package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/focusify/internal/config"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize the configuration",
	Long:  `Inspect the timer configuration file. Durations use Go syntax ("25m", "1h30m").`,
	// The config subcommands must work even when the file is invalid.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if jsonOutput {
			return writeConfigJSON(cmd.OutOrStdout(), appConfig)
		}
		printConfig(cmd.OutOrStdout(), appConfig)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}

		if err := config.SaveTo(path, config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

func printConfig(w io.Writer, cfg *config.Config) {
	notifStatus := "off"
	if cfg.Notifications.Enabled {
		notifStatus = "on"
		if cfg.Notifications.Sound {
			notifStatus = "on (with sound)"
		}
	}

	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Work:                  %s\n", formatMinutes(time.Duration(cfg.Pomodoro.WorkDuration)))
	fmt.Fprintf(w, "  Short break:           %s\n", formatMinutes(time.Duration(cfg.Pomodoro.ShortBreak)))
	fmt.Fprintf(w, "  Long break:            %s\n", formatMinutes(time.Duration(cfg.Pomodoro.LongBreak)))
	fmt.Fprintf(w, "  Sessions before long:  %d\n", cfg.Pomodoro.SessionsBeforeLong)
	fmt.Fprintf(w, "  Notifications:         %s\n", notifStatus)
	fmt.Fprintf(w, "  MCP server:            %v\n", cfg.MCP.Enabled)
	fmt.Fprintf(w, "  Log:                   %s (%s)\n", cfg.Log.Level, cfg.Log.Format)
}

func writeConfigJSON(w io.Writer, cfg *config.Config) error {
	out := map[string]any{
		"pomodoro": map[string]any{
			"work_duration":        cfg.Pomodoro.WorkDuration.String(),
			"short_break":          cfg.Pomodoro.ShortBreak.String(),
			"long_break":           cfg.Pomodoro.LongBreak.String(),
			"sessions_before_long": cfg.Pomodoro.SessionsBeforeLong,
		},
		"notifications": map[string]any{
			"enabled": cfg.Notifications.Enabled,
			"sound":   cfg.Notifications.Sound,
		},
		"mcp": map[string]any{"enabled": cfg.MCP.Enabled},
		"log": map[string]any{"level": cfg.Log.Level, "format": cfg.Log.Format},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// formatMinutes renders a duration like "25m", "1h" or "1h30m".
func formatMinutes(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	switch {
	case s != 0:
		return d.String()
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}
