package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/focusify/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server communicates via stdio. It exposes the timer commands as tools
and pushes every timer update to the client as a notification.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !appConfig.MCP.Enabled {
			return errors.New("the MCP server is disabled (set mcp.enabled = true in the config file)")
		}

		ctx, stop := setupSignalHandler()
		defer stop()

		// stdout carries the protocol, so logs always go to stderr or the log file.
		logger, closeLog, err := buildLogger(cmd.ErrOrStderr(), false)
		if err != nil {
			return err
		}
		defer closeLog()

		if err := initializeServices(ctx, logger); err != nil {
			return err
		}
		defer func() { _ = cleanupServices() }()

		server := mcp.NewServer(app.commands, app.state, Version, logger.With("component", "mcp"))
		app.subscribe("mcp", server)

		if err := server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP server error: %w", err)
		}
		logger.Info("mcp server stopped")
		return nil
	},
}
