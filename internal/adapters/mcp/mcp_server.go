// Package mcp provides the MCP (Model Context Protocol) server implementation.
// It exposes the timer commands as tools and pushes every timer update to
// connected clients as a notification.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/focusify/internal/domain"
	"github.com/xvierd/focusify/internal/ports"
)

const defaultHistoryLimit = 10

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	commander     ports.TimerCommander
	stateProvider ports.MCPStateProvider
	logger        *slog.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(commander ports.TimerCommander, stateProvider ports.MCPStateProvider, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		commander:     commander,
		stateProvider: stateProvider,
		logger:        logger,
	}

	s.server = server.NewMCPServer(
		"focusify",
		version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			string(ports.CmdStart),
			mcp.WithDescription("Start a pomodoro cycle with a full work phase. Fails if the timer is already running or paused."),
		),
		s.commandHandler(ports.CmdStart),
	)

	s.server.AddTool(
		mcp.NewTool(
			string(ports.CmdStop),
			mcp.WithDescription("Stop the timer and reset the remaining time and completed sessions"),
		),
		s.commandHandler(ports.CmdStop),
	)

	s.server.AddTool(
		mcp.NewTool(
			string(ports.CmdPause),
			mcp.WithDescription("Pause the running phase, freezing the countdown"),
		),
		s.commandHandler(ports.CmdPause),
	)

	s.server.AddTool(
		mcp.NewTool(
			string(ports.CmdResume),
			mcp.WithDescription("Resume a paused phase from where it stopped"),
		),
		s.commandHandler(ports.CmdResume),
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_timer_state",
			mcp.WithDescription("Get the current timer snapshot: phase, remaining seconds and session counters"),
		),
		s.handleGetTimerState,
	)

	historyTool := mcp.NewTool(
		"get_session_history",
		mcp.WithDescription("Get phases completed since the process started, newest first, with totals"),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of entries to return (default: 10)"),
		),
	)
	s.server.AddTool(historyTool, s.handleGetSessionHistory)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, nil, nil)
}

// Serve runs the stdio transport over in and out until ctx is cancelled
// or the input is closed. Nil streams default to the process stdio.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	runCtx := s.ctx
	s.mu.Unlock()
	defer func() { _ = s.Stop() }()

	stdio := server.NewStdioServer(s.server)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.logger.Info("mcp server listening on stdio")
	return stdio.Listen(runCtx, in, out)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler and ports.Listener.
var (
	_ ports.MCPHandler = (*Server)(nil)
	_ ports.Listener   = (*Server)(nil)
)

// OnTimerUpdate forwards a snapshot to every connected client.
func (s *Server) OnTimerUpdate(snapshot domain.Snapshot) error {
	params, err := snapshotParams(snapshot)
	if err != nil {
		return err
	}
	s.server.SendNotificationToAllClients(domain.EventTimerUpdate, params)
	return nil
}

func (s *Server) commandHandler(cmd ports.TimerCommand) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.commander.Execute(ctx, string(cmd))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// handleGetTimerState handles the get_timer_state tool.
func (s *Server) handleGetTimerState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot, err := s.stateProvider.CurrentSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get timer state: %w", err)
	}

	jsonData, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleGetSessionHistory handles the get_session_history tool.
func (s *Server) handleGetSessionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", defaultHistoryLimit))
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be a positive number"), nil
	}

	entries, err := s.stateProvider.RecentEntries(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get session history: %v", err)), nil
	}
	stats, err := s.stateProvider.JournalStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get session stats: %v", err)), nil
	}

	var entryList []map[string]interface{}
	for _, entry := range entries {
		e := map[string]interface{}{
			"id":             entry.ID,
			"phase":          entry.Kind.String(),
			"session_number": entry.SessionNumber,
			"duration":       entry.Duration.String(),
			"started_at":     entry.StartedAt.Format("2006-01-02T15:04:05"),
			"completed_at":   entry.CompletedAt.Format("2006-01-02T15:04:05"),
		}
		if entry.GitBranch != "" {
			e["git_branch"] = entry.GitBranch
			e["git_commit"] = entry.GitCommit
		}
		entryList = append(entryList, e)
	}

	result := map[string]interface{}{
		"entries": entryList,
		"stats": map[string]interface{}{
			"work_sessions":   stats.WorkSessions,
			"short_breaks":    stats.ShortBreaks,
			"long_breaks":     stats.LongBreaks,
			"total_work_time": stats.TotalWorkTime.String(),
		},
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// snapshotParams converts a snapshot into notification params with the
// same shape as its JSON encoding.
func snapshotParams(snapshot domain.Snapshot) (map[string]any, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return params, nil
}
