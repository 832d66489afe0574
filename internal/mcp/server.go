package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/hyprcycle/internal/switcher"
)

const (
	ServerName    = "hyprcycle"
	ServerVersion = "0.1.0"
)

// Switcher is the subset of daemon operations exposed as tools.
type Switcher interface {
	View(ctx context.Context) (*switcher.View, error)
	Step(ctx context.Context, n int) (*switcher.Entry, error)
	Jump(ctx context.Context, label int) (*switcher.Entry, error)
	Focus(ctx context.Context, id string) (*switcher.Entry, error)
}

// Server is the MCP server for window switching.
type Server struct {
	mcpServer *mcpsdk.Server
	sw        Switcher
	logger    *slog.Logger
}

// NewServer creates a server that forwards tool calls to sw.
func NewServer(sw Switcher, logger *slog.Logger) *Server {
	s := &Server{sw: sw, logger: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the windows the switcher cycles through, in cycle order. Each entry carries its group, its jump label relative to the focused window (if within range) and whether it is focused.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a window by id (as returned by list_windows) or by jump label. Exactly one of id or label must be given.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cycle",
		Description: "Move focus by a number of steps through the cycle order. Positive steps move forward, negative steps backward; the order wraps around.",
	}, s.handleCycle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "explain_order",
		Description: "Describe how the current order was produced: grouping mode, sort mode and the members of each group in reading order.",
	}, s.handleExplainOrder)
}
