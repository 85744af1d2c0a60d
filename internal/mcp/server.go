// Package mcp exposes window record control to MCP clients over stdio. Every
// tool call is translated into an IPC request against the running daemon, so
// the MCP server never touches the native layer itself.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winstate/internal/ipc"
)

const (
	ServerName    = "winstate"
	ServerVersion = "0.1.0"
)

// daemonClient is the IPC surface the tools need; *ipc.Client satisfies it.
type daemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	ListWindows() (*ipc.WindowsData, error)
	GetWindow(id uint64) (*ipc.WindowInfo, error)
	OpenWindow(update ipc.WindowUpdate) (uint64, error)
	UpdateWindow(id uint64, update ipc.WindowUpdate) error
	CloseWindow(id uint64) error
	CommandWindow(id uint64, action string) error
}

// Server is the MCP server for winstate window control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    daemonClient
}

// NewServer creates a new MCP server talking to the daemon socket.
func NewServer() *Server {
	return newServer(ipc.NewClient())
}

func newServer(client daemonClient) *Server {
	s := &Server{client: client}

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
		Name:        "open_window",
		Description: "Open a new native window. Unset fields use the defaults (1280x720, windowed, decorated). The window is created by the daemon on its next synchronization cycle; returns the window id for future reference.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "update_window",
		Description: "Change properties of an existing window: title, mode, size, position, decorations, visibility, stacking level, theme, or cursor behavior. Only the fields provided are changed; the daemon applies the diff on its next cycle.",
	}, s.handleUpdateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window by id. The native window is destroyed by the daemon on its next cycle.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_command",
		Description: "Send a one-shot command to a window: maximize, unmaximize, minimize, restore, or focus. One-shot commands are consumed once and do not persist in the window state.",
	}, s.handleWindowCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window",
		Description: "Get one window's desired state plus the last state the daemon synchronized to the native window, useful for spotting drift between the two.",
	}, s.handleGetWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List all window records with their desired and last-synchronized state.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_monitors",
		Description: "List the connected monitors with their geometry and scale factor.",
	}, s.handleGetMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get daemon status: window count, completed synchronization cycles, and uptime.",
	}, s.handleGetStatus)
}
