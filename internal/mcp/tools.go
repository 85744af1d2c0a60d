package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winstate/internal/ipc"
)

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, OpenWindowOutput, error) {
	update := ipc.WindowUpdate{}
	if args.Title != "" {
		update.Title = &args.Title
	}
	if args.Mode != "" {
		update.Mode = &args.Mode
	}
	if args.Width != 0 || args.Height != 0 {
		update.Width = &args.Width
		update.Height = &args.Height
	}
	if args.Class != "" {
		update.Class = &args.Class
	}

	id, err := s.client.OpenWindow(update)
	if err != nil {
		return nil, OpenWindowOutput{}, err
	}
	return nil, OpenWindowOutput{ID: id}, nil
}

func (s *Server) handleUpdateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args UpdateWindowInput) (*mcpsdk.CallToolResult, EmptyOutput, error) {
	update := ipc.WindowUpdate{
		Title:         args.Title,
		Mode:          args.Mode,
		Width:         args.Width,
		Height:        args.Height,
		X:             args.X,
		Y:             args.Y,
		Decorations:   args.Decorations,
		Resizable:     args.Resizable,
		Visible:       args.Visible,
		Level:         args.Level,
		Theme:         args.Theme,
		CursorVisible: args.CursorVisible,
		CursorGrab:    args.CursorGrab,
	}

	if err := s.client.UpdateWindow(args.ID, update); err != nil {
		return nil, EmptyOutput{}, err
	}
	return nil, EmptyOutput{}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CloseWindowInput) (*mcpsdk.CallToolResult, EmptyOutput, error) {
	if err := s.client.CloseWindow(args.ID); err != nil {
		return nil, EmptyOutput{}, err
	}
	return nil, EmptyOutput{}, nil
}

func (s *Server) handleWindowCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowCommandInput) (*mcpsdk.CallToolResult, EmptyOutput, error) {
	switch args.Action {
	case "maximize", "unmaximize", "minimize", "restore", "focus":
	default:
		return nil, EmptyOutput{}, fmt.Errorf("unknown action %q; available: maximize, unmaximize, minimize, restore, focus", args.Action)
	}

	if err := s.client.CommandWindow(args.ID, args.Action); err != nil {
		return nil, EmptyOutput{}, err
	}
	return nil, EmptyOutput{}, nil
}

func (s *Server) handleGetWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args GetWindowInput) (*mcpsdk.CallToolResult, ipc.WindowInfo, error) {
	info, err := s.client.GetWindow(args.ID)
	if err != nil {
		return nil, ipc.WindowInfo{}, err
	}
	return nil, *info, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return nil, ListWindowsOutput{Windows: windows.Windows}, nil
}

func (s *Server) handleGetMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetMonitorsInput) (*mcpsdk.CallToolResult, ipc.MonitorsData, error) {
	monitors, err := s.client.GetMonitors()
	if err != nil {
		return nil, ipc.MonitorsData{}, err
	}
	return nil, *monitors, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	return nil, *status, nil
}
