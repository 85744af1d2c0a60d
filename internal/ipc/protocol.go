// Package ipc is the unix-socket control protocol for the daemon. Requests
// and responses are single-line JSON; handlers only mutate window records,
// the daemon cycle performs the native work.
package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/winstate/internal/window"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandGetMonitors   CommandType = "GET_MONITORS"
	CommandListWindows   CommandType = "LIST_WINDOWS"
	CommandGetWindow     CommandType = "GET_WINDOW"
	CommandOpenWindow    CommandType = "OPEN_WINDOW"
	CommandUpdateWindow  CommandType = "UPDATE_WINDOW"
	CommandCloseWindow   CommandType = "CLOSE_WINDOW"
	CommandWindowCommand CommandType = "COMMAND_WINDOW"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount   int    `json:"window_count"`
	CycleCount    uint64 `json:"cycle_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ScaleFactor float64 `json:"scale_factor"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// SyncedState is the last state the daemon pushed to the native window, for
// drift inspection against the desired fields.
type SyncedState struct {
	Title  string `json:"title"`
	Mode   string `json:"mode"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// WindowInfo describes one window record: the desired state plus, once the
// native window exists, the last-synchronized state.
type WindowInfo struct {
	ID          uint64       `json:"id"`
	Title       string       `json:"title"`
	Mode        string       `json:"mode"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	ScaleFactor float64      `json:"scale_factor"`
	Visible     bool         `json:"visible"`
	Focused     bool         `json:"focused"`
	Class       string       `json:"class"`
	Synced      *SyncedState `json:"synced,omitempty"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// WindowUpdate carries partial window record changes over the wire. Nil
// fields are left untouched.
type WindowUpdate struct {
	Title         *string  `json:"title,omitempty"`
	Mode          *string  `json:"mode,omitempty"` // windowed, borderless, fullscreen, sized_fullscreen
	Width         *float64 `json:"width,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	X             *int     `json:"x,omitempty"`
	Y             *int     `json:"y,omitempty"`
	Decorations   *bool    `json:"decorations,omitempty"`
	Resizable     *bool    `json:"resizable,omitempty"`
	Visible       *bool    `json:"visible,omitempty"`
	Level         *string  `json:"level,omitempty"` // normal, always_on_top, always_on_bottom
	Theme         *string  `json:"theme,omitempty"` // system, light, dark
	Class         *string  `json:"class,omitempty"`
	CursorVisible *bool    `json:"cursor_visible,omitempty"`
	CursorGrab    *string  `json:"cursor_grab,omitempty"` // none, confined, locked
}

// Apply writes the non-nil fields into a window record.
func (u *WindowUpdate) Apply(w *window.Window) error {
	if u.Title != nil {
		w.Title = *u.Title
	}
	if u.Mode != nil {
		switch *u.Mode {
		case "windowed":
			w.Mode = window.ModeWindowed
		case "borderless":
			w.Mode = window.ModeBorderlessFullscreen
		case "fullscreen":
			w.Mode = window.ModeFullscreen
		case "sized_fullscreen":
			w.Mode = window.ModeSizedFullscreen
		default:
			return fmt.Errorf("unknown mode %q", *u.Mode)
		}
	}
	if (u.Width == nil) != (u.Height == nil) {
		return fmt.Errorf("width and height must be set together")
	}
	if u.Width != nil {
		if *u.Width <= 0 || *u.Height <= 0 {
			return fmt.Errorf("width and height must be positive")
		}
		w.Resolution.Set(*u.Width, *u.Height)
	}
	if (u.X == nil) != (u.Y == nil) {
		return fmt.Errorf("x and y must be set together")
	}
	if u.X != nil {
		w.Position = window.AtPosition(*u.X, *u.Y)
	}
	if u.Decorations != nil {
		w.Decorations = *u.Decorations
	}
	if u.Resizable != nil {
		w.Resizable = *u.Resizable
	}
	if u.Visible != nil {
		w.Visible = *u.Visible
	}
	if u.Level != nil {
		switch *u.Level {
		case "normal":
			w.Level = window.LevelNormal
		case "always_on_top":
			w.Level = window.LevelAlwaysOnTop
		case "always_on_bottom":
			w.Level = window.LevelAlwaysOnBottom
		default:
			return fmt.Errorf("unknown level %q", *u.Level)
		}
	}
	if u.Theme != nil {
		switch *u.Theme {
		case "system":
			w.Theme = nil
		case "light":
			t := window.ThemeLight
			w.Theme = &t
		case "dark":
			t := window.ThemeDark
			w.Theme = &t
		default:
			return fmt.Errorf("unknown theme %q", *u.Theme)
		}
	}
	if u.Class != nil {
		w.Class = *u.Class
	}
	if u.CursorVisible != nil {
		w.Cursor.Visible = *u.CursorVisible
	}
	if u.CursorGrab != nil {
		switch *u.CursorGrab {
		case "none":
			w.Cursor.GrabMode = window.GrabNone
		case "confined":
			w.Cursor.GrabMode = window.GrabConfined
		case "locked":
			w.Cursor.GrabMode = window.GrabLocked
		default:
			return fmt.Errorf("unknown cursor grab mode %q", *u.CursorGrab)
		}
	}
	return nil
}

// OpenWindowPayload represents the payload for OPEN_WINDOW
type OpenWindowPayload struct {
	Window WindowUpdate `json:"window"`
}

// OpenWindowData represents the data returned by OPEN_WINDOW
type OpenWindowData struct {
	ID uint64 `json:"id"`
}

// WindowIDPayload addresses one window record by identifier.
type WindowIDPayload struct {
	ID uint64 `json:"id"`
}

// UpdateWindowPayload represents the payload for UPDATE_WINDOW
type UpdateWindowPayload struct {
	ID     uint64       `json:"id"`
	Window WindowUpdate `json:"window"`
}

// WindowCommandPayload represents the payload for COMMAND_WINDOW. Actions are
// one-shot: maximize, unmaximize, minimize, restore, focus.
type WindowCommandPayload struct {
	ID     uint64 `json:"id"`
	Action string `json:"action"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
