package mcp

import "github.com/1broseidon/winstate/internal/ipc"

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	Title  string  `json:"title,omitempty" jsonschema:"Window title"`
	Mode   string  `json:"mode,omitempty" jsonschema:"Window mode: windowed, borderless, fullscreen, or sized_fullscreen (default: windowed)"`
	Width  float64 `json:"width,omitempty" jsonschema:"Logical width in points. Set together with height."`
	Height float64 `json:"height,omitempty" jsonschema:"Logical height in points. Set together with width."`
	Class  string  `json:"class,omitempty" jsonschema:"WM_CLASS binding, fixed at creation"`
}

// OpenWindowOutput is the output for the open_window tool.
type OpenWindowOutput struct {
	ID uint64 `json:"id"`
}

// UpdateWindowInput is the input for the update_window tool.
type UpdateWindowInput struct {
	ID            uint64   `json:"id" jsonschema:"required,Window identifier"`
	Title         *string  `json:"title,omitempty" jsonschema:"New window title"`
	Mode          *string  `json:"mode,omitempty" jsonschema:"New mode: windowed, borderless, fullscreen, or sized_fullscreen"`
	Width         *float64 `json:"width,omitempty" jsonschema:"New logical width. Set together with height."`
	Height        *float64 `json:"height,omitempty" jsonschema:"New logical height. Set together with width."`
	X             *int     `json:"x,omitempty" jsonschema:"Absolute x position in pixels. Set together with y."`
	Y             *int     `json:"y,omitempty" jsonschema:"Absolute y position in pixels. Set together with x."`
	Decorations   *bool    `json:"decorations,omitempty" jsonschema:"Show window manager decorations"`
	Resizable     *bool    `json:"resizable,omitempty" jsonschema:"Allow interactive resizing"`
	Visible       *bool    `json:"visible,omitempty" jsonschema:"Map or unmap the window"`
	Level         *string  `json:"level,omitempty" jsonschema:"Stacking level: normal, always_on_top, or always_on_bottom"`
	Theme         *string  `json:"theme,omitempty" jsonschema:"Theme preference: system, light, or dark"`
	CursorVisible *bool    `json:"cursor_visible,omitempty" jsonschema:"Show the cursor over the window"`
	CursorGrab    *string  `json:"cursor_grab,omitempty" jsonschema:"Cursor grab mode: none, confined, or locked"`
}

// CloseWindowInput is the input for the close_window tool.
type CloseWindowInput struct {
	ID uint64 `json:"id" jsonschema:"required,Window identifier"`
}

// WindowCommandInput is the input for the window_command tool.
type WindowCommandInput struct {
	ID     uint64 `json:"id" jsonschema:"required,Window identifier"`
	Action string `json:"action" jsonschema:"required,One-shot action: maximize, unmaximize, minimize, restore, or focus"`
}

// GetWindowInput is the input for the get_window tool.
type GetWindowInput struct {
	ID uint64 `json:"id" jsonschema:"required,Window identifier"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// GetMonitorsInput is the input for the get_monitors tool.
type GetMonitorsInput struct{}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// EmptyOutput is returned by tools that carry no result data.
type EmptyOutput struct{}
