// Package native abstracts the platform windowing layer behind small
// interfaces and owns the identifier-to-handle registry. The daemon stages
// talk to native windows exclusively through this package; concrete backends
// live in internal/x11.
package native

import (
	"github.com/1broseidon/winstate/internal/window"
)

// Monitor describes a physical display.
type Monitor struct {
	ID          int
	Name        string
	X           int
	Y           int
	Width       int
	Height      int
	ScaleFactor float64
	VideoModes  []VideoMode
}

// VideoMode is one supported mode line of a monitor.
type VideoMode struct {
	Width          int
	Height         int
	RefreshMilliHz int
}

// Fullscreen describes the fullscreen state of a native window. A nil
// *Fullscreen means windowed; Exclusive selects a video mode change.
type Fullscreen struct {
	Exclusive bool
	Mode      VideoMode
}

// Equal compares two fullscreen states, treating nil as windowed.
func (f *Fullscreen) Equal(o *Fullscreen) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.Exclusive != o.Exclusive {
		return false
	}
	if !f.Exclusive {
		return true
	}
	return f.Mode == o.Mode
}

// CreateOptions carries build-time customization applied before a native
// window is constructed. Extension hooks may edit it in their build hook.
type CreateOptions struct {
	Class            string
	OverrideRedirect bool
	// Properties are extra string properties set on the window at creation.
	Properties map[string]string
}

// Backend creates native windows.
type Backend interface {
	CreateWindow(spec *window.Window, opts *CreateOptions) (Window, error)
}

// Window is one live native window handle. All calls are synchronous and must
// run on the daemon goroutine; handles must not be retained across cycles.
type Window interface {
	// Handle returns the platform surface identity for downstream
	// rendering integration.
	Handle() uintptr

	SetTitle(title string)

	Fullscreen() *Fullscreen
	SetFullscreen(f *Fullscreen)

	// RequestInnerSize asks for a new size in device pixels. When the
	// native layer resolves the request immediately it returns the granted
	// size (possibly clamped) and true; false means the request is
	// in flight and a later event will carry the result.
	RequestInnerSize(size window.PhysicalSize) (window.PhysicalSize, bool)

	SetCursorIcon(icon window.CursorIcon)
	SetCursorGrab(mode window.GrabMode) error
	SetCursorVisible(visible bool)
	SetCursorPosition(pos window.PhysicalPoint) error
	SetCursorHitTest(enabled bool) error

	IsDecorated() bool
	SetDecorations(decorated bool)
	IsResizable() bool
	SetResizable(resizable bool)
	SetEnabledButtons(buttons window.Buttons)

	SetMinInnerSize(size window.Size)
	SetMaxInnerSize(size window.Size)

	OuterPosition() (window.PhysicalPoint, error)
	SetOuterPosition(pos window.PhysicalPoint)

	SetMaximized(maximized bool)
	SetMinimized(minimized bool)
	Focus()
	SetLevel(level window.Level)

	Theme() (window.Theme, bool)
	SetTheme(theme *window.Theme)
	SetVisible(visible bool)

	SetImeAllowed(allowed bool)
	SetImeCursorArea(pos window.Point, size window.Size)

	ScaleFactor() float64
	CurrentMonitor() (*Monitor, bool)
	PrimaryMonitor() (*Monitor, bool)
	AvailableMonitors() []Monitor

	Destroy()
}
