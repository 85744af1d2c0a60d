// Package window defines the declarative desired-state record for a native
// window. Records describe what a window should look like; the daemon package
// reconciles native reality against them every cycle.
package window

import "math"

// ID is the stable identifier for a window record. IDs are assigned by the
// store and are never reused while the daemon runs.
type ID uint64

// Mode describes how a window relates to the monitor it is on.
type Mode int

const (
	// ModeWindowed is a normal movable window.
	ModeWindowed Mode = iota
	// ModeBorderlessFullscreen covers the current monitor without an
	// exclusive video mode change.
	ModeBorderlessFullscreen
	// ModeFullscreen is exclusive fullscreen at the monitor's best video mode.
	ModeFullscreen
	// ModeSizedFullscreen is exclusive fullscreen at the video mode closest
	// to the requested logical size.
	ModeSizedFullscreen
)

func (m Mode) String() string {
	switch m {
	case ModeWindowed:
		return "windowed"
	case ModeBorderlessFullscreen:
		return "borderless"
	case ModeFullscreen:
		return "fullscreen"
	case ModeSizedFullscreen:
		return "sized_fullscreen"
	default:
		return "unknown"
	}
}

// Theme is an explicit light/dark preference.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// Level is the stacking class of a window.
type Level int

const (
	LevelAlwaysOnBottom Level = iota - 1
	LevelNormal
	LevelAlwaysOnTop
)

// CursorIcon names the pointer shape shown over the window.
type CursorIcon string

const (
	CursorDefault   CursorIcon = "default"
	CursorPointer   CursorIcon = "pointer"
	CursorCrosshair CursorIcon = "crosshair"
	CursorText      CursorIcon = "text"
	CursorMove      CursorIcon = "move"
	CursorWait      CursorIcon = "wait"
)

// GrabMode controls how the window confines the pointer.
type GrabMode int

const (
	// GrabNone leaves the pointer free.
	GrabNone GrabMode = iota
	// GrabConfined keeps the pointer inside the window bounds.
	GrabConfined
	// GrabLocked pins the pointer in place.
	GrabLocked
)

// Point is a position in logical (scale-independent) coordinates.
type Point struct {
	X float64
	Y float64
}

// Size is a logical size.
type Size struct {
	Width  float64
	Height float64
}

// PhysicalPoint is a position in device pixels.
type PhysicalPoint struct {
	X int
	Y int
}

// PhysicalSize is a size in device pixels.
type PhysicalSize struct {
	Width  int
	Height int
}

// PositionKind selects how the window's initial/desired position is derived.
type PositionKind int

const (
	// PositionAutomatic lets the window manager place the window.
	PositionAutomatic PositionKind = iota
	// PositionCentered centers the window on a selected monitor.
	PositionCentered
	// PositionAt places the window at an absolute physical position.
	PositionAt
)

// MonitorSelection picks the monitor used by PositionCentered.
type MonitorSelection int

const (
	MonitorCurrent MonitorSelection = iota
	MonitorPrimary
	MonitorIndex
)

// Position is the desired window position.
type Position struct {
	Kind    PositionKind
	Monitor MonitorSelection
	// Index is the monitor index used when Monitor is MonitorIndex.
	Index int
	// At is the absolute position used when Kind is PositionAt.
	At PhysicalPoint
}

// AutoPosition returns a window-manager-placed position.
func AutoPosition() Position {
	return Position{Kind: PositionAutomatic}
}

// CenteredPosition centers the window on the selected monitor.
func CenteredPosition(sel MonitorSelection) Position {
	return Position{Kind: PositionCentered, Monitor: sel}
}

// AtPosition places the window at an absolute physical position.
func AtPosition(x, y int) Position {
	return Position{Kind: PositionAt, At: PhysicalPoint{X: x, Y: y}}
}

// Resolution tracks the window's size in physical pixels together with the
// scale factor used to convert to logical coordinates. The scale factor is
// native-authoritative at creation; an override, when set, wins over the
// native value.
type Resolution struct {
	physicalWidth       int
	physicalHeight      int
	scaleFactor         float64
	scaleFactorOverride float64 // 0 means unset
}

// NewResolution builds a resolution from a logical size at scale factor 1.
func NewResolution(logicalWidth, logicalHeight float64) Resolution {
	r := Resolution{scaleFactor: 1}
	r.Set(logicalWidth, logicalHeight)
	return r
}

// Width returns the logical width.
func (r *Resolution) Width() float64 {
	return float64(r.physicalWidth) / r.ScaleFactor()
}

// Height returns the logical height.
func (r *Resolution) Height() float64 {
	return float64(r.physicalHeight) / r.ScaleFactor()
}

// PhysicalWidth returns the width in device pixels.
func (r *Resolution) PhysicalWidth() int { return r.physicalWidth }

// PhysicalHeight returns the height in device pixels.
func (r *Resolution) PhysicalHeight() int { return r.physicalHeight }

// PhysicalSize returns the size in device pixels.
func (r *Resolution) PhysicalSize() PhysicalSize {
	return PhysicalSize{Width: r.physicalWidth, Height: r.physicalHeight}
}

// ScaleFactor returns the effective scale factor.
func (r *Resolution) ScaleFactor() float64 {
	if r.scaleFactorOverride > 0 {
		return r.scaleFactorOverride
	}
	if r.scaleFactor > 0 {
		return r.scaleFactor
	}
	return 1
}

// Set requests a new logical size, converted to physical pixels at the
// current scale factor.
func (r *Resolution) Set(logicalWidth, logicalHeight float64) {
	scale := r.ScaleFactor()
	r.physicalWidth = int(math.Round(logicalWidth * scale))
	r.physicalHeight = int(math.Round(logicalHeight * scale))
}

// SetPhysical overwrites the physical size directly. Used to reconcile
// native resize feedback back into the record.
func (r *Resolution) SetPhysical(width, height int) {
	r.physicalWidth = width
	r.physicalHeight = height
}

// SetScaleFactor records the native-reported scale factor.
func (r *Resolution) SetScaleFactor(scale float64) {
	r.scaleFactor = scale
}

// SetScaleFactorOverride forces a scale factor regardless of what the native
// layer reports. Pass 0 to clear the override.
func (r *Resolution) SetScaleFactorOverride(scale float64) {
	r.scaleFactorOverride = scale
}

// Buttons lists the title-bar buttons the window exposes.
type Buttons struct {
	Minimize bool
	Maximize bool
	Close    bool
}

// AllButtons enables every title-bar button.
func AllButtons() Buttons {
	return Buttons{Minimize: true, Maximize: true, Close: true}
}

// Constraints bounds the sizes a resizable window may take, in logical
// coordinates. Max bounds default to +Inf (unbounded).
type Constraints struct {
	MinWidth  float64
	MinHeight float64
	MaxWidth  float64
	MaxHeight float64
}

// DefaultConstraints returns the default resize constraints.
func DefaultConstraints() Constraints {
	return Constraints{
		MinWidth:  180,
		MinHeight: 120,
		MaxWidth:  math.Inf(1),
		MaxHeight: math.Inf(1),
	}
}

// Check normalizes the constraints: minimums are at least 1 and maximums are
// never below the minimums.
func (c Constraints) Check() Constraints {
	out := c
	out.MinWidth = math.Max(1, out.MinWidth)
	out.MinHeight = math.Max(1, out.MinHeight)
	out.MaxWidth = math.Max(out.MinWidth, out.MaxWidth)
	out.MaxHeight = math.Max(out.MinHeight, out.MaxHeight)
	return out
}

// Cursor groups the cursor-related window settings.
type Cursor struct {
	Icon     CursorIcon
	Visible  bool
	GrabMode GrabMode
	// HitTest controls whether the window receives pointer events. Unlike
	// the other cursor fields, a native rejection reverts the record.
	HitTest bool
}

// DefaultCursor returns the default cursor settings.
func DefaultCursor() Cursor {
	return Cursor{Icon: CursorDefault, Visible: true, GrabMode: GrabNone, HitTest: true}
}

// Window is the declarative desired state of one native window.
type Window struct {
	Title      string
	Mode       Mode
	Position   Position
	Resolution Resolution
	Cursor     Cursor
	// CursorPosition is the desired pointer position in logical window
	// coordinates. nil means unknown; clearing it is a no-op during
	// reconciliation, never "move to origin".
	CursorPosition *Point
	Decorations    bool
	Resizable      bool
	EnabledButtons Buttons
	Constraints    Constraints
	Level          Level
	// Theme is the explicit theme preference; nil follows the system.
	Theme   *Theme
	Visible bool
	// Transparent cannot change after creation.
	Transparent bool
	// Focused can only be driven true by this subsystem; focus loss is an
	// external event.
	Focused     bool
	ImeEnabled  bool
	ImePosition Point
	// Class is the WM_CLASS binding, fixed at creation per ICCCM.
	Class string
	// Handle mirrors the native surface identity after creation, for
	// downstream rendering integration. Not diffed.
	Handle uintptr

	maximizeRequest *bool
	minimizeRequest *bool
}

// New returns a window record with default settings.
func New() *Window {
	return &Window{
		Title:          "winstate",
		Mode:           ModeWindowed,
		Position:       AutoPosition(),
		Resolution:     NewResolution(1280, 720),
		Cursor:         DefaultCursor(),
		Decorations:    true,
		Resizable:      true,
		EnabledButtons: AllButtons(),
		Constraints:    DefaultConstraints(),
		Level:          LevelNormal,
		Visible:        true,
		Class:          "winstate",
	}
}

// Width returns the logical width.
func (w *Window) Width() float64 { return w.Resolution.Width() }

// Height returns the logical height.
func (w *Window) Height() float64 { return w.Resolution.Height() }

// PhysicalSize returns the size in device pixels.
func (w *Window) PhysicalSize() PhysicalSize { return w.Resolution.PhysicalSize() }

// ScaleFactor returns the effective scale factor.
func (w *Window) ScaleFactor() float64 { return w.Resolution.ScaleFactor() }

// PhysicalCursorPosition converts the desired cursor position to device
// pixels, or nil when no position is set.
func (w *Window) PhysicalCursorPosition() *PhysicalPoint {
	if w.CursorPosition == nil {
		return nil
	}
	scale := w.ScaleFactor()
	return &PhysicalPoint{
		X: int(math.Round(w.CursorPosition.X * scale)),
		Y: int(math.Round(w.CursorPosition.Y * scale)),
	}
}

// RequestMaximize queues a one-shot maximize (or unmaximize) command.
func (w *Window) RequestMaximize(maximized bool) {
	v := maximized
	w.maximizeRequest = &v
}

// RequestMinimize queues a one-shot minimize (or restore) command.
func (w *Window) RequestMinimize(minimized bool) {
	v := minimized
	w.minimizeRequest = &v
}

// TakeMaximizeRequest consumes a pending maximize command. The second return
// is false when no command is pending.
func (w *Window) TakeMaximizeRequest() (bool, bool) {
	if w.maximizeRequest == nil {
		return false, false
	}
	v := *w.maximizeRequest
	w.maximizeRequest = nil
	return v, true
}

// TakeMinimizeRequest consumes a pending minimize command.
func (w *Window) TakeMinimizeRequest() (bool, bool) {
	if w.minimizeRequest == nil {
		return false, false
	}
	v := *w.minimizeRequest
	w.minimizeRequest = nil
	return v, true
}

// Clone returns an independent copy of the record, suitable for use as a
// cached snapshot.
func (w *Window) Clone() Window {
	out := *w
	if w.CursorPosition != nil {
		p := *w.CursorPosition
		out.CursorPosition = &p
	}
	if w.Theme != nil {
		t := *w.Theme
		out.Theme = &t
	}
	if w.maximizeRequest != nil {
		v := *w.maximizeRequest
		out.maximizeRequest = &v
	}
	if w.minimizeRequest != nil {
		v := *w.minimizeRequest
		out.minimizeRequest = &v
	}
	return out
}
