package x11

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winstate/internal/native"
	"github.com/1broseidon/winstate/internal/window"
)

// Motif WM hints, the de-facto protocol for client-side decoration control.
const (
	mwmHintsFunctions   = 1 << 0
	mwmHintsDecorations = 1 << 1

	mwmFuncResize   = 1 << 1
	mwmFuncMove     = 1 << 2
	mwmFuncMinimize = 1 << 3
	mwmFuncMaximize = 1 << 4
	mwmFuncClose    = 1 << 5

	mwmDecorAll = 1 << 0
)

const gtkThemeVariantProp = "_GTK_THEME_VARIANT"

// Window is one live X11 window.
type Window struct {
	conn   *Connection
	xu     *xgbutil.XUtil
	id     xproto.Window
	win    *xwindow.Window
	logger *slog.Logger

	decorated bool
	resizable bool
	buttons   window.Buttons
	mapped    bool

	lastSize          window.PhysicalSize
	minSize, maxSize  window.PhysicalSize // zero means unset
	fullscreen        *native.Fullscreen
	restoreMode       *native.VideoMode // mode to restore when leaving exclusive fullscreen
	blankCursor       xproto.Cursor
	blankCursorMade   bool
	currentCursorIcon window.CursorIcon
}

var _ native.Window = (*Window)(nil)

func (w *Window) Handle() uintptr { return uintptr(w.id) }

func (w *Window) SetTitle(title string) {
	if err := ewmh.WmNameSet(w.xu, w.id, title); err != nil {
		w.logger.Error("failed to set title", "id", w.id, "error", err)
	}
}

func (w *Window) Fullscreen() *native.Fullscreen { return w.fullscreen }

func (w *Window) SetFullscreen(f *native.Fullscreen) {
	if f == nil {
		if w.restoreMode != nil {
			if mon, ok := w.CurrentMonitor(); ok {
				if vm, found := native.FittingVideoMode(mon, w.restoreMode.Width, w.restoreMode.Height); found {
					if err := w.conn.setCrtcMode(mon, vm); err != nil {
						w.logger.Warn("failed to restore video mode", "error", err)
					}
				}
			}
			w.restoreMode = nil
		}
		ewmh.WmStateReq(w.xu, w.id, ewmh.StateRemove, "_NET_WM_STATE_FULLSCREEN")
		w.fullscreen = nil
		return
	}

	if f.Exclusive {
		mon, ok := w.CurrentMonitor()
		if !ok {
			w.logger.Warn("no monitor for exclusive fullscreen", "id", w.id)
			return
		}
		if w.restoreMode == nil {
			w.restoreMode = &native.VideoMode{Width: mon.Width, Height: mon.Height}
		}
		if err := w.conn.setCrtcMode(mon, f.Mode); err != nil {
			w.logger.Warn("failed to switch video mode", "error", err)
			return
		}
	}
	ewmh.WmStateReq(w.xu, w.id, ewmh.StateAdd, "_NET_WM_STATE_FULLSCREEN")
	fs := *f
	w.fullscreen = &fs
}

// RequestInnerSize resizes the window, clamped to the active size hints. X11
// resizes resolve immediately from the client's perspective, so the clamped
// size is returned as granted.
func (w *Window) RequestInnerSize(size window.PhysicalSize) (window.PhysicalSize, bool) {
	granted := size
	if w.minSize.Width > 0 && granted.Width < w.minSize.Width {
		granted.Width = w.minSize.Width
	}
	if w.minSize.Height > 0 && granted.Height < w.minSize.Height {
		granted.Height = w.minSize.Height
	}
	if w.maxSize.Width > 0 && granted.Width > w.maxSize.Width {
		granted.Width = w.maxSize.Width
	}
	if w.maxSize.Height > 0 && granted.Height > w.maxSize.Height {
		granted.Height = w.maxSize.Height
	}

	w.win.Resize(granted.Width, granted.Height)
	w.lastSize = granted
	if !w.resizable {
		// Non-resizable windows pin min=max; move the pin with the size.
		w.writeNormalHints(granted, granted)
	}
	return granted, true
}

func (w *Window) SetCursorIcon(icon window.CursorIcon) {
	shapeID, ok := cursorFontShape(icon)
	if !ok {
		w.logger.Warn("unknown cursor icon", "icon", string(icon))
		return
	}
	cursor, err := xcursor.CreateCursor(w.xu, shapeID)
	if err != nil {
		w.logger.Error("failed to create cursor", "icon", string(icon), "error", err)
		return
	}
	xproto.ChangeWindowAttributes(w.xu.Conn(), w.id, xproto.CwCursor, []uint32{uint32(cursor)})
	w.currentCursorIcon = icon
}

func (w *Window) SetCursorGrab(mode window.GrabMode) error {
	switch mode {
	case window.GrabNone:
		xproto.UngrabPointer(w.xu.Conn(), xproto.TimeCurrentTime)
		return nil
	case window.GrabConfined:
		reply, err := xproto.GrabPointer(
			w.xu.Conn(), true, w.id,
			uint16(xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion),
			xproto.GrabModeAsync, xproto.GrabModeAsync,
			w.id, xproto.CursorNone, xproto.TimeCurrentTime,
		).Reply()
		if err != nil {
			return fmt.Errorf("pointer grab failed: %w", err)
		}
		if reply.Status != xproto.GrabStatusSuccess {
			return fmt.Errorf("pointer grab refused with status %d", reply.Status)
		}
		return nil
	case window.GrabLocked:
		// X11 has no pointer lock; callers fall back to confinement.
		return fmt.Errorf("locked cursor grab is not supported on x11")
	}
	return fmt.Errorf("unknown grab mode %d", mode)
}

func (w *Window) SetCursorVisible(visible bool) {
	if visible {
		icon := w.currentCursorIcon
		if icon == "" {
			icon = window.CursorDefault
		}
		w.SetCursorIcon(icon)
		return
	}

	if !w.blankCursorMade {
		cursor, err := w.makeBlankCursor()
		if err != nil {
			w.logger.Error("failed to create blank cursor", "error", err)
			return
		}
		w.blankCursor = cursor
		w.blankCursorMade = true
	}
	xproto.ChangeWindowAttributes(w.xu.Conn(), w.id, xproto.CwCursor, []uint32{uint32(w.blankCursor)})
}

func (w *Window) makeBlankCursor() (xproto.Cursor, error) {
	conn := w.xu.Conn()
	pixmap, err := xproto.NewPixmapId(conn)
	if err != nil {
		return 0, err
	}
	cursor, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreatePixmapChecked(conn, 1, pixmap, xproto.Drawable(w.conn.Root), 1, 1).Check(); err != nil {
		return 0, err
	}
	defer xproto.FreePixmap(conn, pixmap)
	if err := xproto.CreateCursorChecked(conn, cursor, pixmap, pixmap, 0, 0, 0, 0, 0, 0, 0, 0).Check(); err != nil {
		return 0, err
	}
	return cursor, nil
}

func (w *Window) SetCursorPosition(pos window.PhysicalPoint) error {
	err := xproto.WarpPointerChecked(
		w.xu.Conn(), xproto.WindowNone, w.id,
		0, 0, 0, 0, int16(pos.X), int16(pos.Y),
	).Check()
	if err != nil {
		return fmt.Errorf("warp pointer failed: %w", err)
	}
	return nil
}

// SetCursorHitTest toggles the input region via the Shape extension: an empty
// input region makes the window click-through.
func (w *Window) SetCursorHitTest(enabled bool) error {
	conn := w.xu.Conn()
	if enabled {
		err := shape.MaskChecked(conn, shape.SoSet, shape.SkInput, w.id, 0, 0, xproto.PixmapNone).Check()
		if err != nil {
			return fmt.Errorf("failed to reset input region: %w", err)
		}
		return nil
	}
	err := shape.RectanglesChecked(
		conn, shape.SoSet, shape.SkInput, xproto.ClipOrderingUnsorted,
		w.id, 0, 0, nil,
	).Check()
	if err != nil {
		return fmt.Errorf("failed to clear input region: %w", err)
	}
	return nil
}

func (w *Window) IsDecorated() bool { return w.decorated }

func (w *Window) SetDecorations(decorated bool) {
	w.decorated = decorated
	w.applyMotifHints()
}

func (w *Window) IsResizable() bool { return w.resizable }

func (w *Window) SetResizable(resizable bool) {
	w.resizable = resizable
	if resizable {
		w.writeNormalHints(w.minSize, w.maxSize)
	} else {
		w.writeNormalHints(w.lastSize, w.lastSize)
	}
	w.applyMotifHints()
}

func (w *Window) SetEnabledButtons(buttons window.Buttons) {
	w.buttons = buttons
	w.applyMotifHints()
}

func (w *Window) SetMinInnerSize(size window.Size) {
	w.minSize = physicalFromLogical(size, w.ScaleFactor())
	if w.resizable {
		w.writeNormalHints(w.minSize, w.maxSize)
	}
}

func (w *Window) SetMaxInnerSize(size window.Size) {
	w.maxSize = physicalFromLogical(size, w.ScaleFactor())
	if w.resizable {
		w.writeNormalHints(w.minSize, w.maxSize)
	}
}

func (w *Window) OuterPosition() (window.PhysicalPoint, error) {
	translate, err := xproto.TranslateCoordinates(w.xu.Conn(), w.id, w.conn.Root, 0, 0).Reply()
	if err != nil {
		return window.PhysicalPoint{}, fmt.Errorf("failed to translate coordinates: %w", err)
	}
	pos := window.PhysicalPoint{X: int(translate.DstX), Y: int(translate.DstY)}

	// The translated point is the client origin; back out the frame.
	if extents, err := ewmh.FrameExtentsGet(w.xu, w.id); err == nil {
		pos.X -= extents.Left
		pos.Y -= extents.Top
	}
	return pos, nil
}

func (w *Window) SetOuterPosition(pos window.PhysicalPoint) {
	w.win.Move(pos.X, pos.Y)
}

func (w *Window) SetMaximized(maximized bool) {
	action := ewmh.StateAdd
	if !maximized {
		action = ewmh.StateRemove
	}
	ewmh.WmStateReqExtra(w.xu, w.id, action, "_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", 1)
}

func (w *Window) SetMinimized(minimized bool) {
	if minimized {
		ewmh.ClientEvent(w.xu, w.id, "WM_CHANGE_STATE", icccm.StateIconic)
		return
	}
	w.win.Map()
	w.mapped = true
}

func (w *Window) Focus() {
	if err := ewmh.ActiveWindowReq(w.xu, w.id); err != nil {
		w.logger.Error("failed to request focus", "id", w.id, "error", err)
	}
}

func (w *Window) SetLevel(level window.Level) {
	ewmh.WmStateReq(w.xu, w.id, ewmh.StateRemove, "_NET_WM_STATE_ABOVE")
	ewmh.WmStateReq(w.xu, w.id, ewmh.StateRemove, "_NET_WM_STATE_BELOW")
	switch level {
	case window.LevelAlwaysOnTop:
		ewmh.WmStateReq(w.xu, w.id, ewmh.StateAdd, "_NET_WM_STATE_ABOVE")
	case window.LevelAlwaysOnBottom:
		ewmh.WmStateReq(w.xu, w.id, ewmh.StateAdd, "_NET_WM_STATE_BELOW")
	}
}

func (w *Window) Theme() (window.Theme, bool) {
	variant, err := xprop.PropValStr(xprop.GetProperty(w.xu, w.id, gtkThemeVariantProp))
	if err != nil {
		return 0, false
	}
	switch variant {
	case "dark":
		return window.ThemeDark, true
	case "light":
		return window.ThemeLight, true
	}
	return 0, false
}

func (w *Window) SetTheme(theme *window.Theme) {
	if theme == nil {
		if atom, err := xprop.Atm(w.xu, gtkThemeVariantProp); err == nil {
			xproto.DeleteProperty(w.xu.Conn(), w.id, atom)
		}
		return
	}
	xprop.ChangeProp(w.xu, w.id, 8, gtkThemeVariantProp, "UTF8_STRING", []byte(theme.String()))
}

func (w *Window) SetVisible(visible bool) {
	if visible {
		w.win.Map()
	} else {
		w.win.Unmap()
	}
	w.mapped = visible
}

// SetImeAllowed is a no-op on this backend: input-method routing follows the
// focused window without a per-window opt-in.
func (w *Window) SetImeAllowed(allowed bool) {}

// SetImeCursorArea publishes the candidate-window anchor for input methods
// that read the XIM spot location.
func (w *Window) SetImeCursorArea(pos window.Point, size window.Size) {
	scale := w.ScaleFactor()
	x := uint(math.Round(pos.X * scale))
	y := uint(math.Round(pos.Y * scale))
	xprop.ChangeProp32(w.xu, w.id, "_XIM_SPOT_LOCATION", "CARDINAL", x, y)
}

func (w *Window) ScaleFactor() float64 { return w.conn.ScaleFactor() }

func (w *Window) CurrentMonitor() (*native.Monitor, bool) {
	translate, err := xproto.TranslateCoordinates(w.xu.Conn(), w.id, w.conn.Root, 0, 0).Reply()
	if err != nil {
		return nil, false
	}
	centerX := int(translate.DstX) + w.lastSize.Width/2
	centerY := int(translate.DstY) + w.lastSize.Height/2
	return w.conn.monitorAt(centerX, centerY)
}

func (w *Window) PrimaryMonitor() (*native.Monitor, bool) {
	return w.conn.PrimaryMonitor()
}

func (w *Window) AvailableMonitors() []native.Monitor {
	monitors, err := w.conn.Monitors()
	if err != nil {
		w.logger.Error("failed to list monitors", "error", err)
		return nil
	}
	return monitors
}

func (w *Window) Destroy() {
	if w.restoreMode != nil {
		w.SetFullscreen(nil)
	}
	w.win.Destroy()
}

func (w *Window) applyMotifHints() {
	functions := uint(mwmFuncMove | mwmFuncClose)
	if w.resizable {
		functions |= mwmFuncResize
	}
	if w.buttons.Minimize {
		functions |= mwmFuncMinimize
	}
	if w.buttons.Maximize {
		functions |= mwmFuncMaximize
	}
	if !w.buttons.Close {
		functions &^= mwmFuncClose
	}

	decorations := uint(0)
	if w.decorated {
		decorations = mwmDecorAll
	}

	err := xprop.ChangeProp32(
		w.xu, w.id, "_MOTIF_WM_HINTS", "_MOTIF_WM_HINTS",
		mwmHintsFunctions|mwmHintsDecorations, functions, decorations, 0, 0,
	)
	if err != nil {
		w.logger.Error("failed to set motif hints", "id", w.id, "error", err)
	}
}

// applyNormalHints derives the WM_NORMAL_HINTS pins from the record's
// logical constraints.
func (w *Window) applyNormalHints(c window.Constraints, scale float64) {
	c = c.Check()
	w.minSize = physicalFromLogical(window.Size{Width: c.MinWidth, Height: c.MinHeight}, scale)
	if !math.IsInf(c.MaxWidth, 1) && !math.IsInf(c.MaxHeight, 1) {
		w.maxSize = physicalFromLogical(window.Size{Width: c.MaxWidth, Height: c.MaxHeight}, scale)
	}
	if w.resizable {
		w.writeNormalHints(w.minSize, w.maxSize)
	} else {
		w.writeNormalHints(w.lastSize, w.lastSize)
	}
}

func (w *Window) writeNormalHints(min, max window.PhysicalSize) {
	hints := icccm.NormalHints{}
	if min.Width > 0 || min.Height > 0 {
		hints.Flags |= icccm.SizeHintPMinSize
		hints.MinWidth = uint(min.Width)
		hints.MinHeight = uint(min.Height)
	}
	if max.Width > 0 || max.Height > 0 {
		hints.Flags |= icccm.SizeHintPMaxSize
		hints.MaxWidth = uint(max.Width)
		hints.MaxHeight = uint(max.Height)
	}
	if err := icccm.WmNormalHintsSet(w.xu, w.id, &hints); err != nil {
		w.logger.Error("failed to set normal hints", "id", w.id, "error", err)
	}
}

func physicalFromLogical(size window.Size, scale float64) window.PhysicalSize {
	return window.PhysicalSize{
		Width:  int(math.Round(size.Width * scale)),
		Height: int(math.Round(size.Height * scale)),
	}
}

// cursorFontShape maps a cursor icon name to its X cursor font glyph.
func cursorFontShape(icon window.CursorIcon) (uint16, bool) {
	switch icon {
	case window.CursorDefault:
		return xcursor.LeftPtr, true
	case window.CursorPointer:
		return xcursor.Hand2, true
	case window.CursorCrosshair:
		return xcursor.Crosshair, true
	case window.CursorText:
		return xcursor.XTerm, true
	case window.CursorMove:
		return xcursor.Fleur, true
	case window.CursorWait:
		return xcursor.Watch, true
	}
	return 0, false
}
