package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winstate/internal/native"
	"github.com/1broseidon/winstate/internal/window"
)

// Backend creates native X11 windows. It also serves monitor queries for the
// IPC layer; RandR requests are safe off the daemon goroutine because xgb
// serializes them internally.
type Backend struct {
	conn   *Connection
	logger *slog.Logger
}

// NewBackend wraps an established connection.
func NewBackend(conn *Connection, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{conn: conn, logger: logger}
}

// Monitors lists the current monitor topology.
func (b *Backend) Monitors() ([]native.Monitor, error) {
	return b.conn.Monitors()
}

// CreateWindow constructs and maps an X11 window matching the record.
func (b *Backend) CreateWindow(spec *window.Window, opts *native.CreateOptions) (native.Window, error) {
	xu := b.conn.XUtil
	conn := xu.Conn()
	screen := xu.Screen()

	id, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	visual := screen.RootVisual
	depth := screen.RootDepth
	valueMask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwEventMask)
	eventMask := uint32(xproto.EventMaskStructureNotify | xproto.EventMaskPropertyChange)

	// Transparency needs an ARGB visual with its own colormap; falling back
	// to the root visual yields an opaque window.
	var colormap xproto.Colormap
	if spec.Transparent {
		if v, d, ok := findARGBVisual(screen); ok {
			visual, depth = v, d
			colormap, err = xproto.NewColormapId(conn)
			if err != nil {
				return nil, fmt.Errorf("failed to allocate colormap id: %w", err)
			}
			xproto.CreateColormap(conn, xproto.ColormapAllocNone, colormap, b.conn.Root, visual)
		} else {
			b.logger.Warn("no argb visual available, window will be opaque", "title", spec.Title)
		}
	}

	x, y := 0, 0
	if spec.Position.Kind == window.PositionAt {
		x, y = spec.Position.At.X, spec.Position.At.Y
	}
	size := spec.PhysicalSize()

	if opts != nil && opts.OverrideRedirect {
		valueMask |= xproto.CwOverrideRedirect
	}
	if colormap != 0 {
		valueMask |= xproto.CwColormap
	}
	values := windowAttributeValues(valueMask, eventMask, opts != nil && opts.OverrideRedirect, colormap)

	err = xproto.CreateWindowChecked(
		conn, depth, id, b.conn.Root,
		int16(x), int16(y), uint16(size.Width), uint16(size.Height),
		0, xproto.WindowClassInputOutput, visual, valueMask, values,
	).Check()
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	class := spec.Class
	if opts != nil && opts.Class != "" {
		class = opts.Class
	}
	if err := icccm.WmClassSet(xu, id, &icccm.WmClass{Instance: class, Class: class}); err != nil {
		return nil, fmt.Errorf("failed to set window class: %w", err)
	}
	if err := ewmh.WmNameSet(xu, id, spec.Title); err != nil {
		return nil, fmt.Errorf("failed to set window title: %w", err)
	}
	icccm.WmProtocolsSet(xu, id, []string{"WM_DELETE_WINDOW"})
	ewmh.WmWindowTypeSet(xu, id, []string{"_NET_WM_WINDOW_TYPE_NORMAL"})

	if opts != nil {
		for name, value := range opts.Properties {
			xprop.ChangeProp(xu, id, 8, name, "UTF8_STRING", []byte(value))
		}
	}

	w := &Window{
		conn:      b.conn,
		xu:        xu,
		id:        id,
		win:       xwindow.New(xu, id),
		logger:    b.logger,
		decorated: spec.Decorations,
		resizable: spec.Resizable,
		buttons:   spec.EnabledButtons,
		lastSize:  size,
	}

	w.applyMotifHints()
	w.applyNormalHints(spec.Constraints, spec.ScaleFactor())

	// Initial EWMH states are set as a property before mapping; once the
	// window is mapped, state changes go through client messages.
	var states []string
	switch spec.Level {
	case window.LevelAlwaysOnTop:
		states = append(states, "_NET_WM_STATE_ABOVE")
	case window.LevelAlwaysOnBottom:
		states = append(states, "_NET_WM_STATE_BELOW")
	}
	if spec.Mode != window.ModeWindowed {
		states = append(states, "_NET_WM_STATE_FULLSCREEN")
		w.fullscreen = &native.Fullscreen{}
	}
	if len(states) > 0 {
		ewmh.WmStateSet(xu, id, states)
	}

	if spec.Mode == window.ModeFullscreen || spec.Mode == window.ModeSizedFullscreen {
		w.enterExclusiveFullscreen(spec)
	}

	if spec.Visible {
		w.win.Map()
		w.mapped = true
		if spec.Focused {
			ewmh.ActiveWindowReq(xu, id)
		}
	}

	b.logger.Debug("created x11 window", "id", id, "class", class, "width", size.Width, "height", size.Height)
	return w, nil
}

// enterExclusiveFullscreen picks a video mode for the monitor under the
// window and switches the CRTC to it.
func (w *Window) enterExclusiveFullscreen(spec *window.Window) {
	mon, ok := w.CurrentMonitor()
	if !ok {
		w.logger.Warn("no monitor for exclusive fullscreen at creation", "id", w.id)
		return
	}
	var vm native.VideoMode
	var found bool
	if spec.Mode == window.ModeSizedFullscreen {
		vm, found = native.FittingVideoMode(mon, int(spec.Width()), int(spec.Height()))
	} else {
		vm, found = native.BestVideoMode(mon)
	}
	if !found {
		w.logger.Warn("monitor has no mode lines for exclusive fullscreen", "monitor", mon.Name)
		return
	}
	if err := w.conn.setCrtcMode(mon, vm); err != nil {
		w.logger.Warn("failed to switch video mode", "error", err)
		return
	}
	w.fullscreen = &native.Fullscreen{Exclusive: true, Mode: vm}
	w.restoreMode = &native.VideoMode{Width: mon.Width, Height: mon.Height}
}

// windowAttributeValues orders attribute values by ascending mask bit, as the
// protocol requires.
func windowAttributeValues(mask uint32, eventMask uint32, overrideRedirect bool, colormap xproto.Colormap) []uint32 {
	values := []uint32{0, 0} // CwBackPixel, CwBorderPixel
	if mask&xproto.CwOverrideRedirect != 0 {
		v := uint32(0)
		if overrideRedirect {
			v = 1
		}
		values = append(values, v)
	}
	values = append(values, eventMask)
	if mask&xproto.CwColormap != 0 {
		values = append(values, uint32(colormap))
	}
	return values
}

func findARGBVisual(screen *xproto.ScreenInfo) (xproto.Visualid, byte, bool) {
	for _, depthInfo := range screen.AllowedDepths {
		if depthInfo.Depth != 32 {
			continue
		}
		for _, visual := range depthInfo.Visuals {
			if visual.Class == xproto.VisualClassTrueColor {
				return visual.VisualId, depthInfo.Depth, true
			}
		}
	}
	return 0, 0, false
}
