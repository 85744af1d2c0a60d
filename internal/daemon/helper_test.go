package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/1broseidon/winstate/internal/native"
	"github.com/1broseidon/winstate/internal/store"
	"github.com/1broseidon/winstate/internal/window"
)

// fakeWindow implements native.Window in memory and records every mutating
// native call by name so tests can assert exact call counts.
type fakeWindow struct {
	handle uintptr
	calls  []string

	title      string
	fullscreen *native.Fullscreen
	decorated  bool
	resizable  bool
	visible    bool
	maximized  bool
	minimized  bool
	focused    bool

	scale      float64
	theme      window.Theme
	themeKnown bool

	// grant, when set, is the size the native layer grants instead of the
	// requested one. sizeDeferred makes RequestInnerSize report the
	// request as in flight.
	grant        *window.PhysicalSize
	sizeDeferred bool

	outerPos    window.PhysicalPoint
	outerPosErr error

	cursorPosErr error
	hitTestErr   error
	grabErr      map[window.GrabMode]error

	monitors []native.Monitor
	current  *native.Monitor
	primary  *native.Monitor

	destroyed bool
}

func (f *fakeWindow) record(call string) { f.calls = append(f.calls, call) }

func (f *fakeWindow) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeWindow) Handle() uintptr { return f.handle }

func (f *fakeWindow) SetTitle(title string) {
	f.record("SetTitle")
	f.title = title
}

func (f *fakeWindow) Fullscreen() *native.Fullscreen { return f.fullscreen }

func (f *fakeWindow) SetFullscreen(fs *native.Fullscreen) {
	f.record("SetFullscreen")
	f.fullscreen = fs
}

func (f *fakeWindow) RequestInnerSize(size window.PhysicalSize) (window.PhysicalSize, bool) {
	f.record("RequestInnerSize")
	if f.sizeDeferred {
		return window.PhysicalSize{}, false
	}
	if f.grant != nil {
		return *f.grant, true
	}
	return size, true
}

func (f *fakeWindow) SetCursorIcon(icon window.CursorIcon) { f.record("SetCursorIcon") }

func (f *fakeWindow) SetCursorGrab(mode window.GrabMode) error {
	f.record("SetCursorGrab")
	if f.grabErr != nil {
		return f.grabErr[mode]
	}
	return nil
}

func (f *fakeWindow) SetCursorVisible(visible bool) { f.record("SetCursorVisible") }

func (f *fakeWindow) SetCursorPosition(pos window.PhysicalPoint) error {
	f.record("SetCursorPosition")
	return f.cursorPosErr
}

func (f *fakeWindow) SetCursorHitTest(enabled bool) error {
	f.record("SetCursorHitTest")
	return f.hitTestErr
}

func (f *fakeWindow) IsDecorated() bool { return f.decorated }

func (f *fakeWindow) SetDecorations(decorated bool) {
	f.record("SetDecorations")
	f.decorated = decorated
}

func (f *fakeWindow) IsResizable() bool { return f.resizable }

func (f *fakeWindow) SetResizable(resizable bool) {
	f.record("SetResizable")
	f.resizable = resizable
}

func (f *fakeWindow) SetEnabledButtons(buttons window.Buttons) { f.record("SetEnabledButtons") }

func (f *fakeWindow) SetMinInnerSize(size window.Size) { f.record("SetMinInnerSize") }
func (f *fakeWindow) SetMaxInnerSize(size window.Size) { f.record("SetMaxInnerSize") }

func (f *fakeWindow) OuterPosition() (window.PhysicalPoint, error) {
	return f.outerPos, f.outerPosErr
}

func (f *fakeWindow) SetOuterPosition(pos window.PhysicalPoint) {
	f.record("SetOuterPosition")
	f.outerPos = pos
}

func (f *fakeWindow) SetMaximized(maximized bool) {
	f.record("SetMaximized")
	f.maximized = maximized
}

func (f *fakeWindow) SetMinimized(minimized bool) {
	f.record("SetMinimized")
	f.minimized = minimized
}

func (f *fakeWindow) Focus() {
	f.record("Focus")
	f.focused = true
}

func (f *fakeWindow) SetLevel(level window.Level) { f.record("SetLevel") }

func (f *fakeWindow) Theme() (window.Theme, bool) { return f.theme, f.themeKnown }

func (f *fakeWindow) SetTheme(theme *window.Theme) { f.record("SetTheme") }

func (f *fakeWindow) SetVisible(visible bool) {
	f.record("SetVisible")
	f.visible = visible
}

func (f *fakeWindow) SetImeAllowed(allowed bool) { f.record("SetImeAllowed") }

func (f *fakeWindow) SetImeCursorArea(pos window.Point, size window.Size) {
	f.record("SetImeCursorArea")
}

func (f *fakeWindow) ScaleFactor() float64 { return f.scale }

func (f *fakeWindow) CurrentMonitor() (*native.Monitor, bool) {
	return f.current, f.current != nil
}

func (f *fakeWindow) PrimaryMonitor() (*native.Monitor, bool) {
	return f.primary, f.primary != nil
}

func (f *fakeWindow) AvailableMonitors() []native.Monitor { return f.monitors }

func (f *fakeWindow) Destroy() {
	f.record("Destroy")
	f.destroyed = true
}

var _ native.Window = (*fakeWindow)(nil)

// fakeBackend creates fakeWindows seeded with the backend's monitor topology
// and native-reported theme/scale.
type fakeBackend struct {
	scale      float64
	theme      *window.Theme
	monitors   []native.Monitor
	current    *native.Monitor
	primary    *native.Monitor
	createErr  error
	nextHandle uintptr

	created  []*fakeWindow
	lastOpts *native.CreateOptions
}

func (b *fakeBackend) CreateWindow(spec *window.Window, opts *native.CreateOptions) (native.Window, error) {
	if b.createErr != nil {
		return nil, b.createErr
	}
	b.nextHandle++
	scale := b.scale
	if scale == 0 {
		scale = 1
	}
	fw := &fakeWindow{
		handle:    b.nextHandle,
		title:     spec.Title,
		decorated: spec.Decorations,
		resizable: spec.Resizable,
		visible:   spec.Visible,
		scale:     scale,
		monitors:  b.monitors,
		current:   b.current,
		primary:   b.primary,
	}
	if b.theme != nil {
		fw.theme = *b.theme
		fw.themeKnown = true
	}
	b.created = append(b.created, fw)
	b.lastOpts = opts
	return fw, nil
}

var _ native.Backend = (*fakeBackend)(nil)

// logCapture is an slog.Handler that retains formatted records for
// assertions on warnings.
type logCapture struct {
	mu    sync.Mutex
	lines []string
}

func (l *logCapture) Enabled(context.Context, slog.Level) bool { return true }

func (l *logCapture) Handle(_ context.Context, r slog.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf("%s %s", r.Level, r.Message))
	return nil
}

func (l *logCapture) WithAttrs([]slog.Attr) slog.Handler { return l }
func (l *logCapture) WithGroup(string) slog.Handler      { return l }

func (l *logCapture) countWarnings(substr string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if strings.HasPrefix(line, "WARN") && strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// harness wires a store, registry, synchronizer, event recorder, and log
// capture around a fake backend.
type harness struct {
	backend *fakeBackend
	store   *store.Store
	sync    *Synchronizer
	events  *Recorder
	logs    *logCapture
}

func newHarness(backend *fakeBackend) *harness {
	logs := &logCapture{}
	logger := slog.New(logs)
	events := &Recorder{}
	st := store.New()
	reg := native.NewRegistry(backend, logger)
	s := New(Config{Logger: logger, Events: events}, st, reg)
	return &harness{backend: backend, store: st, sync: s, events: events, logs: logs}
}

// open inserts a record and runs one cycle so the native window exists and
// the snapshot is established.
func (h *harness) open(w *window.Window) (window.ID, *fakeWindow) {
	id := h.store.Insert(w)
	h.sync.RunCycle()
	if len(h.backend.created) == 0 {
		return id, nil
	}
	return id, h.backend.created[len(h.backend.created)-1]
}

// totalCalls counts mutating native calls across all created windows.
func (h *harness) totalCalls() int {
	n := 0
	for _, fw := range h.backend.created {
		n += len(fw.calls)
	}
	return n
}
