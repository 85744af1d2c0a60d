package daemon

import (
	"log/slog"
	"math"

	"github.com/1broseidon/winstate/internal/native"
	"github.com/1broseidon/winstate/internal/window"
)

// The reconciliation stage diffs every changed record against its cached
// snapshot field by field and pushes each differing field to the native
// handle. Some fields feed back into the record (resize results), some are
// rejected and reverted (transparency, class, failed hit-test), and one-shot
// commands are consumed after all persistent fields so a simultaneous mode or
// resolution change cannot override them.

func (s *Synchronizer) reconcileWindows() {
	for _, id := range s.store.TakeChanged() {
		nw, ok := s.registry.Get(id)
		if !ok {
			// The window may be mid-teardown; skip silently.
			continue
		}
		s.cacheMu.RLock()
		cache, ok := s.caches[id]
		s.cacheMu.RUnlock()
		if !ok {
			continue
		}

		retry := false
		s.store.WithWindow(id, func(w *window.Window) {
			retry = s.reconcileOne(id, w, &cache, nw)
		})
		s.cacheMu.Lock()
		s.caches[id] = cache
		s.cacheMu.Unlock()

		if retry {
			// Keep a deferred fullscreen switch hot so the next
			// cycle retries without an external re-trigger.
			s.store.MarkChanged(id)
		}
	}
}

func (s *Synchronizer) reconcileOne(id window.ID, w *window.Window, cache *window.Window, nw native.Window) bool {
	deferred := false

	if w.Title != cache.Title {
		nw.SetTitle(w.Title)
	}

	if w.Mode != cache.Mode {
		var target *native.Fullscreen
		apply := true

		switch w.Mode {
		case window.ModeBorderlessFullscreen:
			target = &native.Fullscreen{}
		case window.ModeFullscreen, window.ModeSizedFullscreen:
			mon, ok := nw.CurrentMonitor()
			if !ok || mon == nil {
				s.logger.Warn("could not determine current monitor, deferring fullscreen request", "title", w.Title, "id", id)
				apply = false
				deferred = true
			} else {
				var vm native.VideoMode
				var found bool
				if w.Mode == window.ModeFullscreen {
					vm, found = native.BestVideoMode(mon)
				} else {
					vm, found = native.FittingVideoMode(mon, int(w.Width()), int(w.Height()))
				}
				if !found {
					s.logger.Warn("monitor reports no video modes, deferring fullscreen request", "monitor", mon.Name, "id", id)
					apply = false
					deferred = true
				} else {
					target = &native.Fullscreen{Exclusive: true, Mode: vm}
				}
			}
		case window.ModeWindowed:
			target = nil
		}

		if apply && !nw.Fullscreen().Equal(target) {
			nw.SetFullscreen(target)
		}
	}

	if w.Resolution != cache.Resolution {
		if granted, ok := nw.RequestInnerSize(w.PhysicalSize()); ok {
			s.reactToResize(id, w, granted)
		}
	}

	if !physicalPointsEqual(w.PhysicalCursorPosition(), cache.PhysicalCursorPosition()) {
		// Clearing the position is a no-op, never "move to origin".
		if pos := w.PhysicalCursorPosition(); pos != nil {
			if err := nw.SetCursorPosition(*pos); err != nil {
				s.logger.Error("could not set cursor position", "id", id, "error", err)
			}
		}
	}

	if w.Cursor.Icon != cache.Cursor.Icon {
		nw.SetCursorIcon(w.Cursor.Icon)
	}

	if w.Cursor.GrabMode != cache.Cursor.GrabMode {
		attemptGrab(nw, w.Cursor.GrabMode, s.logger)
	}

	if w.Cursor.Visible != cache.Cursor.Visible {
		nw.SetCursorVisible(w.Cursor.Visible)
	}

	if w.Cursor.HitTest != cache.Cursor.HitTest {
		if err := nw.SetCursorHitTest(w.Cursor.HitTest); err != nil {
			w.Cursor.HitTest = cache.Cursor.HitTest
			s.logger.Warn("could not set cursor hit test", "title", w.Title, "id", id, "error", err)
		}
	}

	// Double-check against the native layer's reported state so a stale
	// cache cannot cause a redundant call.
	if w.Decorations != cache.Decorations && w.Decorations != nw.IsDecorated() {
		nw.SetDecorations(w.Decorations)
	}

	if w.Resizable != cache.Resizable && w.Resizable != nw.IsResizable() {
		nw.SetResizable(w.Resizable)
	}

	if w.EnabledButtons != cache.EnabledButtons {
		nw.SetEnabledButtons(w.EnabledButtons)
	}

	if w.Constraints != cache.Constraints {
		c := w.Constraints.Check()
		nw.SetMinInnerSize(window.Size{Width: c.MinWidth, Height: c.MinHeight})
		// Native layers reject infinite bounds; only push a max when
		// both dimensions are finite.
		if !math.IsInf(c.MaxWidth, 1) && !math.IsInf(c.MaxHeight, 1) {
			nw.SetMaxInnerSize(window.Size{Width: c.MaxWidth, Height: c.MaxHeight})
		}
	}

	if w.Position != cache.Position {
		current, _ := nw.CurrentMonitor()
		primary, _ := nw.PrimaryMonitor()
		if pos, ok := resolvePosition(&w.Position, &w.Resolution, nw.AvailableMonitors(), primary, current, s.logger); ok {
			shouldSet := true
			if reported, err := nw.OuterPosition(); err == nil {
				shouldSet = reported != pos
			}
			if shouldSet {
				nw.SetOuterPosition(pos)
			}
		}
	}

	// Focus is monotonic: the record can drive it true, never false.
	if w.Focused != cache.Focused && w.Focused {
		nw.Focus()
	}

	if w.Level != cache.Level {
		nw.SetLevel(w.Level)
	}

	// Unsupported post-creation changes: revert and warn.
	if w.Transparent != cache.Transparent {
		w.Transparent = cache.Transparent
		s.logger.Warn("transparency cannot be changed after window creation", "id", id)
	}

	if w.Class != cache.Class {
		w.Class = cache.Class
		s.logger.Warn("window class cannot be changed after window creation", "id", id)
	}

	if w.ImeEnabled != cache.ImeEnabled {
		nw.SetImeAllowed(w.ImeEnabled)
	}

	if w.ImePosition != cache.ImePosition {
		nw.SetImeCursorArea(w.ImePosition, window.Size{Width: 10, Height: 10})
	}

	if !themesEqual(w.Theme, cache.Theme) {
		nw.SetTheme(w.Theme)
	}

	if w.Visible != cache.Visible {
		nw.SetVisible(w.Visible)
	}

	// One-shot commands run last so a simultaneous mode or resolution
	// change cannot override them within the same pass.
	if maximized, ok := w.TakeMaximizeRequest(); ok {
		nw.SetMaximized(maximized)
	}
	if minimized, ok := w.TakeMinimizeRequest(); ok {
		nw.SetMinimized(minimized)
	}

	oldMode := cache.Mode
	*cache = w.Clone()
	if deferred {
		// Keep the stale mode in the snapshot so the diff stays hot.
		cache.Mode = oldMode
	}
	return deferred
}

func (s *Synchronizer) reactToResize(id window.ID, w *window.Window, granted window.PhysicalSize) {
	w.Resolution.SetPhysical(granted.Width, granted.Height)
	s.events.WindowResized(id, granted)
}

// attemptGrab applies a cursor grab mode; a rejected locked grab retries as
// confined before giving up.
func attemptGrab(nw native.Window, mode window.GrabMode, logger *slog.Logger) {
	err := nw.SetCursorGrab(mode)
	if err == nil {
		return
	}
	if mode == window.GrabLocked {
		if confineErr := nw.SetCursorGrab(window.GrabConfined); confineErr == nil {
			logger.Warn("locked cursor grab unavailable, confined instead", "error", err)
			return
		}
	}
	logger.Warn("could not set cursor grab mode", "mode", int(mode), "error", err)
}

func physicalPointsEqual(a, b *window.PhysicalPoint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func themesEqual(a, b *window.Theme) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
