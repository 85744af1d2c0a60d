package daemon

import (
	"github.com/1broseidon/winstate/internal/native"
	"github.com/1broseidon/winstate/internal/window"
)

// The creation stage constructs a native window for every record that has no
// live handle yet, pulls back the native-authoritative facts (theme, scale
// factor, surface handle), and establishes the cached snapshot.

func (s *Synchronizer) createWindows() {
	for _, id := range s.store.IDs() {
		if _, ok := s.registry.Get(id); ok {
			continue
		}

		s.store.WithWindow(id, func(w *window.Window) {
			s.logger.Info("creating window", "title", w.Title, "id", id)

			opts := &native.CreateOptions{Class: w.Class}
			s.hookMu.Lock()
			hook, hasHook := s.hooks[id]
			s.hookMu.Unlock()
			if hasHook {
				hook.BuildHook(w, opts)
			}

			nw, err := s.registry.Create(id, w, opts)
			if err != nil {
				s.logger.Error("failed to create window", "id", id, "error", err)
				return
			}

			// The native layer is authoritative for theme and scale
			// factor at creation time only.
			if theme, ok := nw.Theme(); ok {
				w.Theme = &theme
			}
			w.Resolution.SetScaleFactor(nw.ScaleFactor())
			w.Handle = nw.Handle()

			// Place the window now: the snapshot taken below will equal
			// the record, so the reconcile diff cannot fire for the
			// initial position. Resolved after the scale factor is known.
			if w.Position.Kind != window.PositionAutomatic {
				current, _ := nw.CurrentMonitor()
				primary, _ := nw.PrimaryMonitor()
				if pos, ok := resolvePosition(&w.Position, &w.Resolution, nw.AvailableMonitors(), primary, current, s.logger); ok {
					nw.SetOuterPosition(pos)
				}
			}

			if hasHook {
				hook.WindowHook(w, nw)
				s.hookMu.Lock()
				s.hookCaches[id] = hook.Clone()
				s.hookMu.Unlock()
			}

			s.cacheMu.Lock()
			s.caches[id] = w.Clone()
			s.cacheMu.Unlock()
			s.events.WindowCreated(id)
		})
	}
}
