package daemon

import (
	"github.com/1broseidon/winstate/internal/native"
	"github.com/1broseidon/winstate/internal/window"
)

// Hook is extra per-window data that participates in the create/diff/apply
// protocol alongside the window record itself. Implementations customize
// native window construction and push their own changes to the handle.
type Hook interface {
	// BuildHook edits the creation options before the native window is
	// constructed.
	BuildHook(w *window.Window, opts *native.CreateOptions)
	// WindowHook runs once right after the native window is created.
	WindowHook(w *window.Window, nw native.Window)
	// ChangedHook runs when the hook data differs from its cached copy;
	// cached is the previously applied value.
	ChangedHook(nw native.Window, cached Hook)
	// Changed reports whether the hook differs from its cached copy.
	Changed(cached Hook) bool
	// Clone returns an independent copy used as the cache entry.
	Clone() Hook
}

// NoHook is the no-op hook for windows carrying no auxiliary data.
type NoHook struct{}

func (NoHook) BuildHook(*window.Window, *native.CreateOptions) {}
func (NoHook) WindowHook(*window.Window, native.Window)        {}
func (NoHook) ChangedHook(native.Window, Hook)                 {}
func (NoHook) Changed(Hook) bool                               { return false }
func (NoHook) Clone() Hook                                     { return NoHook{} }

// SetHook attaches auxiliary data to a window record. It participates in the
// next creation or reconciliation pass.
func (s *Synchronizer) SetHook(id window.ID, h Hook) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()

	if h == nil {
		delete(s.hooks, id)
		delete(s.hookCaches, id)
		return
	}
	s.hooks[id] = h
}

// reconcileHooks is the per-cycle diff pass for hook data: on change, call
// the update hook with the handle and the previous cached value, then refresh
// the cache unconditionally.
func (s *Synchronizer) reconcileHooks() {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()

	for id, h := range s.hooks {
		nw, ok := s.registry.Get(id)
		if !ok {
			continue
		}
		cached, ok := s.hookCaches[id]
		if !ok {
			s.hookCaches[id] = h.Clone()
			continue
		}
		if h.Changed(cached) {
			h.ChangedHook(nw, cached)
			s.hookCaches[id] = h.Clone()
		}
	}
}
