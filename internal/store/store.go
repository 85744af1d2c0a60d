// Package store holds window records keyed by stable identifier, with
// change-flag queries and a removed-identifier stream for the daemon's
// synchronization cycle.
package store

import (
	"sort"
	"sync"

	"github.com/1broseidon/winstate/internal/window"
)

// Store is the record store. It is safe for concurrent use: IPC and MCP
// handlers mutate records from their own goroutines while the daemon cycle
// reads them. Native handles never live here, only records.
type Store struct {
	mu      sync.Mutex
	nextID  window.ID
	windows map[window.ID]*window.Window
	changed map[window.ID]struct{}
	removed []window.ID
}

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:  1,
		windows: make(map[window.ID]*window.Window),
		changed: make(map[window.ID]struct{}),
	}
}

// Insert adds a record and returns its new identifier.
func (s *Store) Insert(w *window.Window) window.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.windows[id] = w
	s.changed[id] = struct{}{}
	return id
}

// Reinsert adds a record under a previously assigned identifier. Used when a
// window is re-added in the same cycle it was removed.
func (s *Store) Reinsert(id window.ID, w *window.Window) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.windows[id] = w
	s.changed[id] = struct{}{}
	if id >= s.nextID {
		s.nextID = id + 1
	}
}

// Remove deletes a record and queues a removal notification.
func (s *Store) Remove(id window.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.windows[id]; !ok {
		return false
	}
	delete(s.windows, id)
	delete(s.changed, id)
	s.removed = append(s.removed, id)
	return true
}

// Contains reports whether a record currently exists for id.
func (s *Store) Contains(id window.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.windows[id]
	return ok
}

// Len returns the number of live records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// IDs returns all live record identifiers in ascending order.
func (s *Store) IDs() []window.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]window.ID, 0, len(s.windows))
	for id := range s.windows {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Snapshot returns a copy of the record for id.
func (s *Store) Snapshot(id window.ID) (window.Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return window.Window{}, false
	}
	return w.Clone(), true
}

// Update mutates a record through fn and flags it changed. Returns false when
// the record does not exist. fn must not call back into the store.
func (s *Store) Update(id window.ID, fn func(*window.Window)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return false
	}
	fn(w)
	s.changed[id] = struct{}{}
	return true
}

// WithWindow runs fn against the live record without flagging it changed.
// The daemon uses this for reconciliation feedback writes, which must not
// re-trigger a diff pass by themselves. fn must not call back into the store.
func (s *Store) WithWindow(id window.ID, fn func(*window.Window)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return false
	}
	fn(w)
	return true
}

// MarkChanged flags a record changed without mutating it. The daemon uses
// this to keep a deferred change hot for the next cycle.
func (s *Store) MarkChanged(id window.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.windows[id]; ok {
		s.changed[id] = struct{}{}
	}
}

// TakeChanged returns the identifiers flagged changed since the last call and
// clears the flags, in ascending order.
func (s *Store) TakeChanged() []window.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]window.ID, 0, len(s.changed))
	for id := range s.changed {
		out = append(out, id)
	}
	s.changed = make(map[window.ID]struct{})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DrainRemoved returns the identifiers removed since the last call, in
// removal order, and clears the queue.
func (s *Store) DrainRemoved() []window.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.removed
	s.removed = nil
	return out
}
