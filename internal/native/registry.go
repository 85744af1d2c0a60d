package native

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/1broseidon/winstate/internal/window"
)

// Registry owns the mapping from record identifier to live native window
// handle. A handle is created exactly once per identifier and destroyed
// exactly once; destroying a missing handle is a no-op. The registry is used
// only from the daemon goroutine and never hands handles to long-lived
// holders.
type Registry struct {
	backend Backend
	windows map[window.ID]Window
	logger  *slog.Logger
}

// NewRegistry creates a registry over the given backend.
func NewRegistry(backend Backend, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		backend: backend,
		windows: make(map[window.ID]Window),
		logger:  logger,
	}
}

// Get returns the live handle for id, if any.
func (r *Registry) Get(id window.ID) (Window, bool) {
	w, ok := r.windows[id]
	return w, ok
}

// Create constructs a native window for id from the record spec. If a handle
// already exists for id it is returned unchanged; identifiers are never
// recreated while live.
func (r *Registry) Create(id window.ID, spec *window.Window, opts *CreateOptions) (Window, error) {
	if existing, ok := r.windows[id]; ok {
		return existing, nil
	}

	w, err := r.backend.CreateWindow(spec, opts)
	if err != nil {
		return nil, fmt.Errorf("create native window %d: %w", id, err)
	}
	r.windows[id] = w
	return w, nil
}

// Destroy tears down the native window for id. Returns false when no handle
// was live, which is not an error.
func (r *Registry) Destroy(id window.ID) bool {
	w, ok := r.windows[id]
	if !ok {
		return false
	}
	delete(r.windows, id)
	w.Destroy()
	return true
}

// Len returns the number of live handles.
func (r *Registry) Len() int { return len(r.windows) }

// IDs returns the identifiers with live handles, in ascending order.
func (r *Registry) IDs() []window.ID {
	out := make([]window.ID, 0, len(r.windows))
	for id := range r.windows {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
