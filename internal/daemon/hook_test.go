package daemon

import (
	"testing"

	"github.com/1broseidon/winstate/internal/native"
	"github.com/1broseidon/winstate/internal/window"
)

// iconHook carries a mutable icon name alongside a window record.
type iconHook struct {
	Name string

	buildCalls   int
	windowCalls  int
	changedCalls int
	lastPrev     string
}

func (h *iconHook) BuildHook(w *window.Window, opts *native.CreateOptions) {
	h.buildCalls++
	if opts.Properties == nil {
		opts.Properties = map[string]string{}
	}
	opts.Properties["icon"] = h.Name
}

func (h *iconHook) WindowHook(w *window.Window, nw native.Window) {
	h.windowCalls++
}

func (h *iconHook) ChangedHook(nw native.Window, cached Hook) {
	h.changedCalls++
	if prev, ok := cached.(*iconHook); ok {
		h.lastPrev = prev.Name
	}
}

func (h *iconHook) Changed(cached Hook) bool {
	prev, ok := cached.(*iconHook)
	return !ok || prev.Name != h.Name
}

func (h *iconHook) Clone() Hook {
	return &iconHook{Name: h.Name}
}

func TestHookParticipatesInCreation(t *testing.T) {
	h := newHarness(&fakeBackend{})
	id := h.store.Insert(window.New())
	hook := &iconHook{Name: "app"}
	h.sync.SetHook(id, hook)
	h.sync.RunCycle()

	if hook.buildCalls != 1 || hook.windowCalls != 1 {
		t.Fatalf("expected one build and one post-create call, got %d/%d", hook.buildCalls, hook.windowCalls)
	}
	if h.backend.lastOpts == nil || h.backend.lastOpts.Properties["icon"] != "app" {
		t.Fatalf("build hook edits must reach the backend, got %+v", h.backend.lastOpts)
	}

	// The cache was seeded at creation; an unchanged hook stays quiet.
	h.sync.RunCycle()
	if hook.changedCalls != 0 {
		t.Fatalf("an unchanged hook must not be applied")
	}
}

func TestHookDiffAndCacheRefresh(t *testing.T) {
	h := newHarness(&fakeBackend{})
	id, _ := h.open(window.New())
	hook := &iconHook{Name: "app"}
	h.sync.SetHook(id, hook)
	h.sync.RunCycle() // seeds the cache for a late-attached hook

	hook.Name = "app-busy"
	h.sync.RunCycle()
	if hook.changedCalls != 1 {
		t.Fatalf("expected one update call, got %d", hook.changedCalls)
	}
	if hook.lastPrev != "app" {
		t.Fatalf("the update hook must see the previously applied value, got %q", hook.lastPrev)
	}

	// Cache refreshed; no further calls until the next change.
	h.sync.RunCycle()
	if hook.changedCalls != 1 {
		t.Fatalf("the refreshed cache must suppress repeats")
	}
}

func TestHookDetachStopsParticipation(t *testing.T) {
	h := newHarness(&fakeBackend{})
	id, _ := h.open(window.New())
	hook := &iconHook{Name: "app"}
	h.sync.SetHook(id, hook)
	h.sync.RunCycle()

	h.sync.SetHook(id, nil)
	hook.Name = "changed"
	h.sync.RunCycle()
	if hook.changedCalls != 0 {
		t.Fatalf("a detached hook must not be applied")
	}
}
