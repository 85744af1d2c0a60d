package daemon

import (
	"errors"
	"testing"

	"github.com/1broseidon/winstate/internal/native"
	"github.com/1broseidon/winstate/internal/window"
)

func TestCreateWindowsEstablishesSnapshot(t *testing.T) {
	theme := window.ThemeDark
	h := newHarness(&fakeBackend{scale: 2, theme: &theme})

	w := window.New()
	w.Title = "editor"
	id, fw := h.open(w)
	if fw == nil {
		t.Fatalf("expected a native window to be created")
	}

	if got := h.events.Created(); len(got) != 1 || got[0] != id {
		t.Fatalf("expected one created notification for %d, got %v", id, got)
	}

	// Native theme and scale factor are authoritative at creation.
	snap, ok := h.store.Snapshot(id)
	if !ok {
		t.Fatalf("record disappeared")
	}
	if snap.Theme == nil || *snap.Theme != window.ThemeDark {
		t.Fatalf("native theme must be mirrored into the record, got %v", snap.Theme)
	}
	if snap.ScaleFactor() != 2 {
		t.Fatalf("native scale factor must be mirrored, got %g", snap.ScaleFactor())
	}
	if snap.Handle == 0 {
		t.Fatalf("surface handle must be registered with the record")
	}

	// The snapshot equals the post-creation record: an immediate
	// reconcile pass issues no native calls.
	before := h.totalCalls()
	h.sync.RunCycle()
	if h.totalCalls() != before {
		t.Fatalf("expected zero native calls right after creation, got %d extra", h.totalCalls()-before)
	}
}

func TestCreateWindowsSkipsExistingHandles(t *testing.T) {
	h := newHarness(&fakeBackend{})
	h.open(window.New())

	h.sync.RunCycle()
	h.sync.RunCycle()
	if len(h.backend.created) != 1 {
		t.Fatalf("expected exactly one native creation, got %d", len(h.backend.created))
	}
	if got := h.events.Created(); len(got) != 1 {
		t.Fatalf("expected exactly one created notification, got %v", got)
	}
}

func TestCreateUsesFinalMutatedValues(t *testing.T) {
	h := newHarness(&fakeBackend{})
	st := h.store

	id := st.Insert(window.New())
	// Mutate within the same cycle, before the stages run: creation must
	// see the final values.
	st.Update(id, func(w *window.Window) { w.Title = "final" })
	h.sync.RunCycle()

	fw := h.backend.created[0]
	if fw.title != "final" {
		t.Fatalf("creation must use the mutated title, got %q", fw.title)
	}
	if fw.count("SetTitle") != 0 {
		t.Fatalf("no reconcile call should follow creation in the same cycle")
	}
}

func TestCreateAppliesCenteredPosition(t *testing.T) {
	primary := native.Monitor{ID: 0, Name: "eDP-1", Width: 1920, Height: 1080, ScaleFactor: 1}
	h := newHarness(&fakeBackend{
		monitors: []native.Monitor{primary},
		primary:  &primary,
	})

	w := window.New()
	w.Position = window.CenteredPosition(window.MonitorPrimary)
	_, fw := h.open(w)

	if fw.count("SetOuterPosition") != 1 {
		t.Fatalf("expected the window to be placed at creation, got %d position calls", fw.count("SetOuterPosition"))
	}
	want := window.PhysicalPoint{X: 320, Y: 180}
	if fw.outerPos != want {
		t.Fatalf("expected centered position %+v, got %+v", want, fw.outerPos)
	}

	// The placement is part of the creation snapshot: later cycles must
	// not re-apply it.
	h.sync.RunCycle()
	h.sync.RunCycle()
	if fw.count("SetOuterPosition") != 1 {
		t.Fatalf("expected no repeated placement, got %d calls", fw.count("SetOuterPosition"))
	}
}

func TestCreateAppliesAbsolutePosition(t *testing.T) {
	h := newHarness(&fakeBackend{})

	w := window.New()
	w.Position = window.AtPosition(100, 50)
	_, fw := h.open(w)

	if fw.count("SetOuterPosition") != 1 {
		t.Fatalf("expected one placement at creation, got %d", fw.count("SetOuterPosition"))
	}
	if want := (window.PhysicalPoint{X: 100, Y: 50}); fw.outerPos != want {
		t.Fatalf("expected position %+v, got %+v", want, fw.outerPos)
	}
}

func TestCreateAutomaticPositionLeftToWindowManager(t *testing.T) {
	h := newHarness(&fakeBackend{})
	_, fw := h.open(window.New())

	if fw.count("SetOuterPosition") != 0 {
		t.Fatalf("automatic placement must not position the window, got %d calls", fw.count("SetOuterPosition"))
	}
}

func TestCreateFailureLeavesRecordForRetry(t *testing.T) {
	h := newHarness(&fakeBackend{createErr: errors.New("no display")})
	id := h.store.Insert(window.New())
	h.sync.RunCycle()

	if len(h.events.Created()) != 0 {
		t.Fatalf("failed creation must not notify")
	}
	if !h.store.Contains(id) {
		t.Fatalf("record must survive a failed creation")
	}

	// Backend recovers; the next cycle retries.
	h.backend.createErr = nil
	h.sync.RunCycle()
	if len(h.backend.created) != 1 {
		t.Fatalf("expected creation retry to succeed")
	}
}
