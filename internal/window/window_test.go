package window

import (
	"math"
	"testing"
)

func TestResolutionLogicalPhysicalRoundTrip(t *testing.T) {
	r := NewResolution(800, 600)
	if r.PhysicalWidth() != 800 || r.PhysicalHeight() != 600 {
		t.Fatalf("expected 800x600 physical at scale 1, got %dx%d", r.PhysicalWidth(), r.PhysicalHeight())
	}

	// Native reports a HiDPI scale; physical pixels are unchanged, logical
	// size shrinks accordingly.
	r.SetScaleFactor(2)
	if r.PhysicalWidth() != 800 {
		t.Fatalf("scale change must not alter physical size, got %d", r.PhysicalWidth())
	}
	if r.Width() != 400 || r.Height() != 300 {
		t.Fatalf("expected 400x300 logical at scale 2, got %gx%g", r.Width(), r.Height())
	}

	// A new logical request converts at the current scale.
	r.Set(500, 250)
	if r.PhysicalWidth() != 1000 || r.PhysicalHeight() != 500 {
		t.Fatalf("expected 1000x500 physical, got %dx%d", r.PhysicalWidth(), r.PhysicalHeight())
	}
}

func TestResolutionScaleFactorOverride(t *testing.T) {
	r := NewResolution(100, 100)
	r.SetScaleFactor(2)
	r.SetScaleFactorOverride(1)
	if r.ScaleFactor() != 1 {
		t.Fatalf("override must win over native scale, got %g", r.ScaleFactor())
	}
	r.SetScaleFactorOverride(0)
	if r.ScaleFactor() != 2 {
		t.Fatalf("clearing override must restore native scale, got %g", r.ScaleFactor())
	}
}

func TestConstraintsCheck(t *testing.T) {
	c := Constraints{MinWidth: -5, MinHeight: 0, MaxWidth: 100, MaxHeight: -1}
	got := c.Check()
	if got.MinWidth != 1 || got.MinHeight != 1 {
		t.Fatalf("minimums must clamp to 1, got %gx%g", got.MinWidth, got.MinHeight)
	}
	if got.MaxHeight != got.MinHeight {
		t.Fatalf("max must never fall below min, got %g", got.MaxHeight)
	}

	d := DefaultConstraints()
	if !math.IsInf(d.MaxWidth, 1) || !math.IsInf(d.MaxHeight, 1) {
		t.Fatalf("default max constraints must be unbounded")
	}
}

func TestTakeRequestsConsumeOnce(t *testing.T) {
	w := New()
	if _, ok := w.TakeMaximizeRequest(); ok {
		t.Fatalf("no request should be pending on a fresh record")
	}

	w.RequestMaximize(true)
	v, ok := w.TakeMaximizeRequest()
	if !ok || !v {
		t.Fatalf("expected pending maximize(true), got %v %v", v, ok)
	}
	if _, ok := w.TakeMaximizeRequest(); ok {
		t.Fatalf("request must be cleared after take")
	}

	w.RequestMinimize(false)
	v, ok = w.TakeMinimizeRequest()
	if !ok || v {
		t.Fatalf("expected pending minimize(false), got %v %v", v, ok)
	}
}

func TestPhysicalCursorPosition(t *testing.T) {
	w := New()
	if w.PhysicalCursorPosition() != nil {
		t.Fatalf("unset cursor position must stay nil")
	}
	w.Resolution.SetScaleFactor(2)
	w.CursorPosition = &Point{X: 10, Y: 20.25}
	got := w.PhysicalCursorPosition()
	if got == nil || got.X != 20 || got.Y != 41 {
		t.Fatalf("expected (20,41), got %+v", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	w := New()
	theme := ThemeDark
	w.Theme = &theme
	w.CursorPosition = &Point{X: 1, Y: 2}
	w.RequestMaximize(true)

	snap := w.Clone()
	w.Title = "changed"
	*w.Theme = ThemeLight
	w.CursorPosition.X = 99

	if snap.Title != "winstate" {
		t.Fatalf("clone title must not track the original")
	}
	if *snap.Theme != ThemeDark {
		t.Fatalf("clone theme must be a deep copy")
	}
	if snap.CursorPosition.X != 1 {
		t.Fatalf("clone cursor position must be a deep copy")
	}
	if v, ok := snap.TakeMaximizeRequest(); !ok || !v {
		t.Fatalf("clone carries the pending request, got %v %v", v, ok)
	}
	if _, ok := w.TakeMaximizeRequest(); !ok {
		t.Fatalf("taking from the clone must not clear the original")
	}
}
