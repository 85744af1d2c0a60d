package ipc

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/winstate/internal/native"
	"github.com/1broseidon/winstate/internal/store"
	"github.com/1broseidon/winstate/internal/window"
)

type stubSyncer struct {
	cycles uint64
	synced map[window.ID]window.Window
}

func (s *stubSyncer) Cycles() uint64 { return s.cycles }

func (s *stubSyncer) Snapshot(id window.ID) (window.Window, bool) {
	w, ok := s.synced[id]
	return w, ok
}

type stubMonitors struct {
	monitors []native.Monitor
	err      error
}

func (s *stubMonitors) Monitors() ([]native.Monitor, error) { return s.monitors, s.err }

func startServer(t *testing.T, st *store.Store, syncer Syncer, monitors MonitorSource) *Client {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "winstate.sock")
	srv := NewServerAt(socket, st, syncer, monitors, slog.Default())
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientAt(socket)
}

func TestOpenListUpdateClose(t *testing.T) {
	st := store.New()
	syncer := &stubSyncer{synced: map[window.ID]window.Window{}}
	client := startServer(t, st, syncer, &stubMonitors{})

	title := "editor"
	width, height := 640.0, 480.0
	id, err := client.OpenWindow(WindowUpdate{Title: &title, Width: &width, Height: &height})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	w, ok := st.Snapshot(window.ID(id))
	if !ok {
		t.Fatalf("record not inserted")
	}
	if w.Title != "editor" || w.Resolution.PhysicalWidth() != 640 {
		t.Fatalf("open fields not applied: %q %d", w.Title, w.Resolution.PhysicalWidth())
	}

	windows, err := client.ListWindows()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(windows.Windows) != 1 || windows.Windows[0].ID != id {
		t.Fatalf("unexpected listing: %+v", windows)
	}
	if windows.Windows[0].Synced != nil {
		t.Fatalf("an uncreated window has no synced state")
	}

	mode := "fullscreen"
	if err := client.UpdateWindow(id, WindowUpdate{Mode: &mode}); err != nil {
		t.Fatalf("update: %v", err)
	}
	w, _ = st.Snapshot(window.ID(id))
	if w.Mode != window.ModeFullscreen {
		t.Fatalf("mode not applied: %v", w.Mode)
	}

	if err := client.CloseWindow(id); err != nil {
		t.Fatalf("close: %v", err)
	}
	if st.Contains(window.ID(id)) {
		t.Fatalf("record must be removed")
	}
}

func TestGetWindowReportsDrift(t *testing.T) {
	st := store.New()
	w := window.New()
	w.Title = "wanted"
	id := st.Insert(w)

	synced := w.Clone()
	synced.Title = "applied"
	syncer := &stubSyncer{synced: map[window.ID]window.Window{id: synced}}
	client := startServer(t, st, syncer, &stubMonitors{})

	info, err := client.GetWindow(uint64(id))
	if err != nil {
		t.Fatalf("get window: %v", err)
	}
	if info.Title != "wanted" {
		t.Fatalf("desired title missing: %q", info.Title)
	}
	if info.Synced == nil || info.Synced.Title != "applied" {
		t.Fatalf("synced state missing: %+v", info.Synced)
	}
}

func TestWindowCommandQueuesOneShot(t *testing.T) {
	st := store.New()
	id := st.Insert(window.New())
	client := startServer(t, st, &stubSyncer{}, &stubMonitors{})

	if err := client.CommandWindow(uint64(id), "maximize"); err != nil {
		t.Fatalf("command: %v", err)
	}

	var pending, maximized bool
	st.Update(id, func(w *window.Window) {
		maximized, pending = w.TakeMaximizeRequest()
	})
	if !pending || !maximized {
		t.Fatalf("maximize request not queued")
	}

	if err := client.CommandWindow(uint64(id), "explode"); err == nil {
		t.Fatalf("expected an unknown-action error")
	}
}

func TestErrorsSurfaceToClient(t *testing.T) {
	st := store.New()
	client := startServer(t, st, &stubSyncer{}, &stubMonitors{err: errors.New("randr down")})

	if err := client.CloseWindow(42); err == nil || !strings.Contains(err.Error(), "42") {
		t.Fatalf("expected a missing-window error, got %v", err)
	}
	if _, err := client.GetMonitors(); err == nil || !strings.Contains(err.Error(), "randr") {
		t.Fatalf("expected the monitor error to surface, got %v", err)
	}

	bad := "triangular"
	if _, err := client.OpenWindow(WindowUpdate{Mode: &bad}); err == nil {
		t.Fatalf("expected a bad-mode error")
	}
}

func TestGetStatus(t *testing.T) {
	st := store.New()
	st.Insert(window.New())
	client := startServer(t, st, &stubSyncer{cycles: 7}, &stubMonitors{})

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.WindowCount != 1 || status.CycleCount != 7 || !status.DaemonRunning {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestGetMonitors(t *testing.T) {
	mons := []native.Monitor{{ID: 1, Name: "DP-1", Width: 1920, Height: 1080, ScaleFactor: 1}}
	client := startServer(t, store.New(), &stubSyncer{}, &stubMonitors{monitors: mons})

	data, err := client.GetMonitors()
	if err != nil {
		t.Fatalf("monitors: %v", err)
	}
	if len(data.Monitors) != 1 || data.Monitors[0].Name != "DP-1" {
		t.Fatalf("unexpected monitors: %+v", data)
	}
}
