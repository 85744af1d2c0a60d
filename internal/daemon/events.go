package daemon

import (
	"log/slog"
	"sync"

	"github.com/1broseidon/winstate/internal/window"
)

// Sink receives window lifecycle notifications. Each notification is
// delivered at most once per triggering cycle.
type Sink interface {
	WindowCreated(id window.ID)
	WindowClosed(id window.ID)
	WindowResized(id window.ID, size window.PhysicalSize)
}

// LogSink logs notifications; it is the default sink for the daemon.
type LogSink struct {
	Logger *slog.Logger
}

func (s *LogSink) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *LogSink) WindowCreated(id window.ID) {
	s.logger().Info("window created", "id", id)
}

func (s *LogSink) WindowClosed(id window.ID) {
	s.logger().Info("window closed", "id", id)
}

func (s *LogSink) WindowResized(id window.ID, size window.PhysicalSize) {
	s.logger().Debug("window resized", "id", id, "width", size.Width, "height", size.Height)
}

// ResizeEvent pairs a window identifier with its new physical size.
type ResizeEvent struct {
	ID   window.ID
	Size window.PhysicalSize
}

// Recorder collects notifications in memory. Used by tests and by status
// reporting.
type Recorder struct {
	mu      sync.Mutex
	created []window.ID
	closed  []window.ID
	resized []ResizeEvent
}

func (r *Recorder) WindowCreated(id window.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, id)
}

func (r *Recorder) WindowClosed(id window.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, id)
}

func (r *Recorder) WindowResized(id window.ID, size window.PhysicalSize) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resized = append(r.resized, ResizeEvent{ID: id, Size: size})
}

// Created returns the recorded created notifications.
func (r *Recorder) Created() []window.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]window.ID(nil), r.created...)
}

// Closed returns the recorded closed notifications.
func (r *Recorder) Closed() []window.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]window.ID(nil), r.closed...)
}

// Resized returns the recorded resize notifications.
func (r *Recorder) Resized() []ResizeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ResizeEvent(nil), r.resized...)
}
