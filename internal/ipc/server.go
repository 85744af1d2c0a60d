package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/winstate/internal/native"
	"github.com/1broseidon/winstate/internal/runtimepath"
	"github.com/1broseidon/winstate/internal/store"
	"github.com/1broseidon/winstate/internal/window"
)

// Syncer is the view of the daemon the server needs: cycle progress and the
// last-synchronized snapshots for drift inspection.
type Syncer interface {
	Cycles() uint64
	Snapshot(id window.ID) (window.Window, bool)
}

// MonitorSource lists the current monitor topology. Implementations must be
// safe to call from the server's connection goroutines.
type MonitorSource interface {
	Monitors() ([]native.Monitor, error)
}

// Server handles IPC requests from clients. Handlers only touch the record
// store; the daemon cycle picks the changes up on its own goroutine.
type Server struct {
	socketPath string
	listener   net.Listener
	logger     *slog.Logger

	store    *store.Store
	syncer   Syncer
	monitors MonitorSource

	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server on the standard socket path.
func NewServer(st *store.Store, syncer Syncer, monitors MonitorSource, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, st, syncer, monitors, logger), nil
}

// NewServerAt creates a new IPC server on an explicit socket path.
func NewServerAt(socketPath string, st *store.Store, syncer Syncer, monitors MonitorSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		logger:     logger,
		store:      st,
		syncer:     syncer,
		monitors:   monitors,
		startTime:  time.Now(),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket from a previous run.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("ipc server listening", "socket", s.socketPath)

	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Error("ipc accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Expect JSON on a single line.
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Error("ipc read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Error("failed to send response", "error", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandGetWindow:
		return s.handleGetWindow(req.Payload)
	case CommandOpenWindow:
		return s.handleOpenWindow(req.Payload)
	case CommandUpdateWindow:
		return s.handleUpdateWindow(req.Payload)
	case CommandCloseWindow:
		return s.handleCloseWindow(req.Payload)
	case CommandWindowCommand:
		return s.handleWindowCommand(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		WindowCount:   s.store.Len(),
		CycleCount:    s.syncer.Cycles(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleGetMonitors() *Response {
	monitors, err := s.monitors.Monitors()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("failed to get monitors: %v", err))
	}

	infos := make([]MonitorInfo, len(monitors))
	for i, m := range monitors {
		infos[i] = MonitorInfo{
			ID:          m.ID,
			Name:        m.Name,
			X:           m.X,
			Y:           m.Y,
			Width:       m.Width,
			Height:      m.Height,
			ScaleFactor: m.ScaleFactor,
		}
	}

	resp, _ := NewOKResponse(MonitorsData{Monitors: infos})
	return resp
}

func (s *Server) handleListWindows() *Response {
	var infos []WindowInfo
	for _, id := range s.store.IDs() {
		if info, ok := s.windowInfo(id); ok {
			infos = append(infos, info)
		}
	}

	resp, _ := NewOKResponse(WindowsData{Windows: infos})
	return resp
}

func (s *Server) handleGetWindow(payload json.RawMessage) *Response {
	var req WindowIDPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid window payload: %v", err))
	}

	info, ok := s.windowInfo(window.ID(req.ID))
	if !ok {
		return NewErrorResponse(fmt.Sprintf("no window with id %d", req.ID))
	}

	resp, _ := NewOKResponse(info)
	return resp
}

func (s *Server) windowInfo(id window.ID) (WindowInfo, bool) {
	w, ok := s.store.Snapshot(id)
	if !ok {
		return WindowInfo{}, false
	}

	info := WindowInfo{
		ID:          uint64(id),
		Title:       w.Title,
		Mode:        w.Mode.String(),
		Width:       w.Resolution.PhysicalWidth(),
		Height:      w.Resolution.PhysicalHeight(),
		ScaleFactor: w.ScaleFactor(),
		Visible:     w.Visible,
		Focused:     w.Focused,
		Class:       w.Class,
	}
	if synced, ok := s.syncer.Snapshot(id); ok {
		info.Synced = &SyncedState{
			Title:  synced.Title,
			Mode:   synced.Mode.String(),
			Width:  synced.Resolution.PhysicalWidth(),
			Height: synced.Resolution.PhysicalHeight(),
		}
	}
	return info, true
}

func (s *Server) handleOpenWindow(payload json.RawMessage) *Response {
	var req OpenWindowPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("invalid open payload: %v", err))
		}
	}

	w := window.New()
	if err := req.Window.Apply(w); err != nil {
		return NewErrorResponse(err.Error())
	}
	id := s.store.Insert(w)

	s.logger.Info("ipc: window record opened", "id", id, "title", w.Title)

	resp, _ := NewOKResponse(OpenWindowData{ID: uint64(id)})
	return resp
}

func (s *Server) handleUpdateWindow(payload json.RawMessage) *Response {
	var req UpdateWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid update payload: %v", err))
	}

	var applyErr error
	ok := s.store.Update(window.ID(req.ID), func(w *window.Window) {
		applyErr = req.Window.Apply(w)
	})
	if !ok {
		return NewErrorResponse(fmt.Sprintf("no window with id %d", req.ID))
	}
	if applyErr != nil {
		return NewErrorResponse(applyErr.Error())
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleCloseWindow(payload json.RawMessage) *Response {
	var req WindowIDPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid close payload: %v", err))
	}

	if !s.store.Remove(window.ID(req.ID)) {
		return NewErrorResponse(fmt.Sprintf("no window with id %d", req.ID))
	}

	s.logger.Info("ipc: window record closed", "id", req.ID)

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleWindowCommand(payload json.RawMessage) *Response {
	var req WindowCommandPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid command payload: %v", err))
	}

	var fn func(*window.Window)
	switch req.Action {
	case "maximize":
		fn = func(w *window.Window) { w.RequestMaximize(true) }
	case "unmaximize":
		fn = func(w *window.Window) { w.RequestMaximize(false) }
	case "minimize":
		fn = func(w *window.Window) { w.RequestMinimize(true) }
	case "restore":
		fn = func(w *window.Window) { w.RequestMinimize(false) }
	case "focus":
		fn = func(w *window.Window) { w.Focused = true }
	default:
		return NewErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
	}

	if !s.store.Update(window.ID(req.ID), fn) {
		return NewErrorResponse(fmt.Sprintf("no window with id %d", req.ID))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
