package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/winstate/internal/ipc"
)

type stubClient struct {
	opened   []ipc.WindowUpdate
	updated  map[uint64]ipc.WindowUpdate
	closed   []uint64
	commands map[uint64][]string
	nextID   uint64
	err      error
}

func newStubClient() *stubClient {
	return &stubClient{
		updated:  map[uint64]ipc.WindowUpdate{},
		commands: map[uint64][]string{},
		nextID:   1,
	}
}

func (c *stubClient) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{WindowCount: len(c.opened), DaemonRunning: true}, c.err
}

func (c *stubClient) GetMonitors() (*ipc.MonitorsData, error) {
	return &ipc.MonitorsData{}, c.err
}

func (c *stubClient) ListWindows() (*ipc.WindowsData, error) {
	return &ipc.WindowsData{}, c.err
}

func (c *stubClient) GetWindow(id uint64) (*ipc.WindowInfo, error) {
	return &ipc.WindowInfo{ID: id}, c.err
}

func (c *stubClient) OpenWindow(update ipc.WindowUpdate) (uint64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.opened = append(c.opened, update)
	id := c.nextID
	c.nextID++
	return id, nil
}

func (c *stubClient) UpdateWindow(id uint64, update ipc.WindowUpdate) error {
	c.updated[id] = update
	return c.err
}

func (c *stubClient) CloseWindow(id uint64) error {
	c.closed = append(c.closed, id)
	return c.err
}

func (c *stubClient) CommandWindow(id uint64, action string) error {
	c.commands[id] = append(c.commands[id], action)
	return c.err
}

func TestOpenWindowToolForwardsFields(t *testing.T) {
	client := newStubClient()
	s := newServer(client)

	out, result, err := s.handleOpenWindow(context.Background(), nil, OpenWindowInput{
		Title: "scratch", Mode: "borderless", Width: 640, Height: 480,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if out != nil {
		t.Fatalf("expected structured output only")
	}
	if result.ID != 1 {
		t.Fatalf("expected id 1, got %d", result.ID)
	}
	if len(client.opened) != 1 {
		t.Fatalf("expected one open request")
	}
	u := client.opened[0]
	if u.Title == nil || *u.Title != "scratch" || u.Mode == nil || *u.Mode != "borderless" {
		t.Fatalf("fields not forwarded: %+v", u)
	}
	if u.Width == nil || *u.Width != 640 || u.Height == nil || *u.Height != 480 {
		t.Fatalf("size not forwarded: %+v", u)
	}
}

func TestOpenWindowToolOmitsUnsetFields(t *testing.T) {
	client := newStubClient()
	s := newServer(client)

	if _, _, err := s.handleOpenWindow(context.Background(), nil, OpenWindowInput{}); err != nil {
		t.Fatalf("open: %v", err)
	}
	u := client.opened[0]
	if u.Title != nil || u.Mode != nil || u.Width != nil || u.Class != nil {
		t.Fatalf("unset fields must stay nil: %+v", u)
	}
}

func TestWindowCommandToolValidatesAction(t *testing.T) {
	client := newStubClient()
	s := newServer(client)

	if _, _, err := s.handleWindowCommand(context.Background(), nil, WindowCommandInput{ID: 3, Action: "maximize"}); err != nil {
		t.Fatalf("command: %v", err)
	}
	if got := client.commands[3]; len(got) != 1 || got[0] != "maximize" {
		t.Fatalf("command not forwarded: %v", got)
	}

	if _, _, err := s.handleWindowCommand(context.Background(), nil, WindowCommandInput{ID: 3, Action: "fold"}); err == nil {
		t.Fatalf("expected an unknown-action error")
	}
	if len(client.commands[3]) != 1 {
		t.Fatalf("invalid action must not reach the daemon")
	}
}

func TestToolErrorsPropagate(t *testing.T) {
	client := newStubClient()
	client.err = errors.New("daemon not running")
	s := newServer(client)

	if _, _, err := s.handleCloseWindow(context.Background(), nil, CloseWindowInput{ID: 1}); err == nil {
		t.Fatalf("expected the client error to propagate")
	}
	if _, _, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{}); err == nil {
		t.Fatalf("expected the client error to propagate")
	}
}
