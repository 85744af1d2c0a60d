package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/winstate/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetMonitors})
	if err != nil {
		return nil, err
	}

	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}
	return &monitors, nil
}

// ListWindows retrieves every window record with its sync state.
func (c *Client) ListWindows() (*WindowsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWindows})
	if err != nil {
		return nil, err
	}

	var windows WindowsData
	if err := json.Unmarshal(resp.Data, &windows); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return &windows, nil
}

// GetWindow retrieves one window record by identifier.
func (c *Client) GetWindow(id uint64) (*WindowInfo, error) {
	payload, err := json.Marshal(WindowIDPayload{ID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal window payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandGetWindow, Payload: payload})
	if err != nil {
		return nil, err
	}

	var info WindowInfo
	if err := json.Unmarshal(resp.Data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse window data: %w", err)
	}
	return &info, nil
}

// OpenWindow inserts a new window record and returns its identifier.
func (c *Client) OpenWindow(update WindowUpdate) (uint64, error) {
	payload, err := json.Marshal(OpenWindowPayload{Window: update})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal open payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandOpenWindow, Payload: payload})
	if err != nil {
		return 0, err
	}

	var data OpenWindowData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, fmt.Errorf("failed to parse open data: %w", err)
	}
	return data.ID, nil
}

// UpdateWindow applies a partial update to a window record.
func (c *Client) UpdateWindow(id uint64, update WindowUpdate) error {
	payload, err := json.Marshal(UpdateWindowPayload{ID: id, Window: update})
	if err != nil {
		return fmt.Errorf("failed to marshal update payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandUpdateWindow, Payload: payload})
	return err
}

// CloseWindow removes a window record; the daemon destroys the native window
// on its next cycle.
func (c *Client) CloseWindow(id uint64) error {
	payload, err := json.Marshal(WindowIDPayload{ID: id})
	if err != nil {
		return fmt.Errorf("failed to marshal close payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandCloseWindow, Payload: payload})
	return err
}

// CommandWindow queues a one-shot window action: maximize, unmaximize,
// minimize, restore, or focus.
func (c *Client) CommandWindow(id uint64, action string) error {
	payload, err := json.Marshal(WindowCommandPayload{ID: id, Action: action})
	if err != nil {
		return fmt.Errorf("failed to marshal command payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandWindowCommand, Payload: payload})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
