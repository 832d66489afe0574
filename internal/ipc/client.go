package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/hyprcycle/internal/runtimepath"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

func (c *Client) sendRequest(cmd CommandType, payload any) (*Response, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = raw
	}

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
	if _, err := conn.Write(append(reqData, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
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

func call[T any](c *Client, cmd CommandType, payload any) (*T, error) {
	resp, err := c.sendRequest(cmd, payload)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return &out, nil
}

// Ping checks that the daemon answers.
func (c *Client) Ping() error {
	_, err := c.sendRequest(CommandPing, nil)
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	return call[StatusData](c, CommandGetStatus, nil)
}

// List retrieves the current ordered view.
func (c *Client) List() (*switcher.View, error) {
	return call[switcher.View](c, CommandList, nil)
}

// Step moves offset positions through the cycle.
func (c *Client) Step(offset int) (*switcher.Entry, error) {
	data, err := call[EntryData](c, CommandStep, StepPayload{Offset: offset})
	if err != nil {
		return nil, err
	}
	return &data.Entry, nil
}

// Jump activates the entry with the given label.
func (c *Client) Jump(label int) (*switcher.Entry, error) {
	data, err := call[EntryData](c, CommandJump, JumpPayload{Label: label})
	if err != nil {
		return nil, err
	}
	return &data.Entry, nil
}

// Focus activates the entry with the given id.
func (c *Client) Focus(id string) (*switcher.Entry, error) {
	data, err := call[EntryData](c, CommandFocus, FocusPayload{ID: id})
	if err != nil {
		return nil, err
	}
	return &data.Entry, nil
}

// Reload asks the daemon to re-read its config.
func (c *Client) Reload() (*ReloadData, error) {
	return call[ReloadData](c, CommandReload, nil)
}
