package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/hyprcycle/internal/switcher"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing      CommandType = "PING"
	CommandGetStatus CommandType = "GET_STATUS"
	CommandList      CommandType = "LIST"
	CommandStep      CommandType = "STEP"
	CommandJump      CommandType = "JUMP"
	CommandFocus     CommandType = "FOCUS"
	CommandReload    CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Backend       string `json:"backend"`
	Mode          string `json:"mode"`
	SwitchType    string `json:"switch_type"`
	Entries       int    `json:"entries"`
	Selected      int    `json:"selected"`
	ActiveWindow  string `json:"active_window"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	LastRefresh   string `json:"last_refresh,omitempty"`
}

type StepPayload struct {
	Offset int `json:"offset"`
}

type JumpPayload struct {
	Label int `json:"label"`
}

type FocusPayload struct {
	ID string `json:"id"`
}

// EntryData is returned by STEP, JUMP and FOCUS.
type EntryData struct {
	Entry switcher.Entry `json:"entry"`
}

// ReloadData is returned by RELOAD.
type ReloadData struct {
	Files []string `json:"files"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}
	return &Response{Status: "OK", Data: dataBytes}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{Status: "ERROR", Error: errMsg}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

func decodePayload[T any](raw json.RawMessage) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("invalid payload: %w", err)
	}
	return out, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
