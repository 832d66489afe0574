package ipc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

// Handler executes switcher commands. *daemon.Controller implements it.
type Handler interface {
	View(ctx context.Context) (*switcher.View, error)
	Step(ctx context.Context, n int) (*switcher.Entry, error)
	Jump(ctx context.Context, label int) (*switcher.Entry, error)
	Focus(ctx context.Context, id string) (*switcher.Entry, error)
	Reload() (*config.LoadResult, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	handler      Handler
	backend      string
	logger       *slog.Logger
	startTime    time.Time
	timeout      time.Duration
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server for socketPath. A stale socket file is removed.
func NewServer(socketPath string, handler Handler, backend string, logger *slog.Logger) *Server {
	os.Remove(socketPath)
	return &Server{
		socketPath: socketPath,
		handler:    handler,
		backend:    backend,
		logger:     logger,
		startTime:  time.Now(),
		timeout:    5 * time.Second,
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			done := s.shuttingDown
			s.shutdownMu.Unlock()
			if done {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// handleConnection serves one newline-terminated JSON request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout))

	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.write(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.write(conn, s.handleCommand(ctx, req))
}

func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandPing:
		return ok("PONG")
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandList:
		v, err := s.handler.View(ctx)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(v)
	case CommandStep:
		p, err := decodePayload[StepPayload](req.Payload)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return entryResponse(s.handler.Step(ctx, p.Offset))
	case CommandJump:
		p, err := decodePayload[JumpPayload](req.Payload)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return entryResponse(s.handler.Jump(ctx, p.Label))
	case CommandFocus:
		p, err := decodePayload[FocusPayload](req.Payload)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.ID == "" {
			return NewErrorResponse("id is required")
		}
		return entryResponse(s.handler.Focus(ctx, p.ID))
	case CommandReload:
		res, err := s.handler.Reload()
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
		}
		return ok(ReloadData{Files: res.Files})
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	status := StatusData{
		Backend:       s.backend,
		Selected:      -1,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	}
	if v, err := s.handler.View(ctx); err == nil {
		status.Mode = v.Mode
		status.SwitchType = string(v.Type)
		status.Entries = v.Len()
		status.Selected = v.Selected
		status.ActiveWindow = v.Active.Window
		if !v.TakenAt.IsZero() {
			status.LastRefresh = v.TakenAt.Format(time.RFC3339)
		}
	}
	return ok(status)
}

func entryResponse(e *switcher.Entry, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(EntryData{Entry: *e})
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) write(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
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
