package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/1broseidon/hyprcycle/internal/order"
	"github.com/1broseidon/hyprcycle/internal/render"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

// Switcher executes switcher commands. *daemon.Controller implements it.
type Switcher interface {
	View(ctx context.Context) (*switcher.View, error)
	Step(ctx context.Context, n int) (*switcher.Entry, error)
	Jump(ctx context.Context, label int) (*switcher.Entry, error)
	Focus(ctx context.Context, id string) (*switcher.Entry, error)
}

// Feed publishes views as they change. *daemon.Store implements it.
type Feed interface {
	Subscribe(buffer int) (<-chan *switcher.View, func())
}

// MonitorSource supplies monitor frames for the layout picture.
type MonitorSource func() []order.MonitorFrame

// Server is the optional HTTP API of the daemon.
type Server struct {
	router   *mux.Router
	sw       Switcher
	feed     Feed
	monitors MonitorSource
	logger   *slog.Logger
	upgrader websocket.Upgrader
	started  time.Time
}

// NewServer creates a new API server
func NewServer(sw Switcher, feed Feed, monitors MonitorSource, logger *slog.Logger) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		sw:       sw,
		feed:     feed,
		monitors: monitors,
		logger:   logger,
		started:  time.Now(),
		upgrader: websocket.Upgrader{
			CheckOrigin: sameOrigin,
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.originGuard)
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	s.router.MethodNotAllowedHandler = api.MethodNotAllowedHandler

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/view", s.handleView).Methods("GET")
	api.HandleFunc("/view.svg", s.handleSVG).Methods("GET")
	api.HandleFunc("/view.dot", s.handleDOT).Methods("GET")
	api.HandleFunc("/step", s.handleStep).Methods("POST")
	api.HandleFunc("/jump/{label:-?[0-9]+}", s.handleJump).Methods("POST")
	api.HandleFunc("/focus/{id}", s.handleFocus).Methods("POST")
	api.HandleFunc("/ws", s.handleStream)
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// Serve listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("API listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sameOrigin accepts requests without an Origin header (CLI tools, scripts)
// and browser requests from a page served by this host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// originGuard rejects cross-site browser requests.
func (s *Server) originGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sameOrigin(r) {
			s.logger.Warn("cross-origin request rejected", "origin", r.Header.Get("Origin"), "path", r.URL.Path)
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "cross-origin request rejected"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method " + r.Method + " not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, switcher.ErrNoWindows) {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	v, err := s.sw.View(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	v, err := s.sw.View(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var monitors []order.MonitorFrame
	if s.monitors != nil {
		monitors = s.monitors()
	}
	opts := []render.SVGOption{render.WithTitles()}
	if width, err := strconv.Atoi(r.URL.Query().Get("width")); err == nil && width > 0 {
		opts = append(opts, render.WithWidth(float64(width)))
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(render.RenderSVG(v, monitors, opts...))
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	v, err := s.sw.View(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Write([]byte(render.ToDOT(v)))
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Offset int `json:"offset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Offset == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "offset must not be zero"})
		return
	}
	s.respondEntry(w, r, func(ctx context.Context) (*switcher.Entry, error) {
		return s.sw.Step(ctx, req.Offset)
	})
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	label, err := strconv.Atoi(mux.Vars(r)["label"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.respondEntry(w, r, func(ctx context.Context) (*switcher.Entry, error) {
		return s.sw.Jump(ctx, label)
	})
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.respondEntry(w, r, func(ctx context.Context) (*switcher.Entry, error) {
		return s.sw.Focus(ctx, id)
	})
}

func (s *Server) respondEntry(w http.ResponseWriter, r *http.Request, fn func(context.Context) (*switcher.Entry, error)) {
	e, err := fn(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Debug("api focus", "id", e.ID(), "path", r.URL.Path)
	writeJSON(w, http.StatusOK, e)
}

// handleStream sends the current view and then every published view.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	updates, cancel := s.feed.Subscribe(4)
	defer cancel()

	if v, err := s.sw.View(r.Context()); err == nil {
		if err := conn.WriteJSON(v); err != nil {
			return
		}
	}

	// The reader notices when the client goes away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case v, ok := <-updates:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(v); err != nil {
				s.logger.Debug("websocket write failed", "err", err)
				return
			}
		}
	}
}
