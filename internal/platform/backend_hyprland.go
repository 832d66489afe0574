package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/1broseidon/hyprcycle/internal/order"
	"github.com/thiagokokada/hyprland-go"
	"github.com/thiagokokada/hyprland-go/event"
)

// HyprlandBackend talks to Hyprland's request and event sockets.
type HyprlandBackend struct {
	client      *hyprland.RequestClient
	eventSocket string
}

var (
	_ Backend = (*HyprlandBackend)(nil)
	_ Watcher = (*HyprlandBackend)(nil)
)

// NewHyprlandBackend connects to the instance named by
// $HYPRLAND_INSTANCE_SIGNATURE.
func NewHyprlandBackend() (*HyprlandBackend, error) {
	dir, err := hyprlandSocketDir()
	if err != nil {
		return nil, err
	}
	client := hyprland.NewClient(filepath.Join(dir, ".socket.sock"))
	return &HyprlandBackend{
		client:      client,
		eventSocket: filepath.Join(dir, ".socket2.sock"),
	}, nil
}

func hyprlandSocketDir() (string, error) {
	sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if sig == "" {
		return "", errors.New("HYPRLAND_INSTANCE_SIGNATURE is not set; is Hyprland running?")
	}
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = filepath.Join("/run/user", fmt.Sprint(os.Getuid()))
	}
	dir := filepath.Join(runtimeDir, "hypr", sig)
	if _, err := os.Stat(dir); err != nil {
		// Hyprland before 0.40 kept its sockets in /tmp.
		legacy := filepath.Join("/tmp", "hypr", sig)
		if _, lerr := os.Stat(legacy); lerr == nil {
			return legacy, nil
		}
		return "", fmt.Errorf("hyprland socket directory: %w", err)
	}
	return dir, nil
}

func (b *HyprlandBackend) Name() string { return "hyprland" }

// Snapshot queries clients, workspaces and monitors.
func (b *HyprlandBackend) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	monitors, err := b.client.Monitors()
	if err != nil {
		return nil, fmt.Errorf("monitors: %w", err)
	}
	workspaces, err := b.client.Workspaces()
	if err != nil {
		return nil, fmt.Errorf("workspaces: %w", err)
	}
	clients, err := b.client.Clients()
	if err != nil {
		return nil, fmt.Errorf("clients: %w", err)
	}
	active, err := b.client.ActiveWindow()
	if err != nil {
		return nil, fmt.Errorf("active window: %w", err)
	}

	snap := &Snapshot{TakenAt: time.Now()}
	for _, m := range monitors {
		w, h := logicalSize(m.Width, m.Height, m.Scale, m.Transform)
		snap.Monitors = append(snap.Monitors, order.MonitorFrame{
			ID:   m.Id,
			Name: m.Name,
			Rect: order.Rect{X: m.X, Y: m.Y, Width: w, Height: h},
		})
		if m.Focused {
			snap.Active.Monitor = m.Id
			snap.Active.Workspace = m.ActiveWorkspace.Id
			if m.SpecialWorkspace.Id != 0 {
				snap.Active.Workspace = m.SpecialWorkspace.Id
			}
		}
	}

	for _, ws := range workspaces {
		snap.Workspaces = append(snap.Workspaces, order.WorkspaceFrame{
			ID:      ws.Id,
			Name:    ws.Name,
			Monitor: ws.MonitorID,
		})
	}

	for _, c := range clients {
		if !c.Mapped || c.Hidden || len(c.At) < 2 || len(c.Size) < 2 {
			continue
		}
		snap.Windows = append(snap.Windows, order.Window{
			ID:           c.Address,
			Rect:         order.Rect{X: c.At[0], Y: c.At[1], Width: c.Size[0], Height: c.Size[1]},
			Workspace:    c.Workspace.Id,
			Monitor:      c.Monitor,
			Enabled:      true,
			Class:        c.Class,
			Title:        c.Title,
			PID:          c.Pid,
			Floating:     c.Floating,
			FocusHistory: c.FocusHistoryId,
		})
	}

	snap.Active.Window = active.Address
	snap.Active.Class = active.Class
	return snap, nil
}

// logicalSize converts a monitor's mode size to layout coordinates.
// Odd transforms rotate the output by 90 or 270 degrees.
func logicalSize(width, height int, scale float64, transform int) (int, int) {
	if scale > 0 {
		width = int(float64(width) / scale)
		height = int(float64(height) / scale)
	}
	if transform%2 == 1 {
		width, height = height, width
	}
	return width, height
}

// FocusWindow focuses a client by address.
func (b *HyprlandBackend) FocusWindow(ctx context.Context, id string) error {
	if !strings.HasPrefix(id, "0x") {
		return fmt.Errorf("invalid hyprland address %q", id)
	}
	_, err := b.client.Dispatch("focuswindow address:" + id)
	return err
}

// SwitchWorkspace switches to a workspace, toggling special workspaces.
func (b *HyprlandBackend) SwitchWorkspace(ctx context.Context, id int) error {
	if id < 0 {
		name, err := b.specialName(id)
		if err != nil {
			return err
		}
		_, err = b.client.Dispatch("togglespecialworkspace " + strings.TrimPrefix(name, "special:"))
		return err
	}
	_, err := b.client.Dispatch(fmt.Sprintf("workspace %d", id))
	return err
}

func (b *HyprlandBackend) specialName(id int) (string, error) {
	workspaces, err := b.client.Workspaces()
	if err != nil {
		return "", err
	}
	for _, ws := range workspaces {
		if ws.Id == id {
			return ws.Name, nil
		}
	}
	return "", fmt.Errorf("special workspace %d not found", id)
}

// Watch subscribes to the event socket until ctx is cancelled.
func (b *HyprlandBackend) Watch(ctx context.Context, fn func(Event)) error {
	client, err := event.NewClient(b.eventSocket)
	if err != nil {
		return fmt.Errorf("failed to open hyprland event socket: %w", err)
	}
	defer client.Close()

	return client.Subscribe(ctx, &eventHandler{fn: fn},
		event.EventWorkspace,
		event.EventActiveWindow,
		event.EventOpenWindow,
		event.EventCloseWindow,
		event.EventMoveWindow,
	)
}

// Close is a no-op: requests use short-lived socket connections.
func (b *HyprlandBackend) Close() error { return nil }

type eventHandler struct {
	event.DefaultEventHandler
	fn func(Event)
}

func (h *eventHandler) Workspace(w event.WorkspaceName) {
	h.fn(Event{Kind: EventWorkspace, Detail: string(w)})
}

func (h *eventHandler) ActiveWindow(w event.ActiveWindow) {
	h.fn(Event{Kind: EventFocusChanged, Detail: w.Title})
}

func (h *eventHandler) OpenWindow(o event.OpenWindow) {
	h.fn(Event{Kind: EventWindowOpened, Detail: o.Address})
}

func (h *eventHandler) CloseWindow(c event.CloseWindow) {
	h.fn(Event{Kind: EventWindowClosed, Detail: c.Address})
}

func (h *eventHandler) MoveWindow(m event.MoveWindow) {
	h.fn(Event{Kind: EventWindowMoved, Detail: m.Address})
}
