package platform

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/1broseidon/hyprcycle/internal/order"
)

// Active describes what currently has focus.
type Active struct {
	Window    string `json:"window"`
	Class     string `json:"class"`
	Workspace int    `json:"workspace"`
	Monitor   int    `json:"monitor"`
}

// Snapshot is the compositor state at one point in time. Workspace frames
// carry only ID, Name and Monitor; placement is computed by the consumer.
type Snapshot struct {
	Windows    []order.Window         `json:"windows"`
	Workspaces []order.WorkspaceFrame `json:"workspaces"`
	Monitors   []order.MonitorFrame   `json:"monitors"`
	Active     Active                 `json:"active"`
	TakenAt    time.Time              `json:"taken_at"`
}

// EventKind classifies compositor events.
type EventKind string

const (
	EventWindowOpened  EventKind = "window_opened"
	EventWindowClosed  EventKind = "window_closed"
	EventWindowMoved   EventKind = "window_moved"
	EventFocusChanged  EventKind = "focus_changed"
	EventWorkspace     EventKind = "workspace_changed"
	EventLayoutChanged EventKind = "layout_changed"
)

// Event is a compositor notification that the snapshot is stale.
type Event struct {
	Kind   EventKind
	Detail string
}

// Backend abstracts the compositor the switcher drives.
type Backend interface {
	Name() string
	Snapshot(ctx context.Context) (*Snapshot, error)
	FocusWindow(ctx context.Context, id string) error
	SwitchWorkspace(ctx context.Context, id int) error
	Close() error
}

// Watcher is implemented by backends that can push change notifications.
// Watch blocks until ctx is cancelled or the event source fails.
type Watcher interface {
	Watch(ctx context.Context, fn func(Event)) error
}

// Detect picks a backend name from the session environment.
func Detect() string {
	if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return "hyprland"
	}
	if os.Getenv("DISPLAY") != "" {
		return "x11"
	}
	return ""
}

// Open connects to the named backend. "auto" or "" selects one from the
// environment.
func Open(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		name = Detect()
		if name == "" {
			return nil, fmt.Errorf("no supported compositor found (neither HYPRLAND_INSTANCE_SIGNATURE nor DISPLAY is set)")
		}
	}

	switch name {
	case "hyprland":
		return NewHyprlandBackend()
	case "x11":
		return NewX11Backend()
	default:
		return nil, fmt.Errorf("unknown backend %q (expected auto, hyprland or x11)", name)
	}
}
