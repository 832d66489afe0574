package platform

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/1broseidon/hyprcycle/internal/order"
	"github.com/1broseidon/hyprcycle/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// X11Backend drives an EWMH window manager. Desktops stand in for
// workspaces; they span every monitor, so each one is reported on the first
// monitor and windows keep the monitor containing their center.
type X11Backend struct {
	conn *x11.Connection
	// xgbutil is not safe for concurrent requests from several goroutines.
	mu sync.Mutex
}

var (
	_ Backend = (*X11Backend)(nil)
	_ Watcher = (*X11Backend)(nil)
)

// NewX11Backend opens a connection to the X server named by $DISPLAY.
func NewX11Backend() (*X11Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &X11Backend{conn: conn}, nil
}

func (b *X11Backend) Name() string { return "x11" }

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *X11Backend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *X11Backend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Snapshot reads monitors, desktops and client windows.
func (b *X11Backend) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}
	sort.Slice(monitors, func(i, j int) bool { return monitors[i].ID < monitors[j].ID })

	current, err := b.conn.GetCurrentDesktop()
	if err != nil {
		return nil, err
	}
	count, err := b.conn.GetDesktopCount()
	if err != nil {
		count = current + 1
	}
	clients, err := b.conn.ListClients()
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{TakenAt: time.Now()}
	for _, m := range monitors {
		snap.Monitors = append(snap.Monitors, order.MonitorFrame{
			ID:   m.ID,
			Name: m.Name,
			Rect: order.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		})
	}

	names := b.conn.GetDesktopNames()
	primary := monitors[0].ID
	for d := 0; d < count; d++ {
		name := strconv.Itoa(d + 1)
		if d < len(names) && names[d] != "" {
			name = names[d]
		}
		snap.Workspaces = append(snap.Workspaces, order.WorkspaceFrame{ID: d, Name: name, Monitor: primary})
	}

	active, _ := b.conn.GetActiveWindow()
	snap.Active = Active{Workspace: current, Monitor: primary}
	for _, c := range clients {
		desktop := c.Desktop
		if desktop == x11.Sticky {
			desktop = current
		}
		w := order.Window{
			ID:           windowID(c.ID),
			Rect:         order.Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height},
			Workspace:    desktop,
			Monitor:      x11.MonitorAt(monitors, c.X+c.Width/2, c.Y+c.Height/2),
			Enabled:      true,
			Class:        c.Class,
			Title:        c.Title,
			PID:          c.PID,
			FocusHistory: c.Stacking,
		}
		if c.ID == active {
			w.FocusHistory = 0
			snap.Active.Window = w.ID
			snap.Active.Class = w.Class
			snap.Active.Monitor = w.Monitor
		}
		snap.Windows = append(snap.Windows, w)
	}
	return snap, nil
}

// FocusWindow activates the window with the given hex id.
func (b *X11Backend) FocusWindow(ctx context.Context, id string) error {
	wid, err := parseWindowID(id)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn.FocusWindow(wid)
}

// SwitchWorkspace changes the current desktop.
func (b *X11Backend) SwitchWorkspace(ctx context.Context, id int) error {
	if id < 0 {
		return fmt.Errorf("invalid desktop %d", id)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn.SetCurrentDesktop(id)
}

// Watch runs the X event loop and reports root property changes.
func (b *X11Backend) Watch(ctx context.Context, fn func(Event)) error {
	return b.conn.WatchRoot(ctx, func(property string) {
		kind := EventLayoutChanged
		switch property {
		case "_NET_ACTIVE_WINDOW":
			kind = EventFocusChanged
		case "_NET_CURRENT_DESKTOP", "_NET_NUMBER_OF_DESKTOPS":
			kind = EventWorkspace
		}
		fn(Event{Kind: kind, Detail: property})
	})
}

// Close disconnects from the X server.
func (b *X11Backend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
	return nil
}

func windowID(id xproto.Window) string {
	return fmt.Sprintf("0x%08x", uint32(id))
}

func parseWindowID(id string) (xproto.Window, error) {
	v, err := strconv.ParseUint(id, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid X11 window id %q: %w", id, err)
	}
	return xproto.Window(v), nil
}
