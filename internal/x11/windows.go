package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Client is a managed top-level window.
type Client struct {
	ID      xproto.Window
	Class   string
	Title   string
	PID     int
	Desktop int // Sticky for windows on every desktop
	X       int
	Y       int
	Width   int
	Height  int
	// Stacking is the position from the top of _NET_CLIENT_LIST_STACKING;
	// 0 is the topmost window, -1 when the stacking list is unavailable.
	Stacking int
}

// ListClients returns every normal, visible window in _NET_CLIENT_LIST.
func (c *Connection) ListClients() ([]Client, error) {
	ids, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}

	stacking := map[xproto.Window]int{}
	if stack, err := ewmh.ClientListStackingGet(c.XUtil); err == nil {
		for i, id := range stack {
			stacking[id] = len(stack) - 1 - i
		}
	}

	clients := make([]Client, 0, len(ids))
	for _, id := range ids {
		if !c.IsNormalWindow(id) || c.isHidden(id) {
			continue
		}
		x, y, w, h, ok := c.geometry(id)
		if !ok {
			continue
		}
		desktop, err := c.GetWindowDesktop(id)
		if err != nil {
			desktop = Sticky
		}
		pid := 0
		if p, err := ewmh.WmPidGet(c.XUtil, id); err == nil {
			pid = int(p)
		}
		pos, ok := stacking[id]
		if !ok {
			pos = -1
		}

		clients = append(clients, Client{
			ID:       id,
			Class:    c.windowClass(id),
			Title:    c.windowTitle(id),
			PID:      pid,
			Desktop:  desktop,
			X:        x,
			Y:        y,
			Width:    w,
			Height:   h,
			Stacking: pos,
		})
	}
	return clients, nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return len(types) == 0
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

func (c *Connection) isHidden(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_HIDDEN" || state == "_NET_WM_STATE_SKIP_TASKBAR" {
			return true
		}
	}
	return false
}

// geometry returns the window's root-relative position and size.
func (c *Connection) geometry(windowID xproto.Window) (x, y, w, h int, ok bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}
	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), true
}

func (c *Connection) windowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

func (c *Connection) windowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}
