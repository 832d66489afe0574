package x11

import (
	"context"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to the X server named by $DISPLAY.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// Required before any hotkey can be grabbed.
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// rootProperties are the EWMH root properties whose changes mean the window
// list, the focused window or the current desktop changed.
var rootProperties = map[string]bool{
	"_NET_CLIENT_LIST":          true,
	"_NET_CLIENT_LIST_STACKING": true,
	"_NET_ACTIVE_WINDOW":        true,
	"_NET_CURRENT_DESKTOP":      true,
	"_NET_NUMBER_OF_DESKTOPS":   true,
}

// WatchRoot runs the X event loop until ctx is cancelled, calling fn with the
// atom name of every relevant root property change.
//
// Hotkeys registered on the same connection are dispatched by this loop too.
func (c *Connection) WatchRoot(ctx context.Context, fn func(property string)) error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil || !rootProperties[name] {
			return
		}
		fn(name)
	}).Connect(c.XUtil, c.Root)

	go func() {
		<-ctx.Done()
		xevent.Quit(c.XUtil)
	}()

	xevent.Main(c.XUtil)
	return ctx.Err()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
