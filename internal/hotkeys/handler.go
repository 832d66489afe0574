package hotkeys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/platform"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

// ErrUnsupported is returned for backends without global key grabs.
// Hyprland users bind the CLI from hyprland.conf instead.
var ErrUnsupported = errors.New("global hotkeys require the x11 backend")

// Stepper moves focus through the cycle.
type Stepper interface {
	Step(ctx context.Context, n int) (*switcher.Entry, error)
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts. Callbacks are dispatched by
// the backend's X event loop, which the daemon's refresher runs.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler on backend's X connection.
func NewHandler(backend platform.Backend, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, ErrUnsupported
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   accessor.RootWindow(),
		logger: logger,
	}, nil
}

// Register binds the configured next, prev and palette keys. Empty
// sequences are skipped; palette may be nil.
func (h *Handler) Register(cfg config.HotkeyConfig, sw Stepper, palette func()) error {
	step := func(n int) func() {
		return func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			e, err := sw.Step(ctx, n)
			if err != nil {
				h.logger.Warn("hotkey step failed", "step", n, "err", err)
				return
			}
			h.logger.Debug("hotkey step", "step", n, "id", e.ID())
		}
	}

	bindings := []struct {
		name string
		keys string
		fn   func()
	}{
		{"next", cfg.Next, step(1)},
		{"prev", cfg.Prev, step(-1)},
		{"palette", cfg.Palette, palette},
	}
	for _, b := range bindings {
		if b.keys == "" || b.fn == nil {
			continue
		}
		if err := h.RegisterFunc(b.keys, b.fn); err != nil {
			return fmt.Errorf("failed to register %s hotkey %q: %w", b.name, b.keys, err)
		}
		h.logger.Info("hotkey registered", "action", b.name, "keys", b.keys)
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback. The callback runs on
// its own goroutine so it may issue X requests of its own.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		go callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	xevent.IgnoreMods = ignoreMasks(base)
}

// ignoreMasks returns every combination of the given lock masks, including
// the empty one.
func ignoreMasks(base []uint16) []uint16 {
	out := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
