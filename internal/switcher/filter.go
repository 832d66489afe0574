package switcher

import (
	"strings"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/order"
	"github.com/1broseidon/hyprcycle/internal/platform"
)

// Filter returns a copy of windows with Enabled set from the filter settings.
func Filter(windows []order.Window, active platform.Active, cfg *config.Config) []order.Window {
	out := make([]order.Window, len(windows))
	for i, w := range windows {
		w.Enabled = allowed(w, active, cfg)
		out[i] = w
	}
	return out
}

func allowed(w order.Window, active platform.Active, cfg *config.Config) bool {
	f := cfg.Filter
	if cfg.IsExcluded(w.Class) {
		return false
	}
	if w.Workspace < 0 && !f.IncludeSpecialWorkspaces {
		return false
	}
	if f.SameClass && active.Class != "" && !strings.EqualFold(w.Class, active.Class) {
		return false
	}
	if f.CurrentWorkspace && w.Workspace != active.Workspace {
		return false
	}
	if f.CurrentMonitor && w.Monitor != active.Monitor {
		return false
	}
	return true
}

// filterWorkspaces drops the workspace frames the filter settings hide.
// The current monitor is the one showing the active workspace, which differs
// from the focused window's monitor when desktops span every output (X11).
func filterWorkspaces(frames []order.WorkspaceFrame, active platform.Active, f config.FilterConfig) []order.WorkspaceFrame {
	monitor := active.Monitor
	for _, ws := range frames {
		if ws.ID == active.Workspace {
			monitor = ws.Monitor
			break
		}
	}

	out := make([]order.WorkspaceFrame, 0, len(frames))
	for _, ws := range frames {
		if ws.ID < 0 && !f.IncludeSpecialWorkspaces {
			continue
		}
		if f.CurrentMonitor && ws.Monitor != monitor {
			continue
		}
		out = append(out, ws)
	}
	return out
}
