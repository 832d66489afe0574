package switcher

import (
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/order"
	"github.com/1broseidon/hyprcycle/internal/platform"
)

func testSnapshot() *platform.Snapshot {
	win := func(id, class string, ws, mon, x, y, w, h, hist int) order.Window {
		return order.Window{
			ID: id, Class: class, Title: id, Workspace: ws, Monitor: mon,
			Rect: order.Rect{X: x, Y: y, Width: w, Height: h}, Enabled: true, FocusHistory: hist,
		}
	}
	return &platform.Snapshot{
		Monitors: []order.MonitorFrame{
			{ID: 0, Name: "DP-1", Rect: order.Rect{Width: 1920, Height: 1080}},
			{ID: 1, Name: "HDMI-A-1", Rect: order.Rect{X: 1920, Width: 1920, Height: 1080}},
		},
		Workspaces: []order.WorkspaceFrame{
			{ID: 1, Name: "1", Monitor: 0},
			{ID: 2, Name: "2", Monitor: 0},
			{ID: 3, Name: "web", Monitor: 1},
		},
		Windows: []order.Window{
			win("a", "kitty", 1, 0, 0, 0, 960, 1080, 2),
			win("b", "firefox", 1, 0, 960, 0, 960, 1080, 0),
			win("c", "kitty", 2, 0, 0, 0, 1920, 1080, 1),
			win("d", "kitty", 3, 1, 1920, 0, 1920, 1080, -1),
		},
		Active: platform.Active{Window: "b", Class: "firefox", Workspace: 1, Monitor: 0},
	}
}

func entryIDs(v *View) string {
	ids := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		ids[i] = e.ID()
	}
	return strings.Join(ids, ",")
}

func labelsOf(v *View) []int {
	out := make([]int, len(v.Entries))
	for i, e := range v.Entries {
		out[i] = -100
		if e.Label != nil {
			out[i] = *e.Label
		}
	}
	return out
}

func TestBuildModes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		order  string
		groups []string
		mode   string
	}{
		{
			name:   "per workspace",
			mutate: func(*config.Config) {},
			order:  "a,b,c,d",
			groups: []string{"DP-1 / workspace 1", "DP-1 / workspace 2", "HDMI-A-1 / web"},
			mode:   "per-workspace",
		},
		{
			name:   "per monitor overlays workspaces",
			mutate: func(c *config.Config) { c.Switcher.IgnoreWorkspaces = true },
			order:  "a,c,b,d",
			groups: []string{"DP-1", "HDMI-A-1"},
			mode:   "per-monitor",
		},
		{
			name:   "workspace rank across monitors",
			mutate: func(c *config.Config) { c.Switcher.IgnoreMonitors = true },
			order:  "a,b,d,c",
			groups: []string{"workspace 1", "workspace 2"},
			mode:   "per-workspace-rank",
		},
		{
			name:   "recent",
			mutate: func(c *config.Config) { c.Switcher.Sort = config.SortRecent },
			order:  "b,c,a,d",
			groups: []string{"recent"},
			mode:   "per-workspace",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			v, err := Build(testSnapshot(), cfg)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if got := entryIDs(v); got != tt.order {
				t.Fatalf("order = %s, want %s", got, tt.order)
			}
			if len(v.Groups) != len(tt.groups) {
				t.Fatalf("groups = %+v, want %v", v.Groups, tt.groups)
			}
			for i, g := range v.Groups {
				if g.Title != tt.groups[i] {
					t.Fatalf("group %d title = %q, want %q", i, g.Title, tt.groups[i])
				}
			}
			if v.Mode != tt.mode {
				t.Fatalf("mode = %q, want %q", v.Mode, tt.mode)
			}
			if cur := v.Current(); cur == nil || cur.ID() != "b" || !cur.Selected {
				t.Fatalf("expected b selected, got %+v", cur)
			}
		})
	}
}

func TestBuildLabels(t *testing.T) {
	v, err := Build(testSnapshot(), config.DefaultConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []int{3, 0, 1, 2}
	got := labelsOf(v)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels = %v, want %v", got, want)
		}
	}
	if e, ok := v.ByLabel(2); !ok || e.ID() != "d" {
		t.Fatalf("ByLabel(2) = %+v", e)
	}

	cfg := config.DefaultConfig()
	cfg.Labels.PreferPositive = false
	v, err = Build(testSnapshot(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := labelsOf(v); got[0] != -1 {
		t.Fatalf("expected -1 for a without positive preference, got %v", got)
	}

	cfg.Labels.MaxOffset = 0
	v, err = Build(testSnapshot(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, e := range v.Entries {
		if e.Label != nil {
			t.Fatalf("expected no labels with max_offset 0, got %d on %s", *e.Label, e.ID())
		}
	}
}

func TestBuildRejectsBothCollapseFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Switcher.IgnoreWorkspaces = true
	cfg.Switcher.IgnoreMonitors = true
	if _, err := Build(testSnapshot(), cfg); !errors.Is(err, order.ErrUnsupportedCombination) {
		t.Fatalf("expected ErrUnsupportedCombination, got %v", err)
	}
}

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		order  string
	}{
		{"same class", func(c *config.Config) { c.Filter.SameClass = true }, "b"},
		{"current workspace", func(c *config.Config) { c.Filter.CurrentWorkspace = true }, "a,b"},
		{"current monitor", func(c *config.Config) { c.Filter.CurrentMonitor = true }, "a,b,c"},
		{"exclude", func(c *config.Config) { c.Filter.ExcludeClasses = []string{"KITTY"} }, "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			v, err := Build(testSnapshot(), cfg)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if got := entryIDs(v); got != tt.order {
				t.Fatalf("order = %s, want %s", got, tt.order)
			}
		})
	}
}

func TestFilterSpecialWorkspaces(t *testing.T) {
	windows := []order.Window{
		{ID: "s", Workspace: -98, Enabled: true},
		{ID: "n", Workspace: 1, Enabled: false},
	}
	cfg := config.DefaultConfig()
	out := Filter(windows, platform.Active{}, cfg)
	if !out[0].Enabled || !out[1].Enabled {
		t.Fatalf("expected both enabled, got %+v", out)
	}
	cfg.Filter.IncludeSpecialWorkspaces = false
	out = Filter(windows, platform.Active{}, cfg)
	if out[0].Enabled || !out[1].Enabled {
		t.Fatalf("expected special window disabled, got %+v", out)
	}
	if !windows[0].Enabled || windows[1].Enabled {
		t.Fatalf("input mutated")
	}
}

func TestBuildWorkspaceMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Switcher.SwitchType = config.SwitchWorkspace
	v, err := Build(testSnapshot(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := entryIDs(v); got != "1,2,3" {
		t.Fatalf("order = %s", got)
	}
	if v.Mode != "per-monitor" || v.Selected != 0 {
		t.Fatalf("unexpected view mode=%s selected=%d", v.Mode, v.Selected)
	}
	if e := v.Entries[2]; e.Workspace.X != 1920 || e.Title() != "workspace web" {
		t.Fatalf("unexpected workspace entry %+v %q", e.Workspace, e.Title())
	}
}

func TestBuildWorkspaceModeCurrentMonitor(t *testing.T) {
	tests := []struct {
		name  string
		snap  func() *platform.Snapshot
		order string
	}{
		{
			name:  "workspaces owned by the focused monitor",
			snap:  testSnapshot,
			order: "1,2",
		},
		{
			// Desktops span both outputs and are reported on the first one,
			// while the focused window sits on the second.
			name: "desktops shared by every monitor",
			snap: func() *platform.Snapshot {
				return &platform.Snapshot{
					Monitors: []order.MonitorFrame{
						{ID: 0, Rect: order.Rect{Width: 1920, Height: 1080}},
						{ID: 1, Rect: order.Rect{X: 1920, Width: 1920, Height: 1080}},
					},
					Workspaces: []order.WorkspaceFrame{
						{ID: 0, Name: "1", Monitor: 0},
						{ID: 1, Name: "2", Monitor: 0},
					},
					Windows: []order.Window{
						{ID: "0x1", Workspace: 0, Monitor: 1, Enabled: true,
							Rect: order.Rect{X: 1920, Width: 800, Height: 600}},
					},
					Active: platform.Active{Window: "0x1", Workspace: 0, Monitor: 1},
				}
			},
			order: "0,1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Switcher.SwitchType = config.SwitchWorkspace
			cfg.Filter.CurrentMonitor = true
			v, err := Build(tt.snap(), cfg)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if got := entryIDs(v); got != tt.order {
				t.Fatalf("order = %q, want %q", got, tt.order)
			}
			if v.Selected != 0 {
				t.Fatalf("selected = %d, want 0", v.Selected)
			}
		})
	}
}

func TestBuildReportsDropped(t *testing.T) {
	snap := testSnapshot()
	snap.Windows = append(snap.Windows, order.Window{ID: "lost", Workspace: 9, Monitor: 0, Enabled: true})
	v, err := Build(snap, config.DefaultConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if v.Dropped == nil {
		t.Fatalf("expected dropped error")
	}
	if _, ok := v.Lookup("lost"); ok {
		t.Fatalf("dropped window should not be an entry")
	}
}

func TestTarget(t *testing.T) {
	v, err := Build(testSnapshot(), config.DefaultConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	tests := []struct {
		step int
		want string
	}{
		{1, "c"}, {-1, "a"}, {3, "a"}, {-2, "d"}, {0, "b"}, {8, "b"},
	}
	for _, tt := range tests {
		e, err := v.Target(tt.step)
		if err != nil {
			t.Fatalf("Target(%d): %v", tt.step, err)
		}
		if e.ID() != tt.want {
			t.Fatalf("Target(%d) = %s, want %s", tt.step, e.ID(), tt.want)
		}
	}
}

func TestTargetWithoutActive(t *testing.T) {
	snap := testSnapshot()
	snap.Active.Window = ""
	v, err := Build(snap, config.DefaultConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if v.Selected != -1 {
		t.Fatalf("expected no selection, got %d", v.Selected)
	}
	for step, want := range map[int]string{1: "a", -1: "d", 2: "b", -4: "a", 5: "a"} {
		e, err := v.Target(step)
		if err != nil {
			t.Fatalf("Target(%d): %v", step, err)
		}
		if e.ID() != want {
			t.Fatalf("Target(%d) = %s, want %s", step, e.ID(), want)
		}
	}
	if _, err := v.Target(0); err == nil {
		t.Fatalf("expected error for zero step without selection")
	}
}

func TestTargetEmpty(t *testing.T) {
	snap := testSnapshot()
	snap.Windows = nil
	v, err := Build(snap, config.DefaultConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(v.Groups) != 0 {
		t.Fatalf("expected no groups, got %+v", v.Groups)
	}
	if _, err := v.Target(1); !errors.Is(err, ErrNoWindows) {
		t.Fatalf("expected ErrNoWindows, got %v", err)
	}
}
