package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/ipc"
	"github.com/1broseidon/hyprcycle/internal/logging"
	"github.com/1broseidon/hyprcycle/internal/order"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"12", 12, false},
		{"0", 0, true},
		{"-2", 0, true},
		{"two", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCount(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Fatalf("parseCount(%q) = %d, %v", tt.in, got, err)
			}
		})
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"3", 3, false},
		{"+3", 3, false},
		{"-1", -1, false},
		{"m2", -2, false},
		{"m", 0, true},
		{"x1", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLabel(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Fatalf("parseLabel(%q) = %d, %v", tt.in, got, err)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hyprcycle", "config.yaml")

	out, err := run(t, "config", "path", "--config", path)
	if err != nil || strings.TrimSpace(out) != path {
		t.Fatalf("config path = %q, %v", out, err)
	}

	if _, err := run(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := run(t, "config", "init", "--config", path); err == nil {
		t.Fatalf("second init should refuse to overwrite")
	}
	if _, err := run(t, "config", "init", "--force", "--config", path); err != nil {
		t.Fatalf("init --force: %v", err)
	}

	out, err = run(t, "config", "validate", "--config", path)
	if err != nil || !strings.Contains(out, "config: ok (1 files)") {
		t.Fatalf("validate = %q, %v", out, err)
	}

	out, err = run(t, "config", "print", "--config", path)
	if err != nil || !strings.Contains(out, "max_offset: 9") {
		t.Fatalf("print = %q, %v", out, err)
	}

	out, err = run(t, "config", "explain", "--list", "--config", path)
	if err != nil || !strings.Contains(out, "switcher.ignore_monitors\n") {
		t.Fatalf("explain --list = %q, %v", out, err)
	}
}

func TestConfigExplainReportsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("switcher:\n  ignore_monitors: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "config", "explain", "switcher.ignore_monitors", "--config", path)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.Contains(out, "source: file "+path+":2:") && !strings.Contains(out, "source: "+path+":2:") {
		t.Fatalf("unexpected source in %q", out)
	}
	if !strings.Contains(out, "value:\ntrue") {
		t.Fatalf("unexpected value in %q", out)
	}

	out, err = run(t, "config", "explain", "labels.max_offset", "--config", path)
	if err != nil || !strings.Contains(out, "source: default (defaults)") {
		t.Fatalf("explain default = %q, %v", out, err)
	}

	if _, err := run(t, "config", "explain", "--config", path); err == nil {
		t.Fatalf("explain without a path should fail")
	}
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "switcher:\n  ignore_workspaces: true\n  ignore_monitors: true\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "config", "validate", "--config", path); err == nil {
		t.Fatalf("expected validation error")
	}
}

type fakeHandler struct {
	view  *switcher.View
	steps []int
}

func (f *fakeHandler) View(context.Context) (*switcher.View, error) { return f.view, nil }

func (f *fakeHandler) Step(_ context.Context, n int) (*switcher.Entry, error) {
	f.steps = append(f.steps, n)
	return f.view.Target(n)
}

func (f *fakeHandler) Jump(_ context.Context, k int) (*switcher.Entry, error) {
	if e, ok := f.view.ByLabel(k); ok {
		return e, nil
	}
	return nil, errors.New("no such label")
}

func (f *fakeHandler) Focus(_ context.Context, id string) (*switcher.Entry, error) {
	if e, ok := f.view.Lookup(id); ok {
		return e, nil
	}
	return nil, errors.New("unknown id")
}

func (f *fakeHandler) Reload() (*config.LoadResult, error) {
	return &config.LoadResult{Config: config.DefaultConfig(), Files: []string{"/tmp/a.yaml"}}, nil
}

func startDaemon(t *testing.T) (string, *fakeHandler) {
	t.Helper()
	label := func(k int) *int { return &k }
	wins := []order.Window{
		{ID: "0xa", Class: "kitty", Title: "shell", Workspace: 1},
		{ID: "0xb", Class: "firefox", Title: "docs", Workspace: 1},
		{ID: "0xc", Class: "mpv", Title: "video", Workspace: 2},
	}
	h := &fakeHandler{view: &switcher.View{
		Type:     config.SwitchClient,
		Mode:     "per-workspace",
		Selected: 1,
		Entries: []switcher.Entry{
			{Index: 0, Label: label(-1), Window: &wins[0]},
			{Index: 1, Label: label(0), Selected: true, Window: &wins[1]},
			{Index: 2, Label: label(1), Window: &wins[2]},
		},
		Groups: []switcher.Group{
			{Title: "DP-1 / workspace 1", Start: 0, End: 2},
			{Title: "DP-1 / workspace 2", Start: 2, End: 3},
		},
	}}
	socket := filepath.Join(t.TempDir(), "hc.sock")
	srv := ipc.NewServer(socket, h, "fake", logging.Discard())
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return socket, h
}

func TestClientCommands(t *testing.T) {
	socket, h := startDaemon(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"list", []string{"list"}, "DP-1 / workspace 2\n   +1 mpv - video  [2]"},
		{"list marks focus", []string{"list"}, "*   0 firefox - docs  [1]"},
		{"list json", []string{"list", "--json"}, `"mode": "per-workspace"`},
		{"next", []string{"next"}, "mpv - video"},
		{"next 2", []string{"next", "2"}, "kitty - shell"},
		{"prev", []string{"prev"}, "kitty - shell"},
		{"jump", []string{"jump", "1"}, "mpv - video"},
		{"jump negative", []string{"jump", "--", "-1"}, "kitty - shell"},
		{"jump m", []string{"jump", "m1"}, "kitty - shell"},
		{"focus", []string{"focus", "0xc"}, "mpv - video"},
		{"status", []string{"status"}, "backend:      fake"},
		{"reload", []string{"reload"}, "config reloaded (1 files)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"--socket", socket}, tt.args...)...)
			if err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Fatalf("%v output %q does not contain %q", tt.args, out, tt.want)
			}
		})
	}

	want := []int{1, 2, -1}
	if len(h.steps) != len(want) {
		t.Fatalf("steps = %v, want %v", h.steps, want)
	}
	for i := range want {
		if h.steps[i] != want[i] {
			t.Fatalf("steps = %v, want %v", h.steps, want)
		}
	}
}

func TestClientCommandErrors(t *testing.T) {
	socket, _ := startDaemon(t)

	for _, args := range [][]string{
		{"next", "0"},
		{"jump", "7"},
		{"focus", "0xdead"},
		{"list", "extra"},
	} {
		if _, err := run(t, append(args, "--socket", socket)...); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestNoDaemon(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "missing.sock")
	if _, err := run(t, "list", "--socket", socket); err == nil {
		t.Fatalf("expected connection error")
	}
}

func TestWriteViewEmpty(t *testing.T) {
	var buf bytes.Buffer
	writeView(&buf, &switcher.View{Selected: -1})
	if buf.String() != "no windows\n" {
		t.Fatalf("got %q", buf.String())
	}
}
