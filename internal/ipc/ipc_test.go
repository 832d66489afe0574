package ipc

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/logging"
	"github.com/1broseidon/hyprcycle/internal/order"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

type fakeHandler struct {
	view    *switcher.View
	steps   []int
	focused []string
}

func (f *fakeHandler) View(ctx context.Context) (*switcher.View, error) { return f.view, nil }

func (f *fakeHandler) Step(ctx context.Context, n int) (*switcher.Entry, error) {
	f.steps = append(f.steps, n)
	return f.view.Target(n)
}

func (f *fakeHandler) Jump(ctx context.Context, label int) (*switcher.Entry, error) {
	e, ok := f.view.ByLabel(label)
	if !ok {
		return nil, errors.New("no such label")
	}
	return e, nil
}

func (f *fakeHandler) Focus(ctx context.Context, id string) (*switcher.Entry, error) {
	f.focused = append(f.focused, id)
	e, ok := f.view.Lookup(id)
	if !ok {
		return nil, errors.New("no such entry")
	}
	return e, nil
}

func (f *fakeHandler) Reload() (*config.LoadResult, error) {
	return &config.LoadResult{Config: config.DefaultConfig(), Files: []string{"/etc/x.yaml"}}, nil
}

func startServer(t *testing.T) (*Client, *fakeHandler) {
	t.Helper()
	label := func(k int) *int { return &k }
	a := order.Window{ID: "0xa", Class: "kitty"}
	b := order.Window{ID: "0xb", Class: "firefox"}
	h := &fakeHandler{view: &switcher.View{
		Mode:     "per-workspace",
		Type:     config.SwitchClient,
		Selected: 0,
		Entries: []switcher.Entry{
			{Index: 0, Label: label(0), Selected: true, Window: &a},
			{Index: 1, Label: label(1), Window: &b},
		},
	}}

	path := filepath.Join(t.TempDir(), "hc.sock")
	srv := NewServer(path, h, "fake", logging.Discard())
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientAt(path), h
}

func TestPingAndStatus(t *testing.T) {
	c, _ := startServer(t)
	if err := c.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	st, err := c.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Backend != "fake" || st.Entries != 2 || st.Selected != 0 || st.Mode != "per-workspace" {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestListRoundTrip(t *testing.T) {
	c, _ := startServer(t)
	v, err := c.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if v.Len() != 2 || v.Entries[1].ID() != "0xb" || *v.Entries[1].Label != 1 {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestStepJumpFocus(t *testing.T) {
	c, h := startServer(t)

	e, err := c.Step(-1)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if e.ID() != "0xb" || len(h.steps) != 1 || h.steps[0] != -1 {
		t.Fatalf("unexpected step result %+v %v", e, h.steps)
	}

	if e, err = c.Jump(1); err != nil || e.ID() != "0xb" {
		t.Fatalf("jump: %+v %v", e, err)
	}

	if _, err := c.Focus("0xa"); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if _, err := c.Focus("0xzz"); err == nil || !strings.Contains(err.Error(), "no such entry") {
		t.Fatalf("expected daemon error, got %v", err)
	}
	if _, err := c.Focus(""); err == nil {
		t.Fatalf("expected empty id to be rejected")
	}
}

func TestReload(t *testing.T) {
	c, _ := startServer(t)
	data, err := c.Reload()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(data.Files) != 1 {
		t.Fatalf("unexpected reload data %+v", data)
	}
}

func TestUnknownCommandAndMissingPayload(t *testing.T) {
	c, _ := startServer(t)
	if _, err := c.sendRequest("NOPE", nil); err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if _, err := c.sendRequest(CommandStep, nil); err == nil || !strings.Contains(err.Error(), "missing payload") {
		t.Fatalf("expected missing payload error, got %v", err)
	}
}

func TestClientWithoutDaemon(t *testing.T) {
	c := NewClientAt(filepath.Join(t.TempDir(), "none.sock"))
	if err := c.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
