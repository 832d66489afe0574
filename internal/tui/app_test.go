package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/order"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

type fakeSource struct {
	view    *switcher.View
	focused []string
}

func (f *fakeSource) List() (*switcher.View, error) { return f.view, nil }

func (f *fakeSource) Focus(id string) (*switcher.Entry, error) {
	f.focused = append(f.focused, id)
	e, ok := f.view.Lookup(id)
	if !ok {
		return nil, errors.New("gone")
	}
	return e, nil
}

func testView() *switcher.View {
	label := func(k int) *int { return &k }
	wins := []order.Window{
		{ID: "0xa", Class: "kitty", Title: "shell"},
		{ID: "0xb", Class: "firefox", Title: "docs"},
		{ID: "0xc", Class: "mpv", Title: "video"},
	}
	return &switcher.View{
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
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func loaded(t *testing.T, src *fakeSource) model {
	t.Helper()
	m := newModel(Options{Source: src})
	next, _ := m.Update(m.load()())
	return next.(model)
}

func press(m model, msgs ...tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd
	var next tea.Model = m
	for _, msg := range msgs {
		next, cmd = next.(model).Update(msg)
	}
	return next.(model), cmd
}

func TestCursorStartsOnActiveAndWraps(t *testing.T) {
	m := loaded(t, &fakeSource{view: testView()})
	if m.cursor != 1 {
		t.Fatalf("expected cursor on active entry, got %d", m.cursor)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	if m.cursor != 0 {
		t.Fatalf("expected wrap to 0, got %d", m.cursor)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.cursor != 2 {
		t.Fatalf("expected wrap back to 2, got %d", m.cursor)
	}
	m, _ = press(m, runes("k"), runes("k"))
	if m.cursor != 0 {
		t.Fatalf("expected cursor 0 after k k, got %d", m.cursor)
	}
}

func TestDigitsJumpByLabel(t *testing.T) {
	m := loaded(t, &fakeSource{view: testView()})
	m, _ = press(m, runes("1"))
	if m.cursor != 2 {
		t.Fatalf("expected label 1 at index 2, got %d", m.cursor)
	}
	m, _ = press(m, runes("-"), runes("1"))
	if m.cursor != 0 {
		t.Fatalf("expected label -1 at index 0, got %d", m.cursor)
	}
	if m.sign != 1 {
		t.Fatalf("sign should reset after a jump")
	}
	m, _ = press(m, runes("7"))
	if !strings.Contains(m.status, "no entry labelled 7") {
		t.Fatalf("expected status for missing label, got %q", m.status)
	}
}

func TestEnterFocusesAndQuits(t *testing.T) {
	src := &fakeSource{view: testView()}
	m := loaded(t, src)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected focus command")
	}
	m, _ = press(m, cmd())
	if m.chosen == nil || m.chosen.ID() != "0xc" {
		t.Fatalf("expected 0xc chosen, got %+v", m.chosen)
	}
	if len(src.focused) != 1 || src.focused[0] != "0xc" {
		t.Fatalf("focused = %v", src.focused)
	}
}

func TestViewRendersGroupsAndLabels(t *testing.T) {
	m := loaded(t, &fakeSource{view: testView()})
	out := m.View()
	for _, want := range []string{"DP-1 / workspace 1", "DP-1 / workspace 2", "kitty", "+1", "-1", "3 entries"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestSettingsWithoutConfig(t *testing.T) {
	m := loaded(t, &fakeSource{view: testView()})
	m, _ = press(m, runes("s"))
	if m.settings != nil || m.status != "no config loaded" {
		t.Fatalf("expected settings to be unavailable, got %q", m.status)
	}
}

func TestSettingsApply(t *testing.T) {
	cfg := config.DefaultConfig()
	s := newSettingsForm(cfg, 80)
	s.fGrouping = groupRank
	s.fMaxOffset = "4"
	s.fSort = "recent"

	out, err := s.apply(cfg)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !out.Switcher.IgnoreMonitors || out.Switcher.IgnoreWorkspaces {
		t.Fatalf("unexpected grouping %+v", out.Switcher)
	}
	if out.Labels.MaxOffset != 4 || out.Switcher.Sort != config.SortRecent {
		t.Fatalf("unexpected config %+v", out)
	}
	if cfg.Labels.MaxOffset != 9 {
		t.Fatalf("input config mutated")
	}

	s.fMaxOffset = "300"
	if _, err := s.apply(cfg); err == nil {
		t.Fatalf("expected validation error")
	}
	if validateOffset("x") == nil || validateOffset("12") != nil {
		t.Fatalf("validateOffset misbehaves")
	}
}

func TestSaveWritesConfigAndNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	notified := false
	m := newModel(Options{
		Source:     &fakeSource{view: testView()},
		ConfigPath: path,
		OnSaved:    func() error { notified = true; return nil },
	})
	msg := m.save(config.DefaultConfig())()
	if saved, ok := msg.(savedMsg); !ok || saved.err != nil {
		t.Fatalf("unexpected save result %#v", msg)
	}
	if !notified {
		t.Fatalf("OnSaved not called")
	}
	if _, err := config.LoadFromPath(path); err != nil {
		t.Fatalf("saved config does not load: %v", err)
	}
}
