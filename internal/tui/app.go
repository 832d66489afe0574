package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

// Source provides the ordered view and executes focus requests. Both the IPC
// client and a local daemon controller can back it.
type Source interface {
	List() (*switcher.View, error)
	Focus(id string) (*switcher.Entry, error)
}

type viewMsg struct {
	view *switcher.View
	err  error
}

type focusedMsg struct {
	entry *switcher.Entry
	err   error
}

type savedMsg struct{ err error }

// model is the root bubbletea model for the switcher.
type model struct {
	src  Source
	opts Options

	view   *switcher.View
	cursor int
	sign   int // -1 after '-' was pressed
	chosen *switcher.Entry

	settings *settingsForm
	status   string
	err      error

	keys keyMap
	help help.Model

	width  int
	height int
}

func newModel(opts Options) model {
	return model{
		src:  opts.Source,
		opts: opts,
		sign: 1,
		keys: defaultKeys(),
		help: help.New(),
	}
}

func (m model) load() tea.Cmd {
	return func() tea.Msg {
		v, err := m.src.List()
		return viewMsg{view: v, err: err}
	}
}

func (m model) focus(id string) tea.Cmd {
	return func() tea.Msg {
		e, err := m.src.Focus(id)
		return focusedMsg{entry: e, err: err}
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.load()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case viewMsg:
		m.err = msg.err
		if msg.err == nil {
			m.setView(msg.view)
		}
		return m, nil
	case focusedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.chosen = msg.entry
		return m, tea.Quit
	case savedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "settings saved"
			return m, m.load()
		}
		return m, nil
	}

	if m.settings != nil {
		return m.updateSettings(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(km, m.keys.Next):
		m.move(1)
	case key.Matches(km, m.keys.Prev):
		m.move(-1)
	case key.Matches(km, m.keys.Negate):
		m.sign = -m.sign
		return m, nil
	case key.Matches(km, m.keys.Focus):
		if m.view != nil && m.cursor < m.view.Len() {
			return m, m.focus(m.view.Entries[m.cursor].ID())
		}
	case key.Matches(km, m.keys.Refresh):
		m.status = ""
		return m, m.load()
	case key.Matches(km, m.keys.Settings):
		if m.opts.Config == nil {
			m.status = "no config loaded"
			return m, nil
		}
		m.settings = newSettingsForm(m.opts.Config, m.width)
		return m, m.settings.Init()
	default:
		if d, ok := digit(km); ok {
			m.jump(d * m.sign)
		}
	}
	m.sign = 1
	return m, nil
}

func (m model) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		m.settings = nil
		return m, nil
	}
	cmd := m.settings.Update(msg)
	switch {
	case m.settings.Aborted():
		m.settings = nil
		return m, nil
	case m.settings.Done():
		cfg, err := m.settings.apply(m.opts.Config)
		m.settings = nil
		if err != nil {
			m.err = err
			return m, nil
		}
		m.opts.Config = cfg
		return m, m.save(cfg)
	}
	return m, cmd
}

func (m model) save(cfg *config.Config) tea.Cmd {
	path := m.opts.ConfigPath
	onSaved := m.opts.OnSaved
	return func() tea.Msg {
		if err := cfg.SaveTo(path); err != nil {
			return savedMsg{err: err}
		}
		if onSaved != nil {
			return savedMsg{err: onSaved()}
		}
		return savedMsg{}
	}
}

func (m *model) setView(v *switcher.View) {
	first := m.view == nil
	m.view = v
	if first || m.cursor >= v.Len() {
		m.cursor = 0
		if v.Selected >= 0 {
			m.cursor = v.Selected
		}
	}
}

func (m *model) move(step int) {
	if m.view == nil || m.view.Len() == 0 {
		return
	}
	n := m.view.Len()
	m.cursor = ((m.cursor+step)%n + n) % n
}

func (m *model) jump(label int) {
	if m.view == nil {
		return
	}
	if e, ok := m.view.ByLabel(label); ok {
		m.cursor = e.Index
		m.status = ""
		return
	}
	m.status = fmt.Sprintf("no entry labelled %d", label)
}

func digit(km tea.KeyMsg) (int, bool) {
	if km.Type != tea.KeyRunes || len(km.Runes) != 1 {
		return 0, false
	}
	r := km.Runes[0]
	if r < '0' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// View implements tea.Model.
func (m model) View() string {
	if m.settings != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render("hyprcycle settings"),
			m.settings.View(),
		)
	}

	var b strings.Builder
	header := "hyprcycle"
	if m.view != nil {
		header = fmt.Sprintf("hyprcycle  %s  %d entries", m.view.Mode, m.view.Len())
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if m.view != nil {
		if m.view.Len() == 0 {
			b.WriteString(dimStyle.Render("\nno windows"))
		}
		for _, g := range m.view.Groups {
			b.WriteString(groupStyle.Render(g.Title))
			b.WriteString("\n")
			for _, e := range m.view.Entries[g.Start:g.End] {
				b.WriteString(m.renderEntry(e))
				b.WriteString("\n")
			}
		}
	}

	if m.sign < 0 {
		b.WriteString(dimStyle.Render("\njump back: press a digit"))
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()))
	} else if m.status != "" {
		b.WriteString("\n" + dimStyle.Render(m.status))
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m model) renderEntry(e switcher.Entry) string {
	mark := " "
	if e.Selected {
		mark = activeMark
	}
	text := e.Title()
	if e.Window != nil {
		text = fmt.Sprintf("%s %s", e.Window.Class, dimStyle.Render(e.Window.Title))
	}
	line := fmt.Sprintf("%s %s %s", mark, renderLabel(e.Label), text)
	if e.Index == m.cursor {
		return cursorStyle.Render(line)
	}
	return line
}
