package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

// Options configure a TUI run.
type Options struct {
	Source     Source
	Config     *config.Config // enables the settings form
	ConfigPath string
	OnSaved    func() error // called after settings are written
}

// Run shows the switcher and returns the focused entry, or nil when the user
// quit without choosing.
func Run(opts Options) (*switcher.Entry, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	final, err := tea.NewProgram(newModel(opts), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(model)
	if !ok {
		return nil, nil
	}
	return m.chosen, nil
}
