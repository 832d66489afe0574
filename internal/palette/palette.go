package palette

import (
	"fmt"
	"os/exec"
	"strings"
)

// Item is a single row in a palette menu.
type Item struct {
	Label    string // Display text
	ID       string // Entry id returned on selection
	Icon     string // Icon name for rofi -show-icons
	Meta     string // Hidden search keywords (rofi meta field)
	IsHeader bool   // Non-selectable group header
	IsActive bool   // Highlighted as the current entry
}

// Capabilities describes what features a backend supports.
type Capabilities struct {
	Icons         bool // Supports icon display
	Markup        bool // Supports pango markup in labels
	NonSelectable bool // Supports non-selectable rows (headers)
	IndexOutput   bool // Can output selection index (not just text)
	RowStates     bool // Supports active row highlighting
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	Name() string
	Show(prompt string, items []Item) (Item, error)
	Capabilities() Capabilities
}

// Options tune a backend.
type Options struct {
	FuzzyMatching bool
}

// NewBackend creates a backend by name.
//
// Supported names: auto, rofi, fuzzel, wofi, dmenu.
func NewBackend(name string, opts Options) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	var b *runner
	switch name {
	case "rofi":
		b = newRofi()
	case "fuzzel":
		b = newFuzzel()
	case "wofi":
		b = newWofi()
	case "dmenu":
		b = newDmenu()
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, rofi, fuzzel, wofi, dmenu)", name)
	}
	if _, err := exec.LookPath(b.command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", b.command)
	}
	b.fuzzy = opts.FuzzyMatching
	return b, nil
}
