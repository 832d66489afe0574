package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

type backendKind int

const (
	kindRofi backendKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// execFunc runs a menu program with stdin and returns its stdout.
type execFunc func(name string, args []string, stdin string) (string, error)

// runner drives any dmenu-compatible program.
type runner struct {
	command string
	kind    backendKind
	caps    Capabilities
	fuzzy   bool
	exec    execFunc
}

func newRofi() *runner {
	return &runner{
		command: "rofi",
		kind:    kindRofi,
		caps:    Capabilities{Icons: true, Markup: true, NonSelectable: true, IndexOutput: true, RowStates: true},
		exec:    runCommand,
	}
}

func newFuzzel() *runner {
	return &runner{
		command: "fuzzel",
		kind:    kindFuzzel,
		caps:    Capabilities{Icons: true, IndexOutput: true},
		exec:    runCommand,
	}
}

func newWofi() *runner {
	return &runner{
		command: "wofi",
		kind:    kindWofi,
		caps:    Capabilities{Icons: true, Markup: true},
		exec:    runCommand,
	}
}

func newDmenu() *runner {
	return &runner{command: "dmenu", kind: kindDmenu, exec: runCommand}
}

func (b *runner) Name() string               { return b.command }
func (b *runner) Capabilities() Capabilities { return b.caps }

func (b *runner) Show(prompt string, items []Item) (Item, error) {
	rows := b.rows(items)
	if len(rows) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}

	input, selected := b.formatInput(rows)
	out, err := b.exec(b.command, b.buildArgs(prompt, selected), input)
	selection := strings.TrimSpace(out)
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		return Item{}, err
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}
	return b.parseSelection(selection, rows)
}

// rows drops headers on backends that cannot render them as non-selectable
// and disambiguates duplicate labels for backends that echo text back.
func (b *runner) rows(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.IsHeader && !b.caps.NonSelectable {
			continue
		}
		out = append(out, it)
	}
	if b.caps.IndexOutput {
		return out
	}
	seen := make(map[string]int)
	for i := range out {
		key := sanitizeLabel(out[i].Label)
		if count := seen[key]; count > 0 {
			out[i].Label = fmt.Sprintf("%s (%d)", key, count+1)
		}
		seen[key]++
	}
	return out
}

func (b *runner) buildArgs(prompt string, selected int) []string {
	var args []string
	switch b.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		if b.fuzzy {
			args = append(args, "-matching", "fuzzy")
		}
		if selected >= 0 {
			s := strconv.Itoa(selected)
			args = append(args, "-a", s, "-selected-row", s)
		}
	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindWofi:
		args = []string{"--dmenu", "--allow-markup", "--allow-images"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}
	return args
}

// formatInput renders one line per row and returns the row to preselect:
// the active row, else the first selectable one, else -1.
func (b *runner) formatInput(rows []Item) (string, int) {
	lines := make([]string, len(rows))
	first, active := -1, -1
	for i, it := range rows {
		lines[i] = b.formatItem(it)
		if it.IsHeader {
			continue
		}
		if first < 0 {
			first = i
		}
		if it.IsActive && active < 0 {
			active = i
		}
	}
	if active >= 0 {
		return strings.Join(lines, "\n"), active
	}
	return strings.Join(lines, "\n"), first
}

func (b *runner) formatItem(it Item) string {
	display := sanitizeLabel(it.Label)
	if b.caps.Markup {
		display = html.EscapeString(display)
		if it.IsHeader {
			display = "<b>" + display + "</b>"
		}
	}
	if b.kind != kindRofi {
		return display
	}

	// Rofi row properties: one NUL, then key/value pairs separated by \x1f.
	var attrs []string
	if it.IsHeader {
		attrs = append(attrs, "nonselectable", "true")
	}
	if it.Icon != "" {
		attrs = append(attrs, "icon", sanitizeRofiField(it.Icon))
	}
	if it.Meta != "" {
		attrs = append(attrs, "meta", sanitizeRofiField(it.Meta))
	}
	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (b *runner) parseSelection(selection string, rows []Item) (Item, error) {
	if b.caps.IndexOutput {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(rows) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			if rows[idx].IsHeader {
				return Item{}, ErrCancelled
			}
			return rows[idx], nil
		}
	}
	for _, it := range rows {
		if !it.IsHeader && sanitizeLabel(it.Label) == selection {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func runCommand(name string, args []string, stdin string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil && !isCancelExit(err) {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return string(out), fmt.Errorf("%s failed: %s", name, msg)
		}
		return string(out), fmt.Errorf("%s failed: %w", name, err)
	}
	return string(out), err
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	value = strings.NewReplacer("\x00", " ", "\x1f", " ", "\r", " ", "\n", " ").Replace(value)
	return strings.TrimSpace(value)
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// Menus use 1 for "no selection" and 130 for Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
