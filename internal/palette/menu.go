package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/hyprcycle/internal/switcher"
)

// FormatLabel renders a jump label as a fixed-width column.
func FormatLabel(l *int) string {
	switch {
	case l == nil:
		return "   "
	case *l > 0:
		return fmt.Sprintf("%3s", fmt.Sprintf("+%d", *l))
	default:
		return fmt.Sprintf("%3d", *l)
	}
}

// Line is the menu text for one entry.
func Line(e switcher.Entry) string {
	if e.Window != nil {
		return fmt.Sprintf("%s %s - %s  [%d]", FormatLabel(e.Label), e.Window.Class, e.Window.Title, e.Window.Workspace)
	}
	return FormatLabel(e.Label) + " " + e.Title()
}

// Items converts a view into palette rows with a header per group.
func Items(v *switcher.View) []Item {
	items := make([]Item, 0, len(v.Entries)+len(v.Groups))
	for _, g := range v.Groups {
		if len(v.Groups) > 1 {
			items = append(items, Item{Label: g.Title, IsHeader: true})
		}
		for _, e := range v.Entries[g.Start:g.End] {
			it := Item{Label: Line(e), ID: e.ID(), IsActive: e.Selected}
			if e.Window != nil {
				it.Icon = strings.ToLower(e.Window.Class)
				it.Meta = e.Window.Class + " " + e.Window.Title
			}
			items = append(items, it)
		}
	}
	return items
}

// Pick shows the view and returns the chosen entry.
func Pick(b Backend, v *switcher.View) (*switcher.Entry, error) {
	if v.Len() == 0 {
		return nil, switcher.ErrNoWindows
	}
	it, err := b.Show("switch", Items(v))
	if err != nil {
		return nil, err
	}
	e, ok := v.Lookup(it.ID)
	if !ok {
		return nil, errors.New("palette: selection no longer in view")
	}
	return e, nil
}
