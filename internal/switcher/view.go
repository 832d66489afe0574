package switcher

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/order"
	"github.com/1broseidon/hyprcycle/internal/platform"
)

// ErrNoWindows is returned when there is nothing to cycle through.
var ErrNoWindows = errors.New("no windows to switch to")

// Entry is one position of the cycle.
type Entry struct {
	Index     int                   `json:"index"`
	Label     *int                  `json:"label"` // nil when out of jump range
	Selected  bool                  `json:"selected"`
	Group     order.GroupKey        `json:"group"`
	Window    *order.Window         `json:"window,omitempty"`
	Workspace *order.WorkspaceFrame `json:"workspace,omitempty"`
}

// ID is the window address, or the workspace id in workspace mode.
func (e Entry) ID() string {
	if e.Window != nil {
		return e.Window.ID
	}
	if e.Workspace != nil {
		return strconv.Itoa(e.Workspace.ID)
	}
	return ""
}

// Title is a one-line description for menus.
func (e Entry) Title() string {
	switch {
	case e.Window != nil:
		return e.Window.Class + " - " + e.Window.Title
	case e.Workspace != nil && e.Workspace.Name != "":
		return "workspace " + e.Workspace.Name
	case e.Workspace != nil:
		return fmt.Sprintf("workspace %d", e.Workspace.ID)
	}
	return ""
}

// Group is a contiguous run of entries sharing a group key.
type Group struct {
	Key   order.GroupKey `json:"key"`
	Title string         `json:"title"`
	Start int            `json:"start"`
	End   int            `json:"end"` // exclusive
}

// View is the ordered switcher state for one snapshot.
type View struct {
	Type     config.SwitchType `json:"type"`
	Sort     config.SortMode   `json:"sort"`
	Mode     string            `json:"mode"`
	Entries  []Entry           `json:"entries"`
	Groups   []Group           `json:"groups"`
	Selected int               `json:"selected"` // -1 when nothing is active
	Active   platform.Active   `json:"active"`
	TakenAt  time.Time         `json:"taken_at"`

	// Dropped reports items left out because a frame was missing.
	Dropped error `json:"-"`
}

// Build filters, arranges and labels a snapshot.
func Build(snap *platform.Snapshot, cfg *config.Config) (*View, error) {
	if snap == nil {
		return nil, errors.New("no snapshot")
	}
	mode := cfg.Switcher.GroupMode()
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	frames := order.Frames{
		Monitors:   snap.Monitors,
		Workspaces: order.LayoutWorkspaces(snap.Monitors, snap.Workspaces, cfg.Switcher.VerticalWorkspaces),
	}
	titles := newTitler(snap)

	v := &View{
		Type:     cfg.Switcher.SwitchType,
		Sort:     cfg.Switcher.Sort,
		Selected: -1,
		Active:   snap.Active,
		TakenAt:  snap.TakenAt,
	}

	switch cfg.Switcher.SwitchType {
	case config.SwitchWorkspace:
		// One group per workspace would leave every group with one member.
		if mode == (order.GroupMode{}) {
			mode.CollapseWorkspaces = true
		}
		shown := filterWorkspaces(globalFrames(frames), snap.Active, cfg.Filter)
		arr, err := order.Arrange(shown, frames, mode)
		if err != nil {
			return nil, err
		}
		v.Dropped = arr.Dropped
		for _, b := range arr.Groups {
			v.addGroup(b.Key, titles.group(b.Key, mode))
			for i := range b.Items {
				ws := b.Items[i]
				v.add(Entry{Group: b.Key, Workspace: &ws}, ws.ID == snap.Active.Workspace)
			}
		}

	default:
		windows := Filter(snap.Windows, snap.Active, cfg)
		if cfg.Switcher.Sort == config.SortRecent {
			v.addGroup(order.GroupKey{}, "recent")
			for _, w := range order.SortRecent(windows) {
				if w.Enabled {
					w := w
					v.add(Entry{Window: &w}, w.ID == snap.Active.Window)
				}
			}
			break
		}
		arr, err := order.Arrange(windows, frames, mode)
		if err != nil {
			return nil, err
		}
		v.Dropped = arr.Dropped
		for _, b := range arr.Groups {
			v.addGroup(b.Key, titles.group(b.Key, mode))
			for _, w := range b.Items {
				if w.Enabled {
					w := w
					v.add(Entry{Group: b.Key, Window: &w}, w.ID == snap.Active.Window)
				}
			}
		}
	}
	v.Mode = mode.String()
	v.closeGroups()

	labels := order.Labels(len(v.Entries), v.Selected, cfg.Labels.Options())
	for i := range v.Entries {
		v.Entries[i].Label = labels[i]
	}
	return v, nil
}

func (v *View) add(e Entry, active bool) {
	e.Index = len(v.Entries)
	if active && v.Selected < 0 {
		e.Selected = true
		v.Selected = e.Index
	}
	v.Entries = append(v.Entries, e)
}

func (v *View) addGroup(key order.GroupKey, title string) {
	if n := len(v.Groups); n > 0 {
		v.Groups[n-1].End = len(v.Entries)
	}
	v.Groups = append(v.Groups, Group{Key: key, Title: title, Start: len(v.Entries)})
}

// closeGroups terminates the last group and removes groups left empty by
// filtering.
func (v *View) closeGroups() {
	if n := len(v.Groups); n > 0 {
		v.Groups[n-1].End = len(v.Entries)
	}
	kept := v.Groups[:0]
	for _, g := range v.Groups {
		if g.End > g.Start {
			kept = append(kept, g)
		}
	}
	v.Groups = kept
}

// Len returns the number of entries in the cycle.
func (v *View) Len() int { return len(v.Entries) }

// Current returns the active entry, or nil.
func (v *View) Current() *Entry {
	if v.Selected < 0 || v.Selected >= len(v.Entries) {
		return nil
	}
	return &v.Entries[v.Selected]
}

// Target resolves a relative move. With no active entry a positive step
// counts from just before the first entry and a negative one from just past
// the last, so +1 is the first entry and -1 the last.
func (v *View) Target(step int) (*Entry, error) {
	n := len(v.Entries)
	if n == 0 {
		return nil, ErrNoWindows
	}
	var idx int
	switch {
	case v.Selected >= 0:
		idx = v.Selected + step
	case step > 0:
		idx = step - 1
	case step < 0:
		idx = n + step
	default:
		return nil, errors.New("nothing is selected")
	}
	idx = ((idx % n) + n) % n
	return &v.Entries[idx], nil
}

// Lookup returns the entry with the given id.
func (v *View) Lookup(id string) (*Entry, bool) {
	for i := range v.Entries {
		if v.Entries[i].ID() == id {
			return &v.Entries[i], true
		}
	}
	return nil, false
}

// ByLabel returns the entry carrying jump label k.
func (v *View) ByLabel(k int) (*Entry, bool) {
	for i := range v.Entries {
		if l := v.Entries[i].Label; l != nil && *l == k {
			return &v.Entries[i], true
		}
	}
	return nil, false
}

// GroupOf returns the group containing entry index i.
func (v *View) GroupOf(i int) (Group, bool) {
	for _, g := range v.Groups {
		if i >= g.Start && i < g.End {
			return g, true
		}
	}
	return Group{}, false
}

// globalFrames moves laid-out workspace frames from monitor-relative to
// global coordinates.
func globalFrames(frames order.Frames) []order.WorkspaceFrame {
	origin := order.OffsetsFromMonitors(frames.Monitors)
	out := make([]order.WorkspaceFrame, len(frames.Workspaces))
	for i, ws := range frames.Workspaces {
		p := origin[ws.Monitor]
		out[i] = ws.Moved(ws.X+p.X, ws.Y+p.Y)
	}
	return out
}

type titler struct {
	monitors   map[int]string
	workspaces map[int]string
}

func newTitler(snap *platform.Snapshot) titler {
	t := titler{monitors: map[int]string{}, workspaces: map[int]string{}}
	for _, m := range snap.Monitors {
		t.monitors[m.ID] = m.Name
	}
	for _, ws := range snap.Workspaces {
		t.workspaces[ws.ID] = ws.Name
	}
	return t
}

func (t titler) monitor(id int) string {
	if name := t.monitors[id]; name != "" {
		return name
	}
	return fmt.Sprintf("monitor %d", id)
}

func (t titler) workspace(id int) string {
	if name := t.workspaces[id]; name != "" && name != strconv.Itoa(id) {
		return name
	}
	return fmt.Sprintf("workspace %d", id)
}

func (t titler) group(key order.GroupKey, mode order.GroupMode) string {
	switch {
	case mode.CollapseWorkspaces:
		return t.monitor(key.Monitor)
	case mode.CollapseMonitors:
		return t.workspace(key.Workspace)
	default:
		return t.monitor(key.Monitor) + " / " + t.workspace(key.Workspace)
	}
}
