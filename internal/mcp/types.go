package mcp

import "github.com/1broseidon/hyprcycle/internal/switcher"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Class string `json:"class,omitempty" jsonschema:"Only list windows of this class (case-insensitive)"`
	Query string `json:"query,omitempty" jsonschema:"Fuzzy filter on class and title; results are ordered by match quality"`
}

// WindowInfo describes a single cycle entry.
type WindowInfo struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Label     *int   `json:"label,omitempty"`
	Focused   bool   `json:"focused"`
	Group     string `json:"group"`
	Class     string `json:"class,omitempty"`
	Title     string `json:"title"`
	Workspace int    `json:"workspace"`
	Monitor   int    `json:"monitor"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Mode    string       `json:"mode"`
	Sort    string       `json:"sort"`
	Windows []WindowInfo `json:"windows"`
}

// FocusWindowInput is the input for the focus_window tool.
type FocusWindowInput struct {
	ID    string `json:"id,omitempty" jsonschema:"Window id from list_windows"`
	Label *int   `json:"label,omitempty" jsonschema:"Jump label relative to the focused window, e.g. 2 or -1"`
}

// FocusWindowOutput is the output for focus_window and cycle.
type FocusWindowOutput struct {
	Focused WindowInfo `json:"focused"`
}

// CycleInput is the input for the cycle tool.
type CycleInput struct {
	Steps int `json:"steps" jsonschema:"required,Number of steps; negative moves backward"`
}

// ExplainOrderInput is the input for the explain_order tool.
type ExplainOrderInput struct{}

// GroupInfo lists the members of one group in order.
type GroupInfo struct {
	Title   string   `json:"title"`
	Members []string `json:"members"`
}

// ExplainOrderOutput is the output for the explain_order tool.
type ExplainOrderOutput struct {
	Type   string      `json:"type"`
	Mode   string      `json:"mode"`
	Sort   string      `json:"sort"`
	Groups []GroupInfo `json:"groups"`
	// Dropped is set when some windows had no workspace or monitor frame.
	Dropped string `json:"dropped,omitempty"`
}

func windowInfo(v *switcher.View, e switcher.Entry) WindowInfo {
	info := WindowInfo{
		Index:   e.Index,
		ID:      e.ID(),
		Label:   e.Label,
		Focused: e.Selected,
		Title:   e.Title(),
	}
	if g, ok := v.GroupOf(e.Index); ok {
		info.Group = g.Title
	}
	switch {
	case e.Window != nil:
		info.Class = e.Window.Class
		info.Title = e.Window.Title
		info.Workspace = e.Window.Workspace
		info.Monitor = e.Window.Monitor
	case e.Workspace != nil:
		info.Workspace = e.Workspace.ID
		info.Monitor = e.Workspace.Monitor
	}
	return info
}
