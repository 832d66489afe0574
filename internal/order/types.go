package order

// Rect represents a rectangle with position and dimensions.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Bottom returns the y coordinate just past the rectangle's lower edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Right returns the x coordinate just past the rectangle's right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Point is a translation in the virtual coordinate space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Item is anything the engine can place: it has geometry, belongs to a
// monitor and a workspace, and can be copied to a new position.
type Item[T any] interface {
	Bounds() Rect
	MonitorID() int
	WorkspaceID() int
	Moved(x, y int) T
}

// Window is a client window as reported by the compositor.
type Window struct {
	ID string `json:"id"`
	Rect
	Workspace int  `json:"workspace"`
	Monitor   int  `json:"monitor"`
	Enabled   bool `json:"enabled"`

	Class        string `json:"class,omitempty"`
	Title        string `json:"title,omitempty"`
	PID          int    `json:"pid,omitempty"`
	Floating     bool   `json:"floating,omitempty"`
	FocusHistory int    `json:"focus_history"` // 0 is the focused window, -1 unknown
}

func (w Window) Bounds() Rect     { return w.Rect }
func (w Window) MonitorID() int   { return w.Monitor }
func (w Window) WorkspaceID() int { return w.Workspace }

// Moved returns a copy of w positioned at (x, y).
func (w Window) Moved(x, y int) Window {
	w.X = x
	w.Y = y
	return w
}

// WorkspaceFrame is a workspace's placement in the virtual coordinate space.
// Its size is inherited from the owning monitor.
type WorkspaceFrame struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
	Rect
	Monitor int `json:"monitor"`
}

func (f WorkspaceFrame) Bounds() Rect     { return f.Rect }
func (f WorkspaceFrame) MonitorID() int   { return f.Monitor }
func (f WorkspaceFrame) WorkspaceID() int { return f.ID }

// Moved returns a copy of f positioned at (x, y).
func (f WorkspaceFrame) Moved(x, y int) WorkspaceFrame {
	f.X = x
	f.Y = y
	return f
}

// MonitorFrame is a monitor's placement in the global layout.
type MonitorFrame struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
	Rect
}

// OffsetsFromMonitors builds a monitor offset lookup.
func OffsetsFromMonitors(monitors []MonitorFrame) map[int]Point {
	out := make(map[int]Point, len(monitors))
	for _, m := range monitors {
		out[m.ID] = Point{X: m.X, Y: m.Y}
	}
	return out
}

// OffsetsFromWorkspaces builds a workspace offset lookup.
func OffsetsFromWorkspaces(workspaces []WorkspaceFrame) map[int]Point {
	out := make(map[int]Point, len(workspaces))
	for _, ws := range workspaces {
		out[ws.ID] = Point{X: ws.X, Y: ws.Y}
	}
	return out
}
