package order

import (
	"errors"
	"fmt"
	"sort"
)

// FrameError reports an item whose workspace or monitor has no frame.
type FrameError struct {
	Kind string // "workspace" or "monitor"
	Key  int
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("no %s frame with id %d", e.Kind, e.Key)
}

// Normalize moves every item to x + wx - mx, y + wy - my, where (wx, wy) is
// the item's workspace offset and (mx, my) its monitor offset. A nil lookup
// contributes a zero offset.
//
// Items whose key is missing from a non-nil lookup are left out of the result
// and reported in the returned error. The error never aborts the batch.
func Normalize[T Item[T]](items []T, workspaces, monitors map[int]Point) ([]T, error) {
	return translate(items, workspaces, monitors, 1)
}

// Restore undoes Normalize with the same lookups.
func Restore[T Item[T]](items []T, workspaces, monitors map[int]Point) ([]T, error) {
	return translate(items, workspaces, monitors, -1)
}

func translate[T Item[T]](items []T, workspaces, monitors map[int]Point, sign int) ([]T, error) {
	out := make([]T, 0, len(items))
	var errs []error
	for _, item := range items {
		ws, ok := lookup(workspaces, item.WorkspaceID())
		if !ok {
			errs = append(errs, &FrameError{Kind: "workspace", Key: item.WorkspaceID()})
			continue
		}
		mon, ok := lookup(monitors, item.MonitorID())
		if !ok {
			errs = append(errs, &FrameError{Kind: "monitor", Key: item.MonitorID()})
			continue
		}
		b := item.Bounds()
		out = append(out, item.Moved(
			b.X+sign*(ws.X-mon.X),
			b.Y+sign*(ws.Y-mon.Y),
		))
	}
	return out, errors.Join(errs...)
}

func lookup(offsets map[int]Point, key int) (Point, bool) {
	if offsets == nil {
		return Point{}, true
	}
	p, ok := offsets[key]
	return p, ok
}

// LayoutWorkspaces places each workspace inside its monitor's strip of the
// virtual space. Workspaces on a monitor are ordered by id and laid out side
// by side, or stacked when vertical is set. Offsets are relative to the
// monitor origin and sizes are taken from the monitor.
//
// Workspaces that reference an unknown monitor are omitted.
func LayoutWorkspaces(monitors []MonitorFrame, workspaces []WorkspaceFrame, vertical bool) []WorkspaceFrame {
	byMonitor := make(map[int]MonitorFrame, len(monitors))
	for _, m := range monitors {
		byMonitor[m.ID] = m
	}

	sorted := make([]WorkspaceFrame, len(workspaces))
	copy(sorted, workspaces)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Monitor != sorted[j].Monitor {
			return sorted[i].Monitor < sorted[j].Monitor
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := make([]WorkspaceFrame, 0, len(sorted))
	slot := make(map[int]int)
	for _, ws := range sorted {
		mon, ok := byMonitor[ws.Monitor]
		if !ok {
			continue
		}
		k := slot[ws.Monitor]
		slot[ws.Monitor] = k + 1

		ws.Width = mon.Width
		ws.Height = mon.Height
		if vertical {
			ws.X, ws.Y = 0, k*mon.Height
		} else {
			ws.X, ws.Y = k*mon.Width, 0
		}
		out = append(out, ws)
	}
	return out
}
