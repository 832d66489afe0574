package order

import "errors"

// Frames are the monitor and workspace placements of one snapshot.
// Workspace frames are expected to come from LayoutWorkspaces.
type Frames struct {
	Monitors   []MonitorFrame   `json:"monitors"`
	Workspaces []WorkspaceFrame `json:"workspaces"`
}

// Arrangement is the ordered result of one pipeline run. Coordinates in
// Groups and Items are the original compositor coordinates.
type Arrangement[T any] struct {
	Mode   GroupMode   `json:"mode"`
	Groups []Bucket[T] `json:"groups"`
	Items  []T         `json:"items"`

	// Dropped reports items that were left out because a frame was missing.
	Dropped error `json:"-"`
}

// Arrange runs normalize, group and sort, and concatenates the sorted groups.
//
// Per-workspace grouping sorts in monitor-relative coordinates with workspace
// offsets applied, per-monitor grouping overlays a monitor's workspaces in
// monitor-relative coordinates, and rank grouping sorts in global coordinates
// so monitors sit side by side.
//
// The only error returned is ErrUnsupportedCombination. Missing frames are
// reported through Arrangement.Dropped.
func Arrange[T Item[T]](items []T, frames Frames, mode GroupMode) (*Arrangement[T], error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	var workspaces, monitors map[int]Point
	switch {
	case mode.CollapseWorkspaces:
		monitors = OffsetsFromMonitors(frames.Monitors)
	case mode.CollapseMonitors:
	default:
		workspaces = OffsetsFromWorkspaces(frames.Workspaces)
		monitors = OffsetsFromMonitors(frames.Monitors)
	}

	normalized, dropped := Normalize(items, workspaces, monitors)
	buckets, err := Group(normalized, mode)
	if err != nil {
		return nil, err
	}

	arr := &Arrangement[T]{Mode: mode, Dropped: dropped}
	for _, b := range buckets {
		sorted, rerr := Restore(SortGroup(b.Items), workspaces, monitors)
		if rerr != nil {
			arr.Dropped = errors.Join(arr.Dropped, rerr)
		}
		arr.Groups = append(arr.Groups, Bucket[T]{Key: b.Key, Items: sorted})
		arr.Items = append(arr.Items, sorted...)
	}
	return arr, nil
}
