package order

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnsupportedCombination is returned when both grouping axes are collapsed.
var ErrUnsupportedCombination = errors.New("cannot collapse workspaces and monitors at the same time")

// GroupMode selects how items are partitioned before sorting.
type GroupMode struct {
	CollapseWorkspaces bool `json:"collapse_workspaces"`
	CollapseMonitors   bool `json:"collapse_monitors"`
}

// Validate reports whether the mode can be used for grouping.
func (m GroupMode) Validate() error {
	if m.CollapseWorkspaces && m.CollapseMonitors {
		return ErrUnsupportedCombination
	}
	return nil
}

func (m GroupMode) String() string {
	switch {
	case m.CollapseWorkspaces && m.CollapseMonitors:
		return "invalid"
	case m.CollapseWorkspaces:
		return "per-monitor"
	case m.CollapseMonitors:
		return "per-workspace-rank"
	default:
		return "per-workspace"
	}
}

// GroupKey identifies a group. Monitor is unused when monitors are collapsed
// and Workspace is unused when workspaces are collapsed. With monitors
// collapsed, Round is the pairing round and Workspace the id that names it.
type GroupKey struct {
	Monitor   int `json:"monitor"`
	Round     int `json:"round"`
	Workspace int `json:"workspace"`
}

func (k GroupKey) less(o GroupKey) bool {
	if k.Monitor != o.Monitor {
		return k.Monitor < o.Monitor
	}
	if k.Round != o.Round {
		return k.Round < o.Round
	}
	return k.Workspace < o.Workspace
}

func (k GroupKey) String() string {
	if k.Round > 0 {
		return fmt.Sprintf("%d:%d#%d", k.Monitor, k.Workspace, k.Round)
	}
	return fmt.Sprintf("%d:%d", k.Monitor, k.Workspace)
}

// Bucket is one group of items sharing a key.
type Bucket[T any] struct {
	Key   GroupKey `json:"key"`
	Items []T      `json:"items"`
}

// Group partitions items by mode. Buckets are returned in ascending key order
// and items keep their input order inside a bucket.
func Group[T Item[T]](items []T, mode GroupMode) ([]Bucket[T], error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	var keyOf func(T) GroupKey
	switch {
	case mode.CollapseWorkspaces:
		keyOf = func(it T) GroupKey { return GroupKey{Monitor: it.MonitorID()} }
	case mode.CollapseMonitors:
		ranks := rankWorkspaces(items)
		keyOf = func(it T) GroupKey {
			return ranks[[2]int{it.MonitorID(), it.WorkspaceID()}]
		}
	default:
		keyOf = func(it T) GroupKey { return GroupKey{Monitor: it.MonitorID(), Workspace: it.WorkspaceID()} }
	}

	index := make(map[GroupKey]int)
	var buckets []Bucket[T]
	for _, it := range items {
		key := keyOf(it)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket[T]{Key: key})
		}
		buckets[i].Items = append(buckets[i].Items, it)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Key.less(buckets[j].Key)
	})
	return buckets, nil
}

// rankWorkspaces pairs workspaces across monitors by rank and maps every
// (monitor, workspace) pair to the key of its merged group.
//
// Each monitor's distinct workspace ids are sorted descending and consumed
// from the end, one per monitor per round. Monitors are visited in ascending
// id order and the first id popped in a round names the round's group. Rounds
// never merge, even when monitors reuse workspace ids.
func rankWorkspaces[T Item[T]](items []T) map[[2]int]GroupKey {
	stacks := make(map[int][]int)
	seen := make(map[[2]int]bool)
	for _, it := range items {
		k := [2]int{it.MonitorID(), it.WorkspaceID()}
		if seen[k] {
			continue
		}
		seen[k] = true
		stacks[it.MonitorID()] = append(stacks[it.MonitorID()], it.WorkspaceID())
	}

	monitors := make([]int, 0, len(stacks))
	for id, ws := range stacks {
		sort.Sort(sort.Reverse(sort.IntSlice(ws)))
		monitors = append(monitors, id)
	}
	sort.Ints(monitors)

	ranks := make(map[[2]int]GroupKey)
	for round := 0; ; round++ {
		rep, popped := 0, false
		for _, mon := range monitors {
			ws := stacks[mon]
			if len(ws) == 0 {
				continue
			}
			id := ws[len(ws)-1]
			stacks[mon] = ws[:len(ws)-1]
			if !popped {
				rep, popped = id, true
			}
			ranks[[2]int{mon, id}] = GroupKey{Round: round, Workspace: rep}
		}
		if !popped {
			return ranks
		}
	}
}
