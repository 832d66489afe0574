package order

import "sort"

// SortGroup orders the items of one group in reading order: left to right
// within a row, rows top to bottom.
//
// Items are seeded in (x, y) order. The first queued item starts a row whose
// bottom edge is the item's bottom. The queue is then scanned for the first
// item that starts above that edge. If another queued item lies to its left
// and still reaches into it vertically, that one is taken instead. The taken
// item's bottom becomes the new row edge and the scan restarts. A scan that
// finds nothing closes the row.
//
// The result always holds exactly the input items.
func SortGroup[T Item[T]](items []T) []T {
	queue := make([]T, len(items))
	copy(queue, items)
	sort.SliceStable(queue, func(i, j int) bool {
		a, b := queue[i].Bounds(), queue[j].Bounds()
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})

	out := make([]T, 0, len(queue))
	for len(queue) > 0 {
		start := queue[0]
		queue = queue[1:]
		out = append(out, start)
		rowBottom := start.Bounds().Bottom()

		for {
			next := nextInRow(queue, rowBottom)
			if next < 0 {
				break
			}
			rowBottom = queue[next].Bounds().Bottom()
			out = append(out, queue[next])
			queue = append(queue[:next], queue[next+1:]...)
		}
	}
	return out
}

// nextInRow returns the queue index of the item that continues the current
// row, or -1 when the row is complete.
func nextInRow[T Item[T]](queue []T, rowBottom int) int {
	for i, it := range queue {
		cand := it.Bounds()
		if cand.Y >= rowBottom {
			continue
		}
		if j := leftNeighbor(queue, cand); j >= 0 {
			return j
		}
		return i
	}
	return -1
}

// leftNeighbor finds a queued item strictly left of cand whose top is above
// cand's bottom, falling back to one whose bottom is above cand's bottom.
func leftNeighbor[T Item[T]](queue []T, cand Rect) int {
	for j, it := range queue {
		b := it.Bounds()
		if b.X < cand.X && b.Y < cand.Bottom() {
			return j
		}
	}
	for j, it := range queue {
		b := it.Bounds()
		if b.X < cand.X && b.Bottom() < cand.Bottom() {
			return j
		}
	}
	return -1
}

// SortRecent orders items by focus history, most recently focused first.
// Items with unknown history (negative) keep their relative order at the end.
func SortRecent(items []Window) []Window {
	out := make([]Window, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].FocusHistory, out[j].FocusHistory
		if (a < 0) != (b < 0) {
			return b < 0
		}
		return a < b
	})
	return out
}
