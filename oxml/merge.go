package oxml

import (
	"fmt"
	"slices"

	"github.com/midbel/sheetkit/layout"
)

func (w *Worksheet) Merges() []layout.Range {
	return slices.Clone(w.merges)
}

// Merge registers rg as a merged range. Every cell of the range except
// its top left one is removed.
func (w *Worksheet) Merge(rg layout.Range) error {
	rg = rg.Normalize()
	ix := slices.IndexFunc(w.merges, func(other layout.Range) bool {
		return other.Overlaps(rg)
	})
	if ix >= 0 {
		return fmt.Errorf("%w: %s intersects %s", ErrMergeOverlap, rg, w.merges[ix])
	}
	w.merges = append(w.merges, rg)

	var inner []layout.Position
	for ix, r := range w.rows {
		if ix < rg.Starts.Row || ix > rg.Ends.Row {
			continue
		}
		for col := range r.cells {
			pos := layout.NewPosition(ix, col)
			if rg.Contains(pos) && !pos.Equal(rg.Starts) {
				inner = append(inner, pos)
			}
		}
	}
	for _, pos := range inner {
		w.remove(pos)
	}
	w.refresh()
	return nil
}

// Unmerge removes the merged ranges lying entirely inside rg and returns
// how many were removed.
func (w *Worksheet) Unmerge(rg layout.Range) int {
	return w.RemoveMerges(func(other layout.Range) bool {
		return rg.Inside(other)
	})
}

func (w *Worksheet) RemoveMerges(fn func(layout.Range) bool) int {
	size := len(w.merges)
	w.merges = slices.DeleteFunc(w.merges, fn)
	return size - len(w.merges)
}

// ShiftMerges moves down by one row the start and the end of the merged
// ranges that are at or after the given row. Both ends are moved
// independently so a range spanning row is stretched.
func (w *Worksheet) ShiftMerges(row int) {
	for i := range w.merges {
		if w.merges[i].Starts.Row >= row {
			w.merges[i].Starts.Row++
		}
		if w.merges[i].Ends.Row >= row {
			w.merges[i].Ends.Row++
		}
	}
}
