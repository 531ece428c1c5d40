package htmlcore

import "sort"

// LineTracker answers (line, column) for a byte offset into a source
// string in O(log n), via a sorted table of line-start offsets. Lines
// and columns are both 1-based, matching the convention used
// throughout the rest of this package.
type LineTracker struct {
	lineStarts []int
}

// NewLineTracker precomputes the line-start table for source. This is
// the only pass over source the tracker makes; every subsequent
// Locate call is a binary search.
func NewLineTracker(source string) *LineTracker {
	starts := make([]int, 1, 64)
	starts[0] = 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineTracker{lineStarts: starts}
}

// Locate returns the 1-based (line, column) of offset within the
// source this tracker was built from. Offsets past the end of the
// source are reported on the last line, with the column counted from
// that line's start; negative offsets are treated as 0.
func (lt *LineTracker) Locate(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	// Find the last line start <= offset.
	idx := sort.Search(len(lt.lineStarts), func(i int) bool {
		return lt.lineStarts[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx + 1, offset - lt.lineStarts[idx] + 1
}
