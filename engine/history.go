package engine

import "github.com/hexirules/hexirules/hex"

// HistoryEntry is one recorded generation: the grid as it was before a
// step, and the log of the step that advanced from it.
type HistoryEntry struct {
	Grid *hex.Grid
	Log  []string
}

// History is a bounded ring of past generations with a navigation cursor.
// Entry i holds the grid before step i+1. A cursor equal to Len() means
// the world is live at its newest grid; smaller values mean the world has
// been rewound to that entry. Appending past the capacity drops the
// oldest entry first. Entries own their grids outright; nothing is shared
// with the live grid.
type History struct {
	entries []HistoryEntry
	cursor  int
	max     int
}

// NewHistory creates a history ring with the given capacity.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{max: max}
}

// Push appends a snapshot of the pre-step grid and the step's log, and
// moves the cursor to the live position.
func (h *History) Push(grid *hex.Grid, log []string) {
	entry := HistoryEntry{Grid: grid.Clone(), Log: log}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	h.cursor = len(h.entries)
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns the current cursor position in 0..Len(). Len() means the
// world is at its newest grid.
func (h *History) Cursor() int {
	return h.cursor
}

// Live reports whether the cursor is at the newest grid.
func (h *History) Live() bool {
	return h.cursor == len(h.entries)
}

// Entry returns the recorded entry at index i.
func (h *History) Entry(i int) (HistoryEntry, bool) {
	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, false
	}
	return h.entries[i], true
}

// Seek moves the cursor to index i and returns a private copy of that
// entry's grid. Seeking to Len() is legal and returns no grid; the caller
// restores its saved live grid instead.
func (h *History) Seek(i int) (*hex.Grid, bool) {
	if i < 0 || i > len(h.entries) {
		return nil, false
	}
	h.cursor = i
	if i == len(h.entries) {
		return nil, true
	}
	return h.entries[i].Grid.Clone(), true
}
