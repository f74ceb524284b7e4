package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/hexirules/hexirules/expander"
	"github.com/hexirules/hexirules/hex"
	"github.com/hexirules/hexirules/parser"
)

// DefaultHistorySize bounds the history ring when no capacity is given.
const DefaultHistorySize = 256

// Errors surfaced by world operations.
var (
	ErrOutOfBounds  = errors.New("coordinate out of bounds")
	ErrBadIndex     = errors.New("no such history entry")
	ErrNoStates     = errors.New("randomize needs at least one state")
	ErrBadChance    = errors.New("randomize probability must be in [0,1]")
	ErrEmptyDirless = errors.New("empty cells cannot carry a direction")
)

// World is the façade the embedding drives: it owns the grid, the
// compiled rule set, the source text, the history ring, the step log and
// the RNG. A world is single-threaded; embeddings serialize access.
type World struct {
	grid      *hex.Grid
	abstract  []*parser.Rule
	rules     []*expander.Rule
	rulesText string

	history *History
	latest  *hex.Grid // saved live grid while the cursor is rewound

	rng        *rand.Rand
	seed       int64
	generation int
	lastLog    []string
}

// NewWorld creates an empty world of the given radius with the default
// history capacity. The RNG is seeded so that runs are reproducible.
func NewWorld(radius int, seed int64) *World {
	return NewWorldWithHistory(radius, seed, DefaultHistorySize)
}

// NewWorldWithHistory creates a world with an explicit history capacity.
func NewWorldWithHistory(radius int, seed int64, historySize int) *World {
	return &World{
		grid:    hex.NewGrid(radius),
		history: NewHistory(historySize),
		rng:     rand.New(rand.NewSource(seed)),
		seed:    seed,
	}
}

// Radius returns the grid radius.
func (w *World) Radius() int {
	return w.grid.Radius()
}

// Seed returns the RNG seed the world was created or last reseeded with.
func (w *World) Seed() int64 {
	return w.seed
}

// Reseed resets the RNG to a fresh stream for the given seed.
func (w *World) Reseed(seed int64) {
	w.seed = seed
	w.rng = rand.New(rand.NewSource(seed))
}

// Generation returns the number of successful steps taken.
func (w *World) Generation() int {
	return w.generation
}

// ActiveCount returns the number of non-empty cells.
func (w *World) ActiveCount() int {
	return w.grid.ActiveCount()
}

// Grid returns the live grid for read-only iteration. Callers must not
// mutate it directly; snapshots are deep copies.
func (w *World) Grid() *hex.Grid {
	return w.grid
}

// GetCell returns the cell at (q, r). Out-of-bounds reads are rejected.
func (w *World) GetCell(q, r int) (hex.Cell, error) {
	c := hex.Coord{Q: q, R: r}
	if !hex.InBounds(c, w.grid.Radius()) {
		return hex.Cell{}, fmt.Errorf("%w: %s outside radius %d", ErrOutOfBounds, c, w.grid.Radius())
	}
	return w.grid.Get(c), nil
}

// SetCell writes a cell at (q, r). Dir 0 means no direction. Writing the
// empty state clears the cell; an empty state with a direction is
// rejected.
func (w *World) SetCell(q, r int, state string, dir int) error {
	c := hex.Coord{Q: q, R: r}
	if !hex.InBounds(c, w.grid.Radius()) {
		return fmt.Errorf("%w: %s outside radius %d", ErrOutOfBounds, c, w.grid.Radius())
	}
	if dir != 0 && !hex.ValidDirection(dir) {
		return fmt.Errorf("invalid direction %d", dir)
	}
	if !hex.ValidState(state) {
		return fmt.Errorf("invalid state %q", state)
	}
	if state == hex.EmptyState && dir != 0 {
		return ErrEmptyDirless
	}
	return w.grid.Set(c, hex.Cell{State: state, Dir: dir})
}

// ClearCell empties the cell at (q, r).
func (w *World) ClearCell(q, r int) error {
	c := hex.Coord{Q: q, R: r}
	if !hex.InBounds(c, w.grid.Radius()) {
		return fmt.Errorf("%w: %s outside radius %d", ErrOutOfBounds, c, w.grid.Radius())
	}
	w.grid.Clear(c)
	return nil
}

// ClearAll empties every cell.
func (w *World) ClearAll() {
	w.grid.ClearAll()
}

// Randomize writes each in-bounds coordinate independently with
// probability p, choosing a state uniformly from the given set, with
// direction 1. Coordinates that miss the draw keep their value.
func (w *World) Randomize(states []string, p float64) error {
	if len(states) == 0 {
		return ErrNoStates
	}
	if p < 0 || p > 1 {
		return fmt.Errorf("%w: %v", ErrBadChance, p)
	}
	for _, s := range states {
		if !hex.ValidState(s) || s == hex.EmptyState {
			return fmt.Errorf("invalid state %q", s)
		}
	}

	for _, c := range hex.CoordsWithin(w.grid.Radius()) {
		if w.rng.Float64() >= p {
			continue
		}
		state := states[0]
		if len(states) > 1 {
			state = states[w.rng.Intn(len(states))]
		}
		if err := w.grid.Set(c, hex.Cell{State: state, Dir: hex.DirUpperRight}); err != nil {
			return err
		}
	}
	return nil
}

// SetRules replaces the rule set by reparsing and reexpanding the given
// source text. On a parse error the previous compiled rules are retained
// and the error is returned for the embedding to log.
func (w *World) SetRules(text string) error {
	abstract, err := parser.ParseRules(text)
	if err != nil {
		return err
	}
	w.abstract = abstract
	w.rules = expander.Expand(abstract)
	w.rulesText = text
	return nil
}

// RulesText returns the rule source text: the last text accepted by
// SetRules, or the text restored from a snapshot, which is kept even when
// it fails to parse.
func (w *World) RulesText() string {
	return w.rulesText
}

// Rules returns the compiled concrete rule set.
func (w *World) Rules() []*expander.Rule {
	return w.rules
}

// AbstractRules returns the parsed abstract rules.
func (w *World) AbstractRules() []*parser.Rule {
	return w.abstract
}

// GroupSizes returns the number of concrete siblings per macro group id.
func (w *World) GroupSizes() map[int]int {
	sizes := make(map[int]int)
	for _, r := range w.rules {
		sizes[r.Group]++
	}
	return sizes
}

// Step advances the world one generation and returns the step log. The
// pre-step grid is pushed onto the history ring together with the log.
func (w *World) Step() []string {
	pre := w.grid
	next, log := Step(pre, w.rules, w.rng)

	w.history.Push(pre, log)
	w.grid = next
	w.latest = nil
	w.generation++
	w.lastLog = log
	return log
}

// LastLog returns the log of the most recent step.
func (w *World) LastLog() []string {
	return w.lastLog
}

// HistoryLen returns the number of recorded history entries.
func (w *World) HistoryLen() int {
	return w.history.Len()
}

// HistoryCursor returns the cursor position; HistoryLen() means live.
func (w *World) HistoryCursor() int {
	return w.history.Cursor()
}

// HistoryActiveCounts returns the active cell count of each recorded
// entry, indexed by history position.
func (w *World) HistoryActiveCounts() []int {
	counts := make([]int, w.history.Len())
	for i := range counts {
		entry, _ := w.history.Entry(i)
		counts[i] = entry.Grid.ActiveCount()
	}
	return counts
}

// GridAt returns a copy of the grid recorded at history index i.
func (w *World) GridAt(i int) (*hex.Grid, error) {
	entry, ok := w.history.Entry(i)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBadIndex, i)
	}
	return entry.Grid.Clone(), nil
}

// LogAt returns the log of the step that advanced from history index i.
func (w *World) LogAt(i int) ([]string, error) {
	entry, ok := w.history.Entry(i)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBadIndex, i)
	}
	return entry.Log, nil
}

// Prev rewinds the cursor one entry and restores that grid.
func (w *World) Prev() error {
	return w.Go(w.history.Cursor() - 1)
}

// Next advances the cursor one entry toward the live grid.
func (w *World) Next() error {
	return w.Go(w.history.Cursor() + 1)
}

// Go moves the cursor to history index i and restores grid i. Index
// HistoryLen() restores the live grid the world had before rewinding.
func (w *World) Go(i int) error {
	if w.history.Live() && i != w.history.Len() {
		// Leaving the live position: keep the newest grid so the cursor
		// can come back to it.
		w.latest = w.grid.Clone()
	}

	restored, ok := w.history.Seek(i)
	if !ok {
		return fmt.Errorf("%w: %d", ErrBadIndex, i)
	}

	if restored != nil {
		w.grid = restored
		return nil
	}

	// Seek to the live position.
	if w.latest != nil {
		w.grid = w.latest
		w.latest = nil
	}
	return nil
}
