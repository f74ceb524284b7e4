package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexirules/hexirules/engine"
	"github.com/hexirules/hexirules/hex"
)

// newWorld builds a seeded world with the given rules and cells.
func newWorld(t *testing.T, radius int, seed int64, rules string) *engine.World {
	t.Helper()
	w := engine.NewWorld(radius, seed)
	if rules != "" {
		if err := w.SetRules(rules); err != nil {
			t.Fatalf("rules: %v", err)
		}
	}
	return w
}

func TestStep_EmptyRuleSetIsNoOp(t *testing.T) {
	w := newWorld(t, 2, 0, "")
	require.NoError(t, w.SetCell(0, 0, "a", 1))

	log := w.Step()

	assert.Empty(t, log, "log should list zero rule applications")
	cell, err := w.GetCell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, hex.Cell{State: "a", Dir: 1}, cell)
	assert.Equal(t, 1, w.ActiveCount())
}

func TestStep_PointingBirth(t *testing.T) {
	w := newWorld(t, 2, 0, "_[t.] => a")
	require.NoError(t, w.SetCell(0, 0, "t", 1))

	w.Step()

	// The t at the origin points in direction 1; the neighbor there, at
	// (0,-1), is the only cell it points at.
	born, err := w.GetCell(0, -1)
	require.NoError(t, err)
	assert.Equal(t, hex.Cell{State: "a", Dir: 0}, born)

	still, err := w.GetCell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, hex.Cell{State: "t", Dir: 1}, still)

	assert.Equal(t, 2, w.ActiveCount(), "no other cell changes")
}

func TestStep_DirectionPersistence(t *testing.T) {
	w := newWorld(t, 2, 0, "a% => a%")
	require.NoError(t, w.SetCell(0, 0, "a", 4))

	w.Step()

	// Only the source-direction-4 variant matched, so the direction
	// persists without consulting the RNG.
	cell, err := w.GetCell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, hex.Cell{State: "a", Dir: 4}, cell)
	assert.Equal(t, 1, w.ActiveCount())
}

func TestStep_Rotation(t *testing.T) {
	w := newWorld(t, 2, 0, "a% => a%1")
	require.NoError(t, w.SetCell(0, 0, "a", 6))

	w.Step()

	cell, err := w.GetCell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, hex.Cell{State: "a", Dir: 1}, cell, "rotating 6 by 1 wraps to 1")
}

func TestStep_LoneRotationTouchesNothingElse(t *testing.T) {
	w := newWorld(t, 2, 0, "a% => a%3")
	require.NoError(t, w.SetCell(0, 0, "a", 2))

	w.Step()

	cell, err := w.GetCell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, hex.Cell{State: "a", Dir: 5}, cell)
	assert.Equal(t, 1, w.ActiveCount())
}

func TestStep_NegationAssignsRandomDirection(t *testing.T) {
	w := newWorld(t, 2, 0, "t[-1a] => t%")
	require.NoError(t, w.SetCell(0, 0, "t", 0))

	w.Step()

	cell, err := w.GetCell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "t", cell.State)
	assert.True(t, cell.Dir >= 1 && cell.Dir <= 6, "direction %d not in 1..6", cell.Dir)
	assert.Equal(t, 1, w.ActiveCount())

	// Deterministic under a pinned seed
	again := newWorld(t, 2, 0, "t[-1a] => t%")
	require.NoError(t, again.SetCell(0, 0, "t", 0))
	again.Step()
	repeat, err := again.GetCell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, cell, repeat)
}

func TestStep_TransferFromPointing(t *testing.T) {
	w := newWorld(t, 2, 0, "_[t.] => z.1")
	require.NoError(t, w.SetCell(0, 0, "t", 1))

	w.Step()

	// The pointing neighbor sits at position 4 of (0,-1) and carries
	// direction 1; the transfer rotates it by 1.
	cell, err := w.GetCell(0, -1)
	require.NoError(t, err)
	assert.Equal(t, hex.Cell{State: "z", Dir: 2}, cell)
}

func TestStep_UnmatchedCellsKeepValueExactly(t *testing.T) {
	w := newWorld(t, 2, 0, "x => y")
	require.NoError(t, w.SetCell(0, 0, "a", 3))
	require.NoError(t, w.SetCell(1, 0, "b", 0))

	w.Step()

	a, err := w.GetCell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, hex.Cell{State: "a", Dir: 3}, a)

	b, err := w.GetCell(1, 0)
	require.NoError(t, err)
	assert.Equal(t, hex.Cell{State: "b", Dir: 0}, b)
}

func TestStep_SimultaneousApplication(t *testing.T) {
	// Each a becomes b and each b becomes a; effects must not cascade
	// within a step.
	w := newWorld(t, 2, 0, "a => b\nb => a")
	require.NoError(t, w.SetCell(0, 0, "a", 0))
	require.NoError(t, w.SetCell(1, 0, "b", 0))

	w.Step()

	first, err := w.GetCell(0, 0)
	require.NoError(t, err)
	second, err := w.GetCell(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "b", first.State)
	assert.Equal(t, "a", second.State)
}

func TestStep_DeterministicForSeed(t *testing.T) {
	build := func(seed int64) *engine.World {
		w := newWorld(t, 3, seed, "b3s23")
		if err := w.Randomize([]string{"a"}, 0.4); err != nil {
			t.Fatalf("randomize: %v", err)
		}
		return w
	}

	first := build(7)
	second := build(7)
	for i := 0; i < 5; i++ {
		first.Step()
		second.Step()
	}

	assert.Equal(t, gridCellsOf(t, first), gridCellsOf(t, second), "same seed must give identical runs")
}

func TestStep_InvariantsHold(t *testing.T) {
	w := newWorld(t, 3, 1, "b3s23\nt[-1a] => t%")
	require.NoError(t, w.Randomize([]string{"a", "t"}, 0.5))

	for i := 0; i < 8; i++ {
		w.Step()
		for _, c := range w.Grid().ActiveCoords() {
			cell := w.Grid().Get(c)
			if cell.IsEmpty() && cell.HasDir() {
				t.Fatalf("empty cell at %v carries direction %d", c, cell.Dir)
			}
			if !hex.InBounds(c, w.Radius()) {
				t.Fatalf("cell at %v is out of bounds", c)
			}
		}
	}
}

func TestStep_GroupChoiceIsUniform(t *testing.T) {
	// Two groups both match a lone a. Over many seeds the choice must
	// split roughly evenly.
	counts := map[string]int{}
	for seed := int64(0); seed < 200; seed++ {
		w := newWorld(t, 1, seed, "a => b\na => c")
		require.NoError(t, w.SetCell(0, 0, "a", 0))
		w.Step()
		cell, err := w.GetCell(0, 0)
		require.NoError(t, err)
		counts[cell.State]++
	}

	assert.Equal(t, 200, counts["b"]+counts["c"])
	assert.Greater(t, counts["b"], 50, "group 0 chosen too rarely: %v", counts)
	assert.Greater(t, counts["c"], 50, "group 1 chosen too rarely: %v", counts)
}

func TestStep_LogListsApplications(t *testing.T) {
	w := newWorld(t, 2, 0, "a => b")
	require.NoError(t, w.SetCell(0, 0, "a", 0))

	log := w.Step()

	require.Len(t, log, 1)
	assert.Contains(t, log[0], "(0,0)")
	assert.Contains(t, log[0], "applied")
}

func gridCellsOf(t *testing.T, w *engine.World) map[hex.Coord]hex.Cell {
	t.Helper()
	cells := make(map[hex.Coord]hex.Cell)
	for _, c := range w.Grid().ActiveCoords() {
		cells[c] = w.Grid().Get(c)
	}
	return cells
}
