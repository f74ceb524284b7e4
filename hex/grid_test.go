package hex_test

import (
	"testing"

	"github.com/hexirules/hexirules/hex"
)

func TestGrid_SetGet(t *testing.T) {
	g := hex.NewGrid(2)

	c := hex.Coord{Q: 1, R: -1}
	if err := g.Set(c, hex.Cell{State: "a", Dir: 3}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got := g.Get(c)
	if got.State != "a" || got.Dir != 3 {
		t.Errorf("got %v, want a3", got)
	}
	if g.ActiveCount() != 1 {
		t.Errorf("active count %d, want 1", g.ActiveCount())
	}
}

func TestGrid_GetAbsentIsEmpty(t *testing.T) {
	g := hex.NewGrid(2)

	got := g.Get(hex.Coord{Q: 0, R: 0})
	if !got.IsEmpty() || got.HasDir() {
		t.Errorf("absent cell read as %v, want empty with no direction", got)
	}

	// Out-of-bounds coordinates also read as empty
	got = g.Get(hex.Coord{Q: 10, R: 10})
	if !got.IsEmpty() || got.HasDir() {
		t.Errorf("out-of-bounds cell read as %v, want empty", got)
	}
}

func TestGrid_SetOutOfBounds(t *testing.T) {
	g := hex.NewGrid(1)

	if err := g.Set(hex.Coord{Q: 1, R: 1}, hex.Cell{State: "a"}); err == nil {
		t.Error("expected error setting out-of-bounds cell")
	}
}

func TestGrid_SetEmptyRemoves(t *testing.T) {
	g := hex.NewGrid(2)
	c := hex.Coord{Q: 0, R: 0}

	if err := g.Set(c, hex.Cell{State: "a"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := g.Set(c, hex.Empty()); err != nil {
		t.Fatalf("set empty failed: %v", err)
	}
	if g.ActiveCount() != 0 {
		t.Errorf("active count %d after clearing, want 0", g.ActiveCount())
	}
}

func TestGrid_EmptyNeverKeepsDirection(t *testing.T) {
	g := hex.NewGrid(2)
	c := hex.Coord{Q: 0, R: 0}

	if err := g.Set(c, hex.Cell{State: "_", Dir: 4}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got := g.Get(c)
	if !got.IsEmpty() || got.HasDir() {
		t.Errorf("got %v, want empty with no direction", got)
	}
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	g := hex.NewGrid(2)
	c := hex.Coord{Q: 0, R: 0}
	if err := g.Set(c, hex.Cell{State: "a", Dir: 1}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	dup := g.Clone()
	if err := g.Set(c, hex.Cell{State: "b", Dir: 2}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got := dup.Get(c)
	if got.State != "a" || got.Dir != 1 {
		t.Errorf("clone changed with original: got %v, want a1", got)
	}
}

func TestGrid_ActiveCoordsSorted(t *testing.T) {
	g := hex.NewGrid(2)
	for _, c := range []hex.Coord{{Q: 1, R: 0}, {Q: -1, R: 0}, {Q: 0, R: 1}, {Q: 0, R: -1}} {
		if err := g.Set(c, hex.Cell{State: "a"}); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	coords := g.ActiveCoords()
	want := []hex.Coord{{Q: -1, R: 0}, {Q: 0, R: -1}, {Q: 0, R: 1}, {Q: 1, R: 0}}
	if len(coords) != len(want) {
		t.Fatalf("got %d coords, want %d", len(coords), len(want))
	}
	for i := range want {
		if coords[i] != want[i] {
			t.Errorf("coords[%d] = %v, want %v", i, coords[i], want[i])
		}
	}
}

func TestGrid_NeighborCellOutOfBounds(t *testing.T) {
	g := hex.NewGrid(1)

	// Neighbor of an edge cell that falls off the grid reads as empty
	cell := g.NeighborCell(hex.Coord{Q: 1, R: 0}, hex.DirRight)
	if !cell.IsEmpty() || cell.HasDir() {
		t.Errorf("out-of-bounds neighbor = %v, want empty with no direction", cell)
	}
}

func TestValidState(t *testing.T) {
	valid := []string{"_", "a", "ab", "fire_ant", "z"}
	for _, s := range valid {
		if !hex.ValidState(s) {
			t.Errorf("state %q should be valid", s)
		}
	}

	invalid := []string{"", "A", "a3", "3a", "_a", "a b"}
	for _, s := range invalid {
		if hex.ValidState(s) {
			t.Errorf("state %q should be invalid", s)
		}
	}
}
