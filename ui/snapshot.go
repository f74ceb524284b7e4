package ui

import (
	"github.com/hexirules/hexirules/engine"
	"github.com/hexirules/hexirules/hex"
)

// snapshotGrid rebuilds a grid from a world snapshot for rendering. The
// service hands out snapshots rather than live grids, so the front ends
// never share storage with the engine.
func snapshotGrid(snap *engine.Snapshot) (*hex.Grid, error) {
	grid := hex.NewGrid(snap.Radius)
	for _, sc := range snap.Cells {
		dir := 0
		if sc.Direction != nil {
			dir = *sc.Direction
		}
		if err := grid.Set(hex.Coord{Q: sc.Q, R: sc.R}, hex.Cell{State: sc.State, Dir: dir}); err != nil {
			return nil, err
		}
	}
	return grid, nil
}
