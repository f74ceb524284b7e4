// Package engine applies compiled HexiDirect rules to a hex grid: the
// matcher decides whether a concrete rule applies to a cell, the stepper
// advances whole generations, and the world façade owns the grid, the
// rule set, the history ring and the RNG.
package engine

import (
	"github.com/hexirules/hexirules/expander"
	"github.com/hexirules/hexirules/hex"
	"github.com/hexirules/hexirules/parser"
)

// Matches reports whether the concrete rule applies to the cell at the
// given coordinate: the state and direction must equal the rule's source
// exactly, and every positioned condition must hold for the neighbor at
// that position. Neighbors outside the grid read as empty with no
// direction.
func Matches(rule *expander.Rule, cell hex.Cell, grid *hex.Grid, at hex.Coord) bool {
	if cell.State != rule.State || cell.Dir != rule.Dir {
		return false
	}

	for p := 1; p <= hex.NumDirections; p++ {
		cond := rule.Conds[p]
		if cond == nil {
			continue
		}
		if !conditionHolds(cond, grid.NeighborCell(at, p), p) {
			return false
		}
	}

	return true
}

// conditionHolds evaluates one positioned condition against the neighbor
// cell at position p.
func conditionHolds(cond *expander.Condition, neighbor hex.Cell, p int) bool {
	if cond.Negated {
		// Orientation is ignored when negated.
		return neighbor.State != cond.State
	}

	if neighbor.State != cond.State {
		return false
	}

	switch cond.Orient {
	case parser.OrientDir:
		return neighbor.Dir == cond.Dir
	case parser.OrientToCenter:
		return neighbor.Dir == hex.OppositeDirection(p)
	case parser.OrientSomeDir:
		return neighbor.HasDir()
	default:
		// Any direction, including none.
		return true
	}
}
