package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/hexirules/hexirules/expander"
	"github.com/hexirules/hexirules/hex"
)

// cellMatches is one cell's non-empty matching set collected in phase one.
type cellMatches struct {
	coord hex.Coord
	rules []*expander.Rule
}

// Step computes the next generation of the grid under the given concrete
// rules. The input grid is not modified. All rules apply as if
// simultaneously: phase one collects the matching rules of every in-bounds
// cell against the previous generation, phase two picks one rule per cell
// (uniformly over macro groups, then uniformly over the chosen group's
// matching siblings) and writes the result. Cells with no matching rule
// keep their value exactly.
//
// The returned log lists, per applied cell, the size of its matching set
// and the chosen rule. A failure inside rule evaluation for one cell is
// logged and leaves that cell unchanged; the step still completes.
func Step(grid *hex.Grid, rules []*expander.Rule, rng *rand.Rand) (*hex.Grid, []string) {
	var log []string

	// Phase one: collect matches per cell. Iteration is stable in (q, r)
	// lexicographic order so seeded runs reproduce.
	var matched []cellMatches
	for _, coord := range hex.CoordsWithin(grid.Radius()) {
		coord := coord
		err := guard(func() {
			cell := grid.Get(coord)
			var applicable []*expander.Rule
			for _, rule := range rules {
				if Matches(rule, cell, grid, coord) {
					applicable = append(applicable, rule)
				}
			}
			if len(applicable) > 0 {
				matched = append(matched, cellMatches{coord: coord, rules: applicable})
			}
		})
		if err != nil {
			log = append(log, fmt.Sprintf("%s: rule evaluation failed: %v; cell unchanged", coord, err))
		}
	}

	// Phase two: choose one rule per matched cell and apply.
	next := grid.Clone()
	for _, m := range matched {
		m := m
		err := guard(func() {
			chosen := choose(m.rules, rng)
			cell := applyTarget(chosen, grid, m.coord, rng)
			if err := next.Set(m.coord, cell); err != nil {
				panic(err)
			}
			log = append(log, fmt.Sprintf("%s: %d matched in %d groups; applied %s",
				m.coord, len(m.rules), groupCount(m.rules), chosen))
		})
		if err != nil {
			log = append(log, fmt.Sprintf("%s: rule application failed: %v; cell unchanged", m.coord, err))
		}
	}

	return next, log
}

// guard runs fn, converting a panic into an error so a single bad cell
// cannot abort the step.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}

// choose picks one rule from a cell's matching set: first a macro group
// uniformly at random over the matched group ids (sorted, so the pick is
// independent of map iteration order), then one concrete sibling
// uniformly from that group. The RNG is consulted only when there is a
// real choice to make.
func choose(matches []*expander.Rule, rng *rand.Rand) *expander.Rule {
	byGroup := make(map[int][]*expander.Rule)
	for _, r := range matches {
		byGroup[r.Group] = append(byGroup[r.Group], r)
	}

	groups := make([]int, 0, len(byGroup))
	for id := range byGroup {
		groups = append(groups, id)
	}
	sort.Ints(groups)

	group := groups[0]
	if len(groups) > 1 {
		group = groups[rng.Intn(len(groups))]
	}

	siblings := byGroup[group]
	if len(siblings) == 1 {
		return siblings[0]
	}
	return siblings[rng.Intn(len(siblings))]
}

// groupCount returns the number of distinct macro groups in a match set.
func groupCount(matches []*expander.Rule) int {
	seen := make(map[int]bool)
	for _, r := range matches {
		seen[r.Group] = true
	}
	return len(seen)
}

// applyTarget resolves the chosen rule's target against the pre-step
// grid into the cell value to write.
func applyTarget(rule *expander.Rule, grid *hex.Grid, at hex.Coord, rng *rand.Rand) hex.Cell {
	tgt := rule.Target
	cell := hex.Cell{State: tgt.State}

	switch tgt.Kind {
	case expander.TargetFixed:
		cell.Dir = tgt.Dir
	case expander.TargetRotate:
		src := grid.Get(at)
		cell.Dir = hex.RotateDirection(src.Dir, tgt.Rot)
	case expander.TargetRandomAny:
		cell.Dir = rng.Intn(hex.NumDirections) + 1
	case expander.TargetTransfer:
		in := grid.NeighborCell(at, tgt.Slot)
		cell.Dir = hex.RotateDirection(in.Dir, tgt.Rot)
	}

	return cell.Normalize()
}
