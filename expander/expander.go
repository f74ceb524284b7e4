package expander

import (
	"github.com/hexirules/hexirules/hex"
	"github.com/hexirules/hexirules/parser"
)

// Expand rewrites abstract rules into concrete rules. Every concrete rule
// inherits the group id of the abstract rule it came from. Expansion is
// deterministic, pure and total: duplicate variants reached by more than
// one path collapse to one, and variants whose conditions collide on a
// position are discarded.
func Expand(rules []*parser.Rule) []*Rule {
	var out []*Rule
	for _, rule := range rules {
		out = append(out, ExpandRule(rule)...)
	}
	return out
}

// ExpandRule expands a single abstract rule into its concrete siblings.
func ExpandRule(rule *parser.Rule) []*Rule {
	seen := make(map[string]bool)
	var out []*Rule

	for _, src := range rule.Sources {
		combos := altCombos(flattenGroups(src.Groups))
		for _, dir := range sourceDirs(src) {
			for _, conds := range combos {
				for _, placed := range placeConditions(conds) {
					r := &Rule{
						State: src.State,
						Dir:   dir,
						Conds: placed,
						Group: rule.Group,
					}
					r.Target = lowerTarget(rule.Target, dir, placed)
					key := r.key()
					if seen[key] {
						continue
					}
					seen[key] = true
					out = append(out, r)
				}
			}
		}
	}

	return out
}

// sourceDirs returns the source direction variants: one for a fixed or
// absent direction, six for the any-direction marker.
func sourceDirs(src parser.Source) []int {
	switch src.DirKind {
	case parser.SrcDirLiteral:
		return []int{src.Dir}
	case parser.SrcDirAny:
		return []int{1, 2, 3, 4, 5, 6}
	default:
		return []int{0}
	}
}

// flattenGroups applies bracket repetition: [G]N becomes N copies of [G].
func flattenGroups(groups []parser.Group) [][]parser.Condition {
	var flat [][]parser.Condition
	for _, g := range groups {
		for i := 0; i < g.Repeat; i++ {
			flat = append(flat, g.Alts)
		}
	}
	return flat
}

// altCombos builds the Cartesian product of bracket alternatives: one
// flat condition list per way of choosing an alternative from each group.
func altCombos(groups [][]parser.Condition) [][]parser.Condition {
	combos := [][]parser.Condition{nil}
	for _, alts := range groups {
		next := make([][]parser.Condition, 0, len(combos)*len(alts))
		for _, combo := range combos {
			for _, alt := range alts {
				ext := make([]parser.Condition, len(combo), len(combo)+1)
				copy(ext, combo)
				next = append(next, append(ext, alt))
			}
		}
		combos = next
	}
	return combos
}

// placeConditions assigns every condition an explicit position 1..6.
// Conditions parsed with a position keep it; unpositioned conditions are
// distributed injectively over the remaining free positions, one variant
// per assignment. Any two conditions landing on the same position make
// the variant collapse, so counting rules keep exact-count semantics.
func placeConditions(conds []parser.Condition) [][hex.NumDirections + 1]*Condition {
	var base [hex.NumDirections + 1]*Condition
	var free []parser.Condition

	for i := range conds {
		c := conds[i]
		if c.Pos == 0 {
			free = append(free, c)
			continue
		}
		if base[c.Pos] != nil {
			return nil // two explicit conditions on one position
		}
		base[c.Pos] = lowerCondition(c)
	}

	var out [][hex.NumDirections + 1]*Condition
	assign(base, free, &out)
	return out
}

// assign recursively places the remaining unpositioned conditions.
func assign(placed [hex.NumDirections + 1]*Condition, free []parser.Condition, out *[][hex.NumDirections + 1]*Condition) {
	if len(free) == 0 {
		*out = append(*out, placed)
		return
	}
	c := free[0]
	for p := 1; p <= hex.NumDirections; p++ {
		if placed[p] != nil {
			continue
		}
		next := placed
		next[p] = lowerCondition(c)
		assign(next, free[1:], out)
	}
}

// lowerCondition strips the position from a parsed condition. The
// pointing shorthand keeps its marker; the matcher derives the required
// direction from the slot the condition lands in.
func lowerCondition(c parser.Condition) *Condition {
	return &Condition{
		State:   c.State,
		Negated: c.Negated,
		Orient:  c.Orient,
		Dir:     c.Dir,
	}
}

// lowerTarget resolves the parsed target against the concrete source
// direction and the placed conditions.
func lowerTarget(tgt parser.Target, srcDir int, conds [hex.NumDirections + 1]*Condition) Target {
	// An empty result never carries a direction.
	if tgt.State == hex.EmptyState {
		return Target{State: tgt.State, Kind: TargetNone}
	}

	switch tgt.Kind {
	case parser.TgtDirLiteral:
		return Target{State: tgt.State, Kind: TargetFixed, Dir: tgt.Dir}

	case parser.TgtDirPersist:
		if srcDir == 0 {
			// Nothing to persist: the direction is drawn at apply time.
			return Target{State: tgt.State, Kind: TargetRandomAny}
		}
		return Target{State: tgt.State, Kind: TargetRotate, Rot: tgt.Rot}

	case parser.TgtDirTransfer:
		if slot := pointingSlot(conds); slot != 0 {
			return Target{State: tgt.State, Kind: TargetTransfer, Rot: tgt.Rot, Slot: slot}
		}
		// No pointing condition to transfer from.
		return Target{State: tgt.State, Kind: TargetNone}

	default:
		return Target{State: tgt.State, Kind: TargetNone}
	}
}

// pointingSlot returns the lowest position holding a pointing condition,
// or 0 when there is none.
func pointingSlot(conds [hex.NumDirections + 1]*Condition) int {
	for p := 1; p <= hex.NumDirections; p++ {
		if conds[p] != nil && conds[p].Orient == parser.OrientToCenter {
			return p
		}
	}
	return 0
}
