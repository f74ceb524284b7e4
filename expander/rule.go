// Package expander rewrites abstract HexiDirect rules into concrete rules:
// every source carries a literal direction or none, every condition an
// explicit position, and sugared forms are lowered to tagged variants the
// matcher and stepper dispatch on.
package expander

import (
	"fmt"
	"strings"

	"github.com/hexirules/hexirules/hex"
	"github.com/hexirules/hexirules/parser"
)

// Condition is a fully specified constraint on one neighbor position. The
// position itself is the condition's index in Rule.Conds.
type Condition struct {
	State   string
	Negated bool
	Orient  parser.OrientKind
	Dir     int // literal direction when Orient is OrientDir
}

// TargetKind classifies how the direction of a rule's result is resolved
// at application time.
type TargetKind int

const (
	// TargetNone writes no direction.
	TargetNone TargetKind = iota
	// TargetFixed writes the literal direction Dir.
	TargetFixed
	// TargetRotate writes the source cell's direction rotated Rot clockwise.
	TargetRotate
	// TargetRandomAny writes a uniformly random direction.
	TargetRandomAny
	// TargetTransfer writes the direction of the pointing neighbor in
	// condition slot Slot, rotated Rot clockwise.
	TargetTransfer
)

// Target describes the cell value a concrete rule writes.
type Target struct {
	State string
	Kind  TargetKind
	Dir   int // TargetFixed
	Rot   int // TargetRotate, TargetTransfer
	Slot  int // TargetTransfer: position of the pointing condition
}

// Rule is a concrete rule: the expander's output. Conds is indexed by
// position 1..6; index 0 is unused and nil entries are unconstrained.
// Rules sharing a Group id are macro siblings of one authored rule.
type Rule struct {
	State  string
	Dir    int // 1..6, or 0 for none
	Conds  [hex.NumDirections + 1]*Condition
	Target Target
	Group  int
}

// CondCount returns the number of positioned conditions.
func (r *Rule) CondCount() int {
	n := 0
	for p := 1; p <= hex.NumDirections; p++ {
		if r.Conds[p] != nil {
			n++
		}
	}
	return n
}

// key builds a canonical identity string used to deduplicate sibling
// variants that expansion reaches by more than one path.
func (r *Rule) key() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s/%d", r.State, r.Dir)
	for p := 1; p <= hex.NumDirections; p++ {
		c := r.Conds[p]
		if c == nil {
			sb.WriteString("|-")
			continue
		}
		fmt.Fprintf(&sb, "|%d:%v:%s:%d:%d", p, c.Negated, c.State, c.Orient, c.Dir)
	}
	fmt.Fprintf(&sb, ">%s/%d/%d/%d/%d", r.Target.State, r.Target.Kind, r.Target.Dir, r.Target.Rot, r.Target.Slot)
	return sb.String()
}

func (r *Rule) String() string {
	var sb strings.Builder
	sb.WriteString(r.State)
	if r.Dir != 0 {
		fmt.Fprintf(&sb, "%d", r.Dir)
	}
	for p := 1; p <= hex.NumDirections; p++ {
		c := r.Conds[p]
		if c == nil {
			continue
		}
		sb.WriteByte('[')
		if c.Negated {
			sb.WriteByte('-')
		}
		fmt.Fprintf(&sb, "%d%s", p, c.State)
		switch c.Orient {
		case parser.OrientToCenter:
			sb.WriteByte('.')
		case parser.OrientSomeDir:
			sb.WriteByte('%')
		case parser.OrientDir:
			fmt.Fprintf(&sb, "%d", c.Dir)
		}
		sb.WriteByte(']')
	}
	sb.WriteString(" => ")
	sb.WriteString(r.Target.State)
	switch r.Target.Kind {
	case TargetFixed:
		fmt.Fprintf(&sb, "%d", r.Target.Dir)
	case TargetRotate:
		fmt.Fprintf(&sb, "%%%d", r.Target.Rot)
	case TargetRandomAny:
		sb.WriteByte('%')
	case TargetTransfer:
		fmt.Fprintf(&sb, ".%d", r.Target.Rot)
	}
	return sb.String()
}
