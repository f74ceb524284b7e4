package parser

// OrientKind classifies the orientation marker a condition places on a
// neighbor's direction.
type OrientKind int

const (
	// OrientAny accepts any direction, including none.
	OrientAny OrientKind = iota
	// OrientDir requires the literal direction stored alongside.
	OrientDir
	// OrientToCenter requires the neighbor to point back at the center cell.
	OrientToCenter
	// OrientSomeDir requires the neighbor to carry some direction.
	OrientSomeDir
)

// Condition constrains one neighbor of the cell a rule applies to.
// Pos is 0 when the condition is unpositioned: the macro expander then
// distributes it over all six positions.
type Condition struct {
	Pos     int // 1..6, or 0 for any position
	Negated bool
	State   string
	Orient  OrientKind
	Dir     int // literal direction when Orient is OrientDir
}

// Group is one bracket group of a rule source: a non-empty list of
// alternative conditions, optionally repeated. [x]3 is three independent
// copies of [x].
type Group struct {
	Alts   []Condition
	Repeat int // 1..6
}

// SourceDirKind classifies the direction marker on a rule's source state.
type SourceDirKind int

const (
	// SrcDirNone matches cells with no direction.
	SrcDirNone SourceDirKind = iota
	// SrcDirLiteral matches cells with the stored direction.
	SrcDirLiteral
	// SrcDirAny expands to six variants, one per direction.
	SrcDirAny
)

// Source is one source pattern of a rule: the state to match, its
// direction marker, and the bracket groups constraining neighbors.
type Source struct {
	State   string
	DirKind SourceDirKind
	Dir     int // set when DirKind is SrcDirLiteral
	Groups  []Group
}

// TargetDirKind classifies the direction marker on a rule's target state.
type TargetDirKind int

const (
	// TgtDirNone writes no direction.
	TgtDirNone TargetDirKind = iota
	// TgtDirLiteral writes the stored direction.
	TgtDirLiteral
	// TgtDirPersist is %N: keep the source direction rotated N clockwise
	// (% alone is %0). With an undirected source it means a random direction.
	TgtDirPersist
	// TgtDirTransfer is .N: take the direction of the pointing neighbor
	// that matched, rotated N clockwise.
	TgtDirTransfer
)

// Target is the result pattern of a rule.
type Target struct {
	State string
	Kind  TargetDirKind
	Dir   int // set when Kind is TgtDirLiteral
	Rot   int // rotation amount for TgtDirPersist / TgtDirTransfer
}

// Rule is an abstract rule as parsed: one or more sibling sources (split
// by top-level |) sharing one target. All concrete rules expanded from it
// inherit its macro group id.
type Rule struct {
	Sources []Source
	Target  Target
	Group   int    // macro group id: position in the parsed rule list
	Text    string // the rule text as authored
	Pos     Position
}
