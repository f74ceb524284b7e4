package parser

import (
	"fmt"
	"strings"
)

// Format pretty-prints abstract rules back to canonical HexiDirect source,
// one rule per line. Reparsing the output of Format yields the same
// concrete rule set.
func Format(rules []*Rule) string {
	lines := make([]string, len(rules))
	for i, rule := range rules {
		lines[i] = FormatRule(rule)
	}
	return strings.Join(lines, "\n")
}

// FormatRule pretty-prints a single abstract rule.
func FormatRule(rule *Rule) string {
	var sb strings.Builder

	for i, src := range rule.Sources {
		if i > 0 {
			sb.WriteString(" | ")
		}
		writeSource(&sb, src)
	}

	sb.WriteString(" => ")
	writeTarget(&sb, rule.Target)

	return sb.String()
}

func writeSource(sb *strings.Builder, src Source) {
	sb.WriteString(src.State)
	switch src.DirKind {
	case SrcDirAny:
		sb.WriteByte('%')
	case SrcDirLiteral:
		fmt.Fprintf(sb, "%d", src.Dir)
	}
	for _, group := range src.Groups {
		writeGroup(sb, group)
	}
}

func writeGroup(sb *strings.Builder, group Group) {
	sb.WriteByte('[')
	for i, alt := range group.Alts {
		if i > 0 {
			sb.WriteByte('|')
		}
		writeCondition(sb, alt)
	}
	sb.WriteByte(']')
	if group.Repeat > 1 {
		fmt.Fprintf(sb, "%d", group.Repeat)
	}
}

func writeCondition(sb *strings.Builder, cond Condition) {
	if cond.Negated {
		sb.WriteByte('-')
	}
	if cond.Pos != 0 {
		fmt.Fprintf(sb, "%d", cond.Pos)
	}
	sb.WriteString(cond.State)
	switch cond.Orient {
	case OrientToCenter:
		sb.WriteByte('.')
	case OrientSomeDir:
		sb.WriteByte('%')
	case OrientDir:
		fmt.Fprintf(sb, "%d", cond.Dir)
	}
}

func writeTarget(sb *strings.Builder, tgt Target) {
	sb.WriteString(tgt.State)
	switch tgt.Kind {
	case TgtDirLiteral:
		fmt.Fprintf(sb, "%d", tgt.Dir)
	case TgtDirPersist:
		sb.WriteByte('%')
		if tgt.Rot != 0 {
			fmt.Fprintf(sb, "%d", tgt.Rot)
		}
	case TgtDirTransfer:
		sb.WriteByte('.')
		if tgt.Rot != 0 {
			fmt.Fprintf(sb, "%d", tgt.Rot)
		}
	}
}
