package parser_test

import (
	"testing"

	"github.com/hexirules/hexirules/parser"
)

func TestParser_SimpleRule(t *testing.T) {
	rules, err := parser.ParseRules("a => b")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	rule := rules[0]
	if len(rule.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(rule.Sources))
	}
	if rule.Sources[0].State != "a" {
		t.Errorf("expected source state 'a', got %q", rule.Sources[0].State)
	}
	if rule.Sources[0].DirKind != parser.SrcDirNone {
		t.Errorf("expected no source direction")
	}
	if rule.Target.State != "b" || rule.Target.Kind != parser.TgtDirNone {
		t.Errorf("unexpected target %+v", rule.Target)
	}
	if rule.Group != 0 {
		t.Errorf("expected group 0, got %d", rule.Group)
	}
}

func TestParser_SourceAnyDirection(t *testing.T) {
	rules, err := parser.ParseRules("a% => a%3")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	src := rules[0].Sources[0]
	if src.DirKind != parser.SrcDirAny {
		t.Errorf("expected source-any marker")
	}

	tgt := rules[0].Target
	if tgt.Kind != parser.TgtDirPersist || tgt.Rot != 3 {
		t.Errorf("expected persist rotation 3, got %+v", tgt)
	}
}

func TestParser_Brackets(t *testing.T) {
	rules, err := parser.ParseRules("a[a]2[_|a][_]3 => a")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	groups := rules[0].Sources[0].Groups
	if len(groups) != 3 {
		t.Fatalf("expected 3 bracket groups, got %d", len(groups))
	}
	if groups[0].Repeat != 2 || len(groups[0].Alts) != 1 {
		t.Errorf("group 0 = %+v, want [a]2", groups[0])
	}
	if groups[1].Repeat != 1 || len(groups[1].Alts) != 2 {
		t.Errorf("group 1 = %+v, want [_|a]", groups[1])
	}
	if groups[2].Repeat != 3 || groups[2].Alts[0].State != "_" {
		t.Errorf("group 2 = %+v, want [_]3", groups[2])
	}
}

func TestParser_ConditionForms(t *testing.T) {
	rules, err := parser.ParseRules("a[2b3][-1c][t.][x%] => b")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	groups := rules[0].Sources[0].Groups
	if len(groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(groups))
	}

	positioned := groups[0].Alts[0]
	if positioned.Pos != 2 || positioned.State != "b" || positioned.Orient != parser.OrientDir || positioned.Dir != 3 {
		t.Errorf("positioned condition = %+v, want pos 2 state b orient 3", positioned)
	}

	negated := groups[1].Alts[0]
	if !negated.Negated || negated.Pos != 1 || negated.State != "c" {
		t.Errorf("negated condition = %+v, want -1c", negated)
	}

	pointing := groups[2].Alts[0]
	if pointing.Pos != 0 || pointing.State != "t" || pointing.Orient != parser.OrientToCenter {
		t.Errorf("pointing condition = %+v, want t.", pointing)
	}

	someDir := groups[3].Alts[0]
	if someDir.Orient != parser.OrientSomeDir {
		t.Errorf("condition = %+v, want x%%", someDir)
	}
}

func TestParser_TopLevelPipeSharesGroup(t *testing.T) {
	rules, err := parser.ParseRules("a[_|a][_]5 | a[a]4[_|a][_|a] => _")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if len(rules[0].Sources) != 2 {
		t.Fatalf("expected 2 sibling sources, got %d", len(rules[0].Sources))
	}
	if rules[0].Target.State != "_" {
		t.Errorf("expected shared target '_', got %q", rules[0].Target.State)
	}
}

func TestParser_SeparatorsAndComments(t *testing.T) {
	input := "# birth\n_[t.] => a ; t => _\n\n  # trailing comment\na => a%  # persist\n"
	rules, err := parser.ParseRules(input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	if rules[1].Sources[0].State != "t" || rules[1].Group != 1 {
		t.Errorf("second rule = %+v", rules[1])
	}
}

func TestParser_TargetForms(t *testing.T) {
	tests := []struct {
		input string
		kind  parser.TargetDirKind
		dir   int
		rot   int
	}{
		{"a => b", parser.TgtDirNone, 0, 0},
		{"a => b4", parser.TgtDirLiteral, 4, 0},
		{"a => b%", parser.TgtDirPersist, 0, 0},
		{"a => b%5", parser.TgtDirPersist, 0, 5},
		{"_[t.] => z.2", parser.TgtDirTransfer, 0, 2},
	}

	for _, tt := range tests {
		rules, err := parser.ParseRules(tt.input)
		if err != nil {
			t.Errorf("%q: parse error: %v", tt.input, err)
			continue
		}
		tgt := rules[0].Target
		if tgt.Kind != tt.kind || tgt.Dir != tt.dir || tgt.Rot != tt.rot {
			t.Errorf("%q: target = %+v, want kind %d dir %d rot %d", tt.input, tgt, tt.kind, tt.dir, tt.rot)
		}
	}
}

func TestParser_Preset(t *testing.T) {
	rules, err := parser.ParseRules("b3s23")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(rules) != 3 {
		t.Fatalf("expected 3 rules from preset, got %d", len(rules))
	}
	if rules[0].Sources[0].State != "_" {
		t.Errorf("first preset rule should be the birth rule, got %+v", rules[0].Sources[0])
	}
	if len(rules[2].Sources) != 2 {
		t.Errorf("third preset rule should have 2 sibling sources, got %d", len(rules[2].Sources))
	}
	for i, rule := range rules {
		if rule.Group != i {
			t.Errorf("rule %d has group %d", i, rule.Group)
		}
	}
}

func TestParser_EmptyInput(t *testing.T) {
	rules, err := parser.ParseRules("")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("expected no rules, got %d", len(rules))
	}

	rules, err = parser.ParseRules("\n\n# only comments\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("expected no rules, got %d", len(rules))
	}
}

func TestParser_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"digit in state", "a3 => b"},
		{"negation without position", "a[-b] => c"},
		{"repeat count out of range", "a[x]7 => b"},
		{"rotation out of range", "a => b%9"},
		{"pointing with explicit position", "a[1b.] => c"},
		{"uppercase state", "a => B"},
		{"missing arrow", "a b"},
		{"missing target", "a =>"},
		{"direction zero", "a[0b] => c"},
		{"unterminated bracket", "a[b => c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parser.ParseRules(tt.input); err == nil {
				t.Errorf("input %q should be rejected", tt.input)
			}
		})
	}
}

func TestParser_ErrorPosition(t *testing.T) {
	p := parser.NewParser("a => b\nc[x]9 => d")
	_, err := p.Parse()
	if err == nil {
		t.Fatal("expected parse error")
	}

	errs := p.Errors()
	if !errs.HasErrors() {
		t.Fatal("error list should not be empty")
	}
	pos := errs.Errors[0].Pos
	if pos.Line != 2 {
		t.Errorf("error line = %d, want 2", pos.Line)
	}
	if pos.Offset <= 0 {
		t.Errorf("error offset = %d, want > 0", pos.Offset)
	}
}

func TestParser_RuleText(t *testing.T) {
	rules, err := parser.ParseRules("  a => b  \n_[t.] => a")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if rules[0].Text != "a => b" {
		t.Errorf("rule text = %q, want %q", rules[0].Text, "a => b")
	}
	if rules[1].Text != "_[t.] => a" {
		t.Errorf("rule text = %q, want %q", rules[1].Text, "_[t.] => a")
	}
}
