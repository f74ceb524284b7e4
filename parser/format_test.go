package parser_test

import (
	"sort"
	"testing"

	"github.com/hexirules/hexirules/expander"
	"github.com/hexirules/hexirules/parser"
)

func TestFormat_Canonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a=>b", "a => b"},
		{"a%[x]2 => a%1", "a%[x]2 => a%1"},
		{"_[t.] => z.2", "_[t.] => z.2"},
		{"a[-1b|2c4][_]3=>_", "a[-1b|2c4][_]3 => _"},
		{"a[_|a][_]5|a[a]4[_|a][_|a] => _", "a[_|a][_]5 | a[a]4[_|a][_|a] => _"},
		{"a => b%", "a => b%"},
	}

	for _, tt := range tests {
		rules, err := parser.ParseRules(tt.input)
		if err != nil {
			t.Errorf("%q: parse error: %v", tt.input, err)
			continue
		}
		if got := parser.Format(rules); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormat_Reparses(t *testing.T) {
	// Formatting and reparsing yields the same abstract rules again
	inputs := []string{
		"b3s23",
		"_[t.] => a\na% => a%2 ; t[x%][-3y] => t4",
	}

	for _, input := range inputs {
		rules, err := parser.ParseRules(input)
		if err != nil {
			t.Fatalf("%q: parse error: %v", input, err)
		}

		formatted := parser.Format(rules)
		again, err := parser.ParseRules(formatted)
		if err != nil {
			t.Fatalf("formatted text %q failed to reparse: %v", formatted, err)
		}

		if parser.Format(again) != formatted {
			t.Errorf("format not stable:\n first: %q\nsecond: %q", formatted, parser.Format(again))
		}
		if len(again) != len(rules) {
			t.Errorf("%q: reparse gave %d rules, want %d", input, len(again), len(rules))
		}

		// The concrete rule multiset survives the round trip
		before := concreteSet(rules)
		after := concreteSet(again)
		if len(before) != len(after) {
			t.Fatalf("%q: concrete sets differ in size: %d vs %d", input, len(before), len(after))
		}
		for i := range before {
			if before[i] != after[i] {
				t.Errorf("%q: concrete rule differs: %q vs %q", input, before[i], after[i])
			}
		}
	}
}

// concreteSet expands rules and returns a sorted multiset of their
// canonical strings.
func concreteSet(rules []*parser.Rule) []string {
	concrete := expander.Expand(rules)
	out := make([]string, len(concrete))
	for i, r := range concrete {
		out[i] = r.String()
	}
	sort.Strings(out)
	return out
}
