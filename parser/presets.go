package parser

import "strings"

// Presets maps preset names to the rule text they expand to. A preset
// name appearing as a whole line in the source is replaced at parse time.
var Presets = map[string]string{
	// Hexagonal B3/S23: birth on exactly three neighbors, survival on two
	// or three, death otherwise.
	"b3s23": "_[a]3[_]3 => a\n" +
		"a[a]2[_|a][_]3 => a\n" +
		"a[_|a][_]5 | a[a]4[_|a][_|a] => _",
}

// ExpandPresets replaces preset lines in the source with their rule text.
// Lines that are not preset names pass through unchanged.
func ExpandPresets(input string) string {
	lines := strings.Split(input, "\n")
	var out []string
	for _, line := range lines {
		if text, ok := Presets[strings.TrimSpace(line)]; ok {
			out = append(out, text)
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
