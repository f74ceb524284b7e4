// Package ui contains the interactive front ends: a terminal panel built
// on tview and a desktop viewer built on fyne. Both render the grid
// through the same ASCII layout.
package ui

import (
	"strings"

	"github.com/hexirules/hexirules/hex"
)

// RenderGrid lays the grid out as ASCII text, one row per r coordinate.
// Each cell occupies two columns at x = 2q + r, which keeps the hexagonal
// shape readable in a fixed-width font. Non-empty cells show the first
// letter of their state plus the direction digit (or a space when the
// cell has none); empty cells show the given glyph.
func RenderGrid(grid *hex.Grid, emptyGlyph string) string {
	radius := grid.Radius()
	if emptyGlyph == "" {
		emptyGlyph = "."
	}

	// x = 2q + r ranges over [-2R .. 2R] for in-bounds cells; the row
	// buffer spans [-3R .. 3R+1]
	minX := -3 * radius
	width := 6*radius + 2

	var sb strings.Builder
	for r := -radius; r <= radius; r++ {
		row := make([]byte, width)
		for i := range row {
			row[i] = ' '
		}
		for q := -radius; q <= radius; q++ {
			c := hex.Coord{Q: q, R: r}
			if !hex.InBounds(c, radius) {
				continue
			}
			x := 2*q + r - minX
			cell := grid.Get(c)
			if cell.IsEmpty() {
				row[x] = emptyGlyph[0]
				continue
			}
			row[x] = cell.State[0]
			if cell.HasDir() {
				row[x+1] = byte('0' + cell.Dir)
			}
		}
		sb.Write(trimRight(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func trimRight(row []byte) []byte {
	end := len(row)
	for end > 0 && row[end-1] == ' ' {
		end--
	}
	return row[:end]
}
