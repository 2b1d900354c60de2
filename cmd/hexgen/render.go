package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
)

// cellWidth is the width of one map column, "[S]" plus a gap.
const cellWidth = 4

var mapSymbols = map[content.Category]string{
	content.CategorySettlement:   "S",
	content.CategoryDungeon:      "D",
	content.CategoryBeast:        "B",
	content.CategoryNPC:          "N",
	content.CategorySeaEncounter: "~",
}

func hexSymbol(rec content.Record, ok bool) string {
	if !ok {
		return "?"
	}
	if s, found := mapSymbols[rec.Type]; found {
		return s
	}
	return "."
}

// renderMap draws the map in odd-q layout. Every grid row takes two text
// lines: even columns on the first and the lowered odd columns on the second.
func renderMap(w io.Writer, bounds hexgrid.Bounds, hexes map[string]content.Record) {
	var header strings.Builder
	header.WriteString("   ")
	for col := 0; col < bounds.Cols; col++ {
		fmt.Fprintf(&header, "%-*s", cellWidth, fmt.Sprintf("%02d", col))
	}
	fmt.Fprintln(w, strings.TrimRight(header.String(), " "))

	for row := 0; row < bounds.Rows; row++ {
		for parity := 0; parity < 2; parity++ {
			var line strings.Builder
			if parity == 0 {
				fmt.Fprintf(&line, "%02d ", row)
			} else {
				line.WriteString("   ")
			}
			for col := 0; col < bounds.Cols; col++ {
				if col%2 != parity {
					line.WriteString(strings.Repeat(" ", cellWidth))
					continue
				}
				rec, ok := hexes[hexgrid.Coord{Row: row, Col: col}.Code()]
				fmt.Fprintf(&line, "[%s] ", hexSymbol(rec, ok))
			}
			fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
		}
	}
}

func writeLegend(w io.Writer) {
	fmt.Fprint(w, `Legend:
  [S] Settlement
  [D] Dungeon
  [B] Beast
  [N] NPC
  [~] Sea encounter
  [?] Failed hex
`)
}
