// Package bom derives a bill of materials from a platform layout. It is a
// pure read-only consumer of the grid: it iterates the module collection
// and never feeds anything back into placement.
package bom

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tbeckers/floatdeck/pkg/grid"
)

// Line is one order line: a module type/color combination with its count
// and the physical size of a single unit.
type Line struct {
	Type     string          `json:"type"`
	Color    string          `json:"color"`
	Quantity int             `json:"quantity"`
	UnitSize grid.Dimensions `json:"unitSize"`
}

// Bill is the full bill of materials for a layout.
type Bill struct {
	Lines         []Line      `json:"lines"`
	TotalModules  int         `json:"totalModules"`
	DeckArea      float64     `json:"deckArea"`      // occupied horizontal area, all levels
	WaterlineArea float64     `json:"waterlineArea"` // occupied area at level 0 only
	ByLevel       map[int]int `json:"byLevel"`
}

// Build computes the bill for a grid. Lines are sorted by type then color
// name so output is deterministic.
func Build(g *grid.Grid) Bill {
	cell := g.CellSize()
	counts := make(map[string]*Line)
	bill := Bill{ByLevel: make(map[int]int)}

	for _, m := range g.Modules() {
		key := m.Type().String() + "/" + m.Color().String()
		line, ok := counts[key]
		if !ok {
			line = &Line{
				Type:     m.Type().String(),
				Color:    m.Color().String(),
				UnitSize: m.PhysicalSize(cell),
			}
			counts[key] = line
		}
		line.Quantity++

		bill.TotalModules++
		bill.ByLevel[m.Level()]++
		area := float64(len(m.Footprint())) * cell.FootprintArea()
		bill.DeckArea += area
		if m.Level() == 0 {
			bill.WaterlineArea += area
		}
	}

	for _, line := range counts {
		bill.Lines = append(bill.Lines, *line)
	}
	slices.SortFunc(bill.Lines, func(a, b Line) int {
		if a.Type != b.Type {
			return strings.Compare(a.Type, b.Type)
		}
		return strings.Compare(a.Color, b.Color)
	})
	return bill
}

// Summary renders the bill as plain text, one line per entry plus totals.
// The CLI's styled table output wraps the same data; this form is for logs
// and piping.
func (b Bill) Summary() string {
	var sb strings.Builder
	for _, line := range b.Lines {
		fmt.Fprintf(&sb, "%dx %s %s (%s)\n", line.Quantity, line.Color, line.Type, line.UnitSize)
	}
	fmt.Fprintf(&sb, "total: %d modules, %.2f m2 deck area\n", b.TotalModules, b.DeckArea/1e6)
	return sb.String()
}
