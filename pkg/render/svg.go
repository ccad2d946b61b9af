package render

import (
	"bytes"
	"fmt"

	"github.com/tbeckers/floatdeck/pkg/grid"
)

// Fill colors per module color, chosen for contrast on the pale water
// background. Stroke is a darkened variant of the same hue.
var palette = map[grid.Color][2]string{
	grid.ColorSlate: {"#64748b", "#334155"},
	grid.ColorAzure: {"#38bdf8", "#0369a1"},
	grid.ColorSand:  {"#fbbf24", "#b45309"},
	grid.ColorMoss:  {"#84cc16", "#3f6212"},
	grid.ColorCoral: {"#fb7185", "#be123c"},
}

const (
	waterFill  = "#e0f2fe"
	gridStroke = "#bae6fd"
	panelGap   = 24.0
	titleSpace = 20.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cellPx float64
	level  int
	labels bool
	lines  bool
}

// WithCellPixels sets the on-screen size of one grid cell. Default 32.
func WithCellPixels(px float64) SVGOption { return func(r *svgRenderer) { r.cellPx = px } }

// WithLevel restricts output to a single level panel.
func WithLevel(level int) SVGOption { return func(r *svgRenderer) { r.level = level } }

// WithLabels draws each module's identity at its origin cell.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithGridLines overlays cell boundaries on the water background.
func WithGridLines() SVGOption { return func(r *svgRenderer) { r.lines = true } }

// RenderSVG renders a grid as a plan-view SVG. Levels are stacked
// vertically as separate panels, level 0 first. Output is deterministic:
// modules draw in identity order.
func RenderSVG(g *grid.Grid, opts ...SVGOption) []byte {
	r := svgRenderer{cellPx: 32, level: -1}
	for _, opt := range opts {
		opt(&r)
	}

	levels := levelRange(g, r.level)
	panelW := float64(g.Width()) * r.cellPx
	panelH := float64(g.Depth()) * r.cellPx
	totalW := panelW + 2*panelGap
	totalH := float64(len(levels))*(panelH+titleSpace+panelGap) + panelGap

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		totalW, totalH, totalW, totalH)

	y := panelGap
	for _, level := range levels {
		r.renderPanel(&buf, g, level, panelGap, y, panelW, panelH)
		y += panelH + titleSpace + panelGap
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func levelRange(g *grid.Grid, only int) []int {
	if only >= 0 {
		return []int{only}
	}
	levels := make([]int, g.Levels())
	for i := range levels {
		levels[i] = i
	}
	return levels
}

func (r *svgRenderer) renderPanel(buf *bytes.Buffer, g *grid.Grid, level int, x0, y0, w, h float64) {
	fmt.Fprintf(buf, "  <text x=\"%.1f\" y=\"%.1f\" font-family=\"sans-serif\" font-size=\"13\" fill=\"#334155\">level %d</text>\n",
		x0, y0+13, level)
	y0 += titleSpace

	fmt.Fprintf(buf, "  <rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=%q stroke=%q/>\n",
		x0, y0, w, h, waterFill, gridStroke)

	if r.lines {
		for i := 1; i < g.Width(); i++ {
			x := x0 + float64(i)*r.cellPx
			fmt.Fprintf(buf, "  <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=%q stroke-width=\"0.5\"/>\n",
				x, y0, x, y0+h, gridStroke)
		}
		for i := 1; i < g.Depth(); i++ {
			y := y0 + float64(i)*r.cellPx
			fmt.Fprintf(buf, "  <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=%q stroke-width=\"0.5\"/>\n",
				x0, y, x0+w, y, gridStroke)
		}
	}

	for _, m := range g.ModulesAtLevel(level) {
		r.renderModule(buf, m, x0, y0)
	}
}

func (r *svgRenderer) renderModule(buf *bytes.Buffer, m grid.Module, x0, y0 float64) {
	colors := palette[m.Color()]
	for _, cell := range m.Footprint() {
		x := x0 + float64(cell.X)*r.cellPx
		y := y0 + float64(cell.Z)*r.cellPx
		fmt.Fprintf(buf, "  <rect id=\"cell-%s-%d-%d\" x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=%q stroke=%q stroke-width=\"1.5\" rx=\"3\"/>\n",
			m.ID(), cell.X, cell.Z, x+1, y+1, r.cellPx-2, r.cellPx-2, colors[0], colors[1])
	}
	if r.labels {
		origin := m.Position()
		x := x0 + (float64(origin.X)+0.5)*r.cellPx
		y := y0 + (float64(origin.Z)+0.5)*r.cellPx
		fmt.Fprintf(buf, "  <text x=\"%.1f\" y=\"%.1f\" font-family=\"sans-serif\" font-size=\"%.0f\" fill=\"white\" text-anchor=\"middle\" dominant-baseline=\"middle\">%s</text>\n",
			x, y, r.cellPx/3.5, shortID(m.ID()))
	}
}

// shortID truncates long identifiers (UUIDs) to their first segment so
// labels stay readable inside a cell.
func shortID(id string) string {
	for i, c := range id {
		if c == '-' {
			return id[:i]
		}
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
