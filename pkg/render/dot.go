package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/tbeckers/floatdeck/pkg/grid"
)

// DOTOptions configures adjacency diagram output.
type DOTOptions struct {
	// Detailed includes position and type in node labels.
	// When false, only the module ID is shown.
	Detailed bool
}

// ToDOT converts a grid to Graphviz DOT format for adjacency
// visualization. Modules become nodes, filled with their assigned color.
// Solid edges connect horizontally adjacent modules on the same level;
// dashed edges point from a supporting module to the one stacked on it.
//
// The resulting DOT string can be rendered with [DOTToSVG].
func ToDOT(g *grid.Grid, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph platform {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("\n")

	for _, m := range g.Modules() {
		colors := palette[m.Color()]
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, color=%q, fontcolor=white];\n",
			m.ID(), dotLabel(m, opts.Detailed), colors[0], colors[1])
	}

	buf.WriteString("\n")
	for _, e := range adjacencyEdges(g) {
		if e.support {
			fmt.Fprintf(&buf, "  %q -- %q [style=dashed];\n", e.from, e.to)
		} else {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.from, e.to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(m grid.Module, detailed bool) string {
	if !detailed {
		return shortID(m.ID())
	}
	return fmt.Sprintf("%s\n%s %s\n%s", shortID(m.ID()), m.Color(), m.Type(), m.Position())
}

type dotEdge struct {
	from, to string
	support  bool
}

// adjacencyEdges walks every module footprint once and emits each
// undirected pair a single time, ordered so output is deterministic.
func adjacencyEdges(g *grid.Grid) []dotEdge {
	idx := g.Index()
	type pair struct {
		a, b    string
		support bool
	}
	seen := make(map[pair]struct{})
	var edges []dotEdge

	add := func(a, b string, support bool) {
		if a > b {
			a, b = b, a
		}
		key := pair{a, b, support}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		edges = append(edges, dotEdge{from: a, to: b, support: support})
	}

	for _, m := range g.Modules() {
		for _, cell := range m.Footprint() {
			for _, n := range cell.HorizontalNeighbors() {
				for _, other := range idx.IDsAt(n) {
					if other != m.ID() {
						add(m.ID(), other, false)
					}
				}
			}
			for _, other := range idx.IDsAt(cell.Below()) {
				if other != m.ID() {
					add(m.ID(), other, true)
				}
			}
		}
	}
	return edges
}

// DOTToSVG renders a DOT graph to SVG using Graphviz.
func DOTToSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz SVG header so the viewBox starts
// at the origin and the pixel size matches it. Some viewers mis-scale the
// pt-based header Graphviz emits.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
