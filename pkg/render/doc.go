// Package render turns platform layouts into visual output.
//
// Two views are supported:
//   - [RenderSVG]: a hand-built plan-view SVG, one panel per level, with
//     module footprints drawn as colored cells.
//   - [ToDOT] / [DOTToSVG]: an adjacency diagram in Graphviz DOT format,
//     showing which modules touch horizontally and which stack vertically.
package render
