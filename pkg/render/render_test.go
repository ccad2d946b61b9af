package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tbeckers/floatdeck/pkg/grid"
)

func buildGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(6, 6, 2, grid.Dimensions{Width: 500, Height: 300, Depth: 500},
		grid.WithIDSource(sequentialIDs()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	place := func(pos grid.Position, typ grid.ModuleType, color grid.Color, orient grid.Orientation) {
		next, _, err := g.PlaceModule(pos, typ, color, orient)
		if err != nil {
			t.Fatalf("PlaceModule(%v): %v", pos, err)
		}
		g = next
	}
	place(grid.Position{X: 1, Y: 0, Z: 1}, grid.TypeCompact, grid.ColorAzure, grid.OrientationNorth)
	place(grid.Position{X: 2, Y: 0, Z: 1}, grid.TypeExtended, grid.ColorCoral, grid.OrientationEast)
	place(grid.Position{X: 1, Y: 1, Z: 1}, grid.TypeCompact, grid.ColorMoss, grid.OrientationNorth)
	return g
}

func sequentialIDs() func() string {
	n := 0
	names := []string{"alpha", "bravo", "charlie", "delta"}
	return func() string {
		id := names[n%len(names)]
		n++
		return id
	}
}

func TestRenderSVG(t *testing.T) {
	g := buildGrid(t)
	svg := RenderSVG(g, WithLabels(), WithGridLines())

	out := string(svg)
	if !strings.HasPrefix(out, "<svg xmlns=") || !strings.HasSuffix(out, "</svg>\n") {
		t.Fatalf("not a complete SVG document:\n%.120s", out)
	}
	for _, want := range []string{
		"level 0", "level 1",
		`id="cell-alpha-1-1"`,
		`id="cell-bravo-2-1"`, `id="cell-bravo-3-1"`, // extended spans two cells
		`id="cell-charlie-1-1"`,
		">alpha</text>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if got := strings.Count(out, "<rect"); got != 2+4 { // 2 water panels + 4 cells
		t.Errorf("rect count = %d, want 6", got)
	}
}

func TestRenderSVGSingleLevel(t *testing.T) {
	g := buildGrid(t)
	out := string(RenderSVG(g, WithLevel(1)))

	if strings.Contains(out, "level 0") {
		t.Error("level 0 panel rendered despite WithLevel(1)")
	}
	if !strings.Contains(out, "cell-charlie-1-1") {
		t.Error("level 1 module missing")
	}
	if strings.Contains(out, "cell-alpha") {
		t.Error("level 0 module leaked into level 1 panel")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	g := buildGrid(t)
	a := RenderSVG(g, WithLabels())
	b := RenderSVG(g, WithLabels())
	if !bytes.Equal(a, b) {
		t.Error("repeated renders differ")
	}
}

func TestToDOT(t *testing.T) {
	g := buildGrid(t)
	dot := ToDOT(g, DOTOptions{})

	if !strings.HasPrefix(dot, "graph platform {") {
		t.Fatalf("unexpected header:\n%.80s", dot)
	}
	for _, want := range []string{
		`"alpha" [label="alpha"`,
		`"bravo"`,
		`"alpha" -- "bravo";`,              // horizontal adjacency
		`"alpha" -- "charlie" [style=dashed];`, // stacking support
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	// bravo and charlie share no face: different levels, no overlap below.
	if strings.Contains(dot, `"bravo" -- "charlie"`) {
		t.Error("spurious edge between bravo and charlie")
	}
}

func TestToDOTDetailed(t *testing.T) {
	g := buildGrid(t)
	dot := ToDOT(g, DOTOptions{Detailed: true})
	if !strings.Contains(dot, "azure compact") {
		t.Errorf("detailed label missing type info:\n%s", dot)
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"alpha", "alpha"},
		{"550e8400-e29b-41d4-a716-446655440000", "550e8400"},
		{"averylongplainname", "averylon"},
	}
	for _, tt := range tests {
		if got := shortID(tt.in); got != tt.want {
			t.Errorf("shortID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
