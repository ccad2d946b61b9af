package grid

import (
	stderrors "errors"
	"fmt"
	"slices"
	"testing"

	"github.com/tbeckers/floatdeck/pkg/errors"
)

// testCell is the physical cell size used across the package tests,
// mirroring the 500-unit pontoon pitch of the reference layouts.
var testCell = Dimensions{Width: 500, Height: 300, Depth: 500}

// newTestGrid creates a grid with a deterministic sequential ID source.
func newTestGrid(t *testing.T, width, depth, levels int, opts ...Option) *Grid {
	t.Helper()
	n := 0
	opts = append(opts, WithIDSource(func() string {
		n++
		return fmt.Sprintf("m%03d", n)
	}))
	g, err := New(width, depth, levels, testCell, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestNewRejectsBadExtents(t *testing.T) {
	tests := []struct {
		name                 string
		width, depth, levels int
		cell                 Dimensions
	}{
		{name: "ZeroWidth", width: 0, depth: 10, levels: 3, cell: testCell},
		{name: "NegativeDepth", width: 10, depth: -1, levels: 3, cell: testCell},
		{name: "ZeroLevels", width: 10, depth: 10, levels: 0, cell: testCell},
		{name: "BadCellSize", width: 10, depth: 10, levels: 3, cell: Dimensions{Width: -500, Height: 300, Depth: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.width, tt.depth, tt.levels, tt.cell)
			if !errors.Is(err, errors.ErrCodeInvalidDimensions) {
				t.Errorf("error code = %q, want INVALID_DIMENSIONS", errors.GetCode(err))
			}
		})
	}
}

func TestPlaceThenQuery(t *testing.T) {
	g := newTestGrid(t, 10, 10, 3)
	g, placed := mustPlace(t, g, Position{2, 0, 2}, TypeCompact, ColorAzure, OrientationEast)

	got, ok := g.ModuleAt(Position{2, 0, 2})
	if !ok {
		t.Fatal("ModuleAt found nothing")
	}
	if got.ID() != placed.ID() || got.Type() != TypeCompact ||
		got.Color() != ColorAzure || got.Orientation() != OrientationEast {
		t.Errorf("ModuleAt = %+v, want the placed module", got)
	}
	if !g.HasModuleAt(Position{2, 0, 2}) {
		t.Error("HasModuleAt = false")
	}
	if g.HasModuleAt(Position{3, 0, 3}) {
		t.Error("empty cell reported occupied")
	}
}

func TestPlaceRejectedCarriesViolations(t *testing.T) {
	g := newTestGrid(t, 10, 10, 3)
	g, _ = mustPlace(t, g, Position{2, 0, 2}, TypeCompact, ColorSlate, OrientationNorth)

	_, _, err := g.PlaceModule(Position{2, 0, 2}, TypeCompact, ColorSand, OrientationNorth)
	if err == nil {
		t.Fatal("expected rejection")
	}
	var rej *RejectionError
	if !stderrors.As(err, &rej) {
		t.Fatalf("error type = %T, want *RejectionError", err)
	}
	if rej.Result.Valid {
		t.Error("rejection carries a valid result")
	}
	if !rej.Result.Has(RuleOccupancy) {
		t.Errorf("violations = %v", rej.Result.Violations)
	}
	if g.Len() != 1 {
		t.Errorf("grid mutated on rejection, Len = %d", g.Len())
	}
}

func TestOperationsAreCopyOnWrite(t *testing.T) {
	g0 := newTestGrid(t, 10, 10, 3)
	g1, m := mustPlace(t, g0, Position{1, 0, 1}, TypeCompact, ColorSlate, OrientationNorth)

	if g0.Len() != 0 {
		t.Errorf("placement mutated the original grid, Len = %d", g0.Len())
	}
	if g0.HasModuleAt(Position{1, 0, 1}) {
		t.Error("original grid's index sees the new module")
	}

	g2, err := g1.MoveModule(m.ID(), Position{2, 0, 2})
	if err != nil {
		t.Fatalf("MoveModule: %v", err)
	}
	if got, _ := g1.Module(m.ID()); got.Position() != (Position{1, 0, 1}) {
		t.Errorf("move mutated the parent grid: %v", got.Position())
	}
	if got, _ := g2.Module(m.ID()); got.Position() != (Position{2, 0, 2}) {
		t.Errorf("moved grid position = %v", got.Position())
	}

	g3, err := g2.RecolorModule(m.ID(), ColorCoral)
	if err != nil {
		t.Fatalf("RecolorModule: %v", err)
	}
	if got, _ := g2.Module(m.ID()); got.Color() != ColorSlate {
		t.Error("recolor mutated the parent grid")
	}
	if got, _ := g3.Module(m.ID()); got.Color() != ColorCoral {
		t.Error("recolor lost on the new grid")
	}
}

func TestRemoveModuleAt(t *testing.T) {
	g := newTestGrid(t, 10, 10, 3)
	g, _ = mustPlace(t, g, Position{5, 0, 5}, TypeExtended, ColorSand, OrientationEast)

	// Removing by the second footprint cell removes the whole module.
	g, err := g.RemoveModuleAt(Position{6, 0, 5})
	if err != nil {
		t.Fatalf("RemoveModuleAt: %v", err)
	}
	if g.Len() != 0 {
		t.Errorf("Len = %d after removal", g.Len())
	}
	if g.HasModuleAt(Position{5, 0, 5}) || g.HasModuleAt(Position{6, 0, 5}) {
		t.Error("footprint cells still occupied")
	}

	if _, err := g.RemoveModuleAt(Position{5, 0, 5}); !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("empty-cell removal error = %v", err)
	}
}

func TestRemoveFreesFootprintForReuse(t *testing.T) {
	g := newTestGrid(t, 10, 10, 3)
	g, ext := mustPlace(t, g, Position{5, 0, 5}, TypeExtended, ColorSand, OrientationEast)

	g, err := g.RemoveModule(ext.ID())
	if err != nil {
		t.Fatalf("RemoveModule: %v", err)
	}
	// A same-shaped placement on the exact footprint succeeds immediately.
	g, again := mustPlace(t, g, Position{5, 0, 5}, TypeExtended, ColorSand, OrientationEast)
	if again.ID() == ext.ID() {
		t.Error("new placement reused the removed identity")
	}
	if !g.HasModuleAt(Position{6, 0, 5}) {
		t.Error("reused footprint incomplete")
	}
}

func TestRotateModuleRevalidates(t *testing.T) {
	g := newTestGrid(t, 10, 10, 3)
	g, ext := mustPlace(t, g, Position{5, 0, 5}, TypeExtended, ColorMoss, OrientationEast)
	g, _ = mustPlace(t, g, Position{5, 0, 6}, TypeCompact, ColorSlate, OrientationNorth)

	// Swinging the long axis onto (5,0,6) collides with the compact module.
	if _, err := g.RotateModule(ext.ID(), OrientationNorth); err == nil {
		t.Fatal("colliding rotation accepted")
	}

	// Rotating to the opposite orientation keeps the footprint: always fine.
	g, err := g.RotateModule(ext.ID(), OrientationWest)
	if err != nil {
		t.Fatalf("RotateModule: %v", err)
	}
	got, _ := g.Module(ext.ID())
	if got.Orientation() != OrientationWest {
		t.Errorf("orientation = %v", got.Orientation())
	}
	if !got.OccupiesPosition(Position{6, 0, 5}) {
		t.Errorf("footprint changed: %v", got.Footprint())
	}
}

func TestUnknownIdentityIsContractError(t *testing.T) {
	g := newTestGrid(t, 10, 10, 3)

	if _, err := g.RemoveModule("ghost"); !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("RemoveModule error = %v", err)
	}
	if _, err := g.MoveModule("ghost", Position{0, 0, 0}); !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("MoveModule error = %v", err)
	}
	if _, err := g.RecolorModule("ghost", ColorSand); !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("RecolorModule error = %v", err)
	}
	if _, err := g.RotateModule("ghost", OrientationEast); !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("RotateModule error = %v", err)
	}
}

func TestModulesAtLevel(t *testing.T) {
	g := newTestGrid(t, 10, 10, 3)
	g, _ = mustPlace(t, g, Position{0, 0, 0}, TypeCompact, ColorSlate, OrientationNorth)
	g, _ = mustPlace(t, g, Position{1, 0, 0}, TypeCompact, ColorSlate, OrientationNorth)
	g, upper := mustPlace(t, g, Position{0, 1, 0}, TypeCompact, ColorAzure, OrientationNorth)

	if got := g.ModulesAtLevel(0); len(got) != 2 {
		t.Errorf("level 0 modules = %d, want 2", len(got))
	}
	level1 := g.ModulesAtLevel(1)
	if len(level1) != 1 || level1[0].ID() != upper.ID() {
		t.Errorf("level 1 modules = %v", level1)
	}
	if got := g.ModulesAtLevel(2); len(got) != 0 {
		t.Errorf("level 2 modules = %d, want 0", len(got))
	}
}

func TestStatistics(t *testing.T) {
	g := newTestGrid(t, 10, 10, 3)
	g, _ = mustPlace(t, g, Position{0, 0, 0}, TypeCompact, ColorSlate, OrientationNorth)
	g, _ = mustPlace(t, g, Position{1, 0, 0}, TypeExtended, ColorAzure, OrientationEast)
	g, _ = mustPlace(t, g, Position{0, 1, 0}, TypeCompact, ColorAzure, OrientationNorth)

	stats := g.Statistics()
	if stats.Modules != 3 {
		t.Errorf("Modules = %d", stats.Modules)
	}
	if stats.OccupiedCells != 4 {
		t.Errorf("OccupiedCells = %d, want 4", stats.OccupiedCells)
	}
	if stats.TotalCells != 300 {
		t.Errorf("TotalCells = %d", stats.TotalCells)
	}
	if stats.Utilization != 4.0/300.0 {
		t.Errorf("Utilization = %g", stats.Utilization)
	}
	if stats.ByLevel[0] != 2 || stats.ByLevel[1] != 1 || stats.ByLevel[2] != 0 {
		t.Errorf("ByLevel = %v", stats.ByLevel)
	}
	if stats.ByType["compact"] != 2 || stats.ByType["extended"] != 1 {
		t.Errorf("ByType = %v", stats.ByType)
	}
	if stats.ByColor["azure"] != 2 || stats.ByColor["slate"] != 1 {
		t.Errorf("ByColor = %v", stats.ByColor)
	}
}

func TestModulesSortedByID(t *testing.T) {
	g := newTestGrid(t, 10, 10, 3)
	for x := 0; x < 5; x++ {
		g, _ = mustPlace(t, g, Position{x, 0, 0}, TypeCompact, ColorSlate, OrientationNorth)
	}
	ids := make([]string, 0, 5)
	for _, m := range g.Modules() {
		ids = append(ids, m.ID())
	}
	if !slices.IsSorted(ids) {
		t.Errorf("Modules() order = %v", ids)
	}
}
