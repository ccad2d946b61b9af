package grid

import (
	"math/rand"
	"slices"
	"testing"
)

func TestIndexInsertQueryRemove(t *testing.T) {
	idx := NewIndex()
	idx.Insert("a", []Position{{5, 0, 5}, {6, 0, 5}})
	idx.Insert("b", []Position{{6, 0, 6}})

	if !idx.Occupied(Position{6, 0, 5}) {
		t.Error("(6,0,5) should be occupied")
	}
	if got := idx.IDsAt(Position{6, 0, 6}); !slices.Equal(got, []string{"b"}) {
		t.Errorf("IDsAt = %v", got)
	}

	// Region query deduplicates across cells and honors exclusion.
	region := []Position{{5, 0, 5}, {6, 0, 5}, {6, 0, 6}, {7, 0, 7}}
	if got := idx.Query(region, ""); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Query = %v, want [a b]", got)
	}
	if got := idx.Query(region, "a"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Query excluding a = %v, want [b]", got)
	}

	idx.Remove("a")
	if idx.Occupied(Position{5, 0, 5}) || idx.Occupied(Position{6, 0, 5}) {
		t.Error("removed cells still occupied")
	}
	if idx.Contains("a") {
		t.Error("index still contains a")
	}
	idx.Remove("a") // unknown ID is a no-op
	if idx.Len() != 1 {
		t.Errorf("Len = %d, want 1", idx.Len())
	}
}

func TestIndexMoveIsAtomic(t *testing.T) {
	idx := NewIndex()
	idx.Insert("a", []Position{{1, 0, 1}})

	// Move onto a partially overlapping footprint.
	idx.Move("a", []Position{{1, 0, 1}, {2, 0, 1}})
	if got := idx.IDsAt(Position{1, 0, 1}); !slices.Equal(got, []string{"a"}) {
		t.Errorf("IDsAt(1,0,1) = %v, want single [a]", got)
	}
	if !idx.Occupied(Position{2, 0, 1}) {
		t.Error("(2,0,1) should be occupied after move")
	}

	idx.Move("a", []Position{{8, 0, 8}})
	if idx.Occupied(Position{1, 0, 1}) || idx.Occupied(Position{2, 0, 1}) {
		t.Error("old cells should be vacated")
	}
}

func TestIndexQueryLevel(t *testing.T) {
	idx := NewIndex()
	idx.Insert("low", []Position{{2, 0, 2}})
	idx.Insert("high", []Position{{2, 1, 2}})

	region := []Position{{2, 0, 2}, {2, 1, 2}}
	if got := idx.QueryLevel(region, 0, ""); !slices.Equal(got, []string{"low"}) {
		t.Errorf("QueryLevel(0) = %v", got)
	}
	if got := idx.QueryLevel(region, 1, ""); !slices.Equal(got, []string{"high"}) {
		t.Errorf("QueryLevel(1) = %v", got)
	}
}

func TestIndexHasSupport(t *testing.T) {
	idx := NewIndex()
	idx.Insert("base", []Position{{2, 0, 2}})

	tests := []struct {
		name            string
		cells           []Position
		want            bool
		wantUnsupported []Position
	}{
		{name: "LevelZeroAlwaysSupported", cells: []Position{{7, 0, 7}}, want: true},
		{name: "SupportedAboveBase", cells: []Position{{2, 1, 2}}, want: true},
		{name: "UnsupportedAboveWater", cells: []Position{{3, 1, 3}}, want: false, wantUnsupported: []Position{{3, 1, 3}}},
		{
			name:            "PartialSupportListsOnlyMissing",
			cells:           []Position{{2, 1, 2}, {3, 1, 2}},
			want:            false,
			wantUnsupported: []Position{{3, 1, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, unsupported := idx.HasSupport(tt.cells)
			if ok != tt.want {
				t.Errorf("HasSupport = %v, want %v", ok, tt.want)
			}
			if !slices.Equal(unsupported, tt.wantUnsupported) {
				t.Errorf("unsupported = %v, want %v", unsupported, tt.wantUnsupported)
			}
		})
	}
}

func TestIndexClone(t *testing.T) {
	idx := NewIndex()
	idx.Insert("a", []Position{{1, 0, 1}})

	clone := idx.Clone()
	clone.Insert("b", []Position{{2, 0, 2}})
	clone.Remove("a")

	if !idx.Contains("a") || idx.Contains("b") {
		t.Error("mutating the clone leaked into the original")
	}
	if !clone.Contains("b") || clone.Contains("a") {
		t.Error("clone did not apply its own mutations")
	}
}

// TestIndexConsistencyRandomized drives the grid through random placements,
// moves and removals, then verifies the index is exactly the derived view of
// the module collection: every entry maps to a module whose footprint covers
// that cell, every footprint cell is indexed, and a fresh rebuild matches.
func TestIndexConsistencyRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := newTestGrid(t, 8, 8, 3)

	for i := 0; i < 300; i++ {
		x, z := rng.Intn(8), rng.Intn(8)
		level := rng.Intn(3)
		switch rng.Intn(3) {
		case 0:
			typ := TypeCompact
			if rng.Intn(2) == 0 {
				typ = TypeExtended
			}
			next, _, err := g.PlaceModule(Position{x, level, z}, typ, ColorSlate, Orientation(rng.Intn(4)))
			if err == nil {
				g = next
			}
		case 1:
			if mods := g.Modules(); len(mods) > 0 {
				next, err := g.MoveModule(mods[rng.Intn(len(mods))].ID(), Position{x, level, z})
				if err == nil {
					g = next
				}
			}
		case 2:
			if mods := g.Modules(); len(mods) > 0 {
				next, err := g.RemoveModule(mods[rng.Intn(len(mods))].ID())
				if err == nil {
					g = next
				}
			}
		}
	}

	idx := g.Index()
	for _, id := range idx.IDs() {
		m, ok := g.Module(id)
		if !ok {
			t.Fatalf("index entry %q has no module", id)
		}
		for _, cell := range idx.Cells(id) {
			if !m.OccupiesPosition(cell) {
				t.Errorf("index maps %q to %v but footprint is %v", id, cell, m.Footprint())
			}
		}
	}
	for _, m := range g.Modules() {
		for _, cell := range m.Footprint() {
			if !slices.Contains(idx.IDsAt(cell), m.ID()) {
				t.Errorf("footprint cell %v of %q missing from index", cell, m.ID())
			}
		}
	}

	rebuilt := IndexFromModules(g.modules)
	if rebuilt.Len() != idx.Len() || rebuilt.CellCount() != idx.CellCount() {
		t.Errorf("rebuild differs: %d/%d entries, %d/%d cells",
			rebuilt.Len(), idx.Len(), rebuilt.CellCount(), idx.CellCount())
	}
	for _, id := range idx.IDs() {
		a := idx.Cells(id)
		b := rebuilt.Cells(id)
		slices.SortFunc(a, comparePositions)
		slices.SortFunc(b, comparePositions)
		if !slices.Equal(a, b) {
			t.Errorf("rebuild cells for %q differ: %v vs %v", id, a, b)
		}
	}
}

func comparePositions(a, b Position) int {
	if a.X != b.X {
		return a.X - b.X
	}
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.Z - b.Z
}
