package grid

import (
	"testing"

	"github.com/tbeckers/floatdeck/pkg/errors"
)

func TestFootprint(t *testing.T) {
	origin := Position{5, 0, 5}

	tests := []struct {
		name   string
		typ    ModuleType
		orient Orientation
		want   []Position
	}{
		{name: "CompactNorth", typ: TypeCompact, orient: OrientationNorth, want: []Position{origin}},
		{name: "CompactEast", typ: TypeCompact, orient: OrientationEast, want: []Position{origin}},
		{name: "ExtendedEast", typ: TypeExtended, orient: OrientationEast, want: []Position{origin, {6, 0, 5}}},
		{name: "ExtendedWest", typ: TypeExtended, orient: OrientationWest, want: []Position{origin, {6, 0, 5}}},
		{name: "ExtendedNorth", typ: TypeExtended, orient: OrientationNorth, want: []Position{origin, {5, 0, 6}}},
		{name: "ExtendedSouth", typ: TypeExtended, orient: OrientationSouth, want: []Position{origin, {5, 0, 6}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Footprint(tt.typ, tt.orient, origin)
			if len(got) != len(tt.want) {
				t.Fatalf("footprint has %d cells, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("cell %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if len(got) != tt.typ.CellCount() {
				t.Errorf("CellCount() = %d, footprint has %d", tt.typ.CellCount(), len(got))
			}
		})
	}
}

func TestNewModuleContractErrors(t *testing.T) {
	valid := Position{1, 0, 1}

	tests := []struct {
		name     string
		id       string
		pos      Position
		typ      ModuleType
		color    Color
		orient   Orientation
		wantCode errors.Code
	}{
		{name: "EmptyID", id: "", pos: valid, wantCode: errors.ErrCodeInvalidInput},
		{name: "NegativeOrigin", id: "m1", pos: Position{1, -1, 1}, wantCode: errors.ErrCodeInvalidCoordinate},
		{name: "UnknownType", id: "m1", pos: valid, typ: ModuleType(9), wantCode: errors.ErrCodeInvalidType},
		{name: "UnknownOrientation", id: "m1", pos: valid, orient: Orientation(7), wantCode: errors.ErrCodeInvalidOrientation},
		{name: "UnknownColor", id: "m1", pos: valid, color: Color(42), wantCode: errors.ErrCodeInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModule(tt.id, tt.pos, tt.typ, tt.color, tt.orient)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error code = %q, want %q (err: %v)", errors.GetCode(err), tt.wantCode, err)
			}
		})
	}
}

func TestModuleTransformsKeepIdentity(t *testing.T) {
	m, err := NewModule("m1", Position{2, 0, 2}, TypeExtended, ColorAzure, OrientationEast)
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}

	moved, err := m.MoveTo(Position{4, 1, 4})
	if err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	if moved.ID() != m.ID() {
		t.Errorf("MoveTo changed identity: %q -> %q", m.ID(), moved.ID())
	}
	if moved.Position() != (Position{4, 1, 4}) {
		t.Errorf("moved position = %v", moved.Position())
	}
	if !moved.OccupiesPosition(Position{5, 1, 4}) {
		t.Error("moved footprint should cover (5,1,4)")
	}
	// Original is untouched.
	if m.Position() != (Position{2, 0, 2}) {
		t.Errorf("original mutated: %v", m.Position())
	}

	recolored, err := m.WithColor(ColorCoral)
	if err != nil {
		t.Fatalf("WithColor: %v", err)
	}
	if recolored.ID() != m.ID() || recolored.Color() != ColorCoral {
		t.Errorf("recolored = %q/%v", recolored.ID(), recolored.Color())
	}
	if m.Color() != ColorAzure {
		t.Error("original color mutated")
	}

	rotated, err := m.WithOrientation(OrientationNorth)
	if err != nil {
		t.Fatalf("WithOrientation: %v", err)
	}
	if rotated.ID() != m.ID() {
		t.Error("WithOrientation changed identity")
	}
	if !rotated.OccupiesPosition(Position{2, 0, 3}) {
		t.Error("rotated footprint should extend along z")
	}
	if rotated.OccupiesPosition(Position{3, 0, 2}) {
		t.Error("rotated footprint should no longer extend along x")
	}
}

func TestModulePhysicalSize(t *testing.T) {
	cell := Dimensions{Width: 500, Height: 300, Depth: 500}

	compact, _ := NewModule("c", Position{0, 0, 0}, TypeCompact, ColorSlate, OrientationNorth)
	if got := compact.PhysicalSize(cell); got != cell {
		t.Errorf("compact size = %v, want %v", got, cell)
	}

	alongX, _ := NewModule("x", Position{0, 0, 0}, TypeExtended, ColorSlate, OrientationEast)
	if got := alongX.PhysicalSize(cell); got != (Dimensions{Width: 1000, Height: 300, Depth: 500}) {
		t.Errorf("extended-x size = %v", got)
	}

	alongZ, _ := NewModule("z", Position{0, 0, 0}, TypeExtended, ColorSlate, OrientationSouth)
	if got := alongZ.PhysicalSize(cell); got != (Dimensions{Width: 500, Height: 300, Depth: 1000}) {
		t.Errorf("extended-z size = %v", got)
	}
}

func TestParseEnums(t *testing.T) {
	if typ, err := ParseModuleType("extended"); err != nil || typ != TypeExtended {
		t.Errorf("ParseModuleType(extended) = %v, %v", typ, err)
	}
	if _, err := ParseModuleType("pontoon"); !errors.Is(err, errors.ErrCodeInvalidType) {
		t.Errorf("ParseModuleType(pontoon) error = %v", err)
	}

	if o, err := ParseOrientation("west"); err != nil || o != OrientationWest {
		t.Errorf("ParseOrientation(west) = %v, %v", o, err)
	}
	if _, err := ParseOrientation("up"); !errors.Is(err, errors.ErrCodeInvalidOrientation) {
		t.Errorf("ParseOrientation(up) error = %v", err)
	}

	if c, err := ParseColor("moss"); err != nil || c != ColorMoss {
		t.Errorf("ParseColor(moss) = %v, %v", c, err)
	}
	if _, err := ParseColor("plaid"); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("ParseColor(plaid) error = %v", err)
	}

	// Wire names survive a String/Parse round trip for the whole palette.
	for _, c := range Colors() {
		back, err := ParseColor(c.String())
		if err != nil || back != c {
			t.Errorf("color %v round trip = %v, %v", c, back, err)
		}
	}
}

func TestOrientationRotated(t *testing.T) {
	o := OrientationNorth
	seen := map[Orientation]bool{}
	for i := 0; i < 4; i++ {
		seen[o] = true
		o = o.Rotated()
	}
	if len(seen) != 4 || o != OrientationNorth {
		t.Errorf("Rotated cycle visited %d orientations, back at %v", len(seen), o)
	}
}
