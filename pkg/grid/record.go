package grid

import (
	"github.com/tbeckers/floatdeck/pkg/errors"
)

// Record is the lossless plain-data form of a grid - the only wire/file
// format the core defines. Transport (files, HTTP bodies, store backends)
// lives outside this package.
type Record struct {
	Dimensions RecordDimensions `json:"dimensions" bson:"dimensions"`
	CellSize   Dimensions       `json:"cellSize" bson:"cellSize"`
	Modules    []ModuleRecord   `json:"modules" bson:"modules"`
}

// RecordDimensions holds the grid extents in cells.
type RecordDimensions struct {
	Width  int `json:"width" bson:"width"`
	Depth  int `json:"depth" bson:"depth"`
	Levels int `json:"levels" bson:"levels"`
}

// ModuleRecord is the plain-data form of one placed module.
type ModuleRecord struct {
	ID          string   `json:"id" bson:"id"`
	Position    Position `json:"position" bson:"position"`
	Type        string   `json:"type" bson:"type"`
	Color       string   `json:"color" bson:"color"`
	Orientation string   `json:"orientation" bson:"orientation"`
}

// ToRecord converts the grid to its plain-data form. Modules are sorted by
// identity so repeated exports of equal grids are byte-identical.
func (g *Grid) ToRecord() Record {
	rec := Record{
		Dimensions: RecordDimensions{Width: g.width, Depth: g.depth, Levels: g.levels},
		CellSize:   g.cellSize,
		Modules:    make([]ModuleRecord, 0, len(g.modules)),
	}
	for _, m := range g.Modules() {
		rec.Modules = append(rec.Modules, ModuleRecord{
			ID:          m.id,
			Position:    m.pos,
			Type:        m.typ.String(),
			Color:       m.color.String(),
			Orientation: m.orient.String(),
		})
	}
	return rec
}

// FromRecord reconstructs a grid from its plain-data form. The module
// collection is the only truth in the record: the spatial index is rebuilt
// by re-inserting every module. Malformed records - unknown enum names,
// duplicate identities, out-of-bounds or overlapping footprints - are
// contract errors with an INVALID_RECORD code, since records are produced
// by ToRecord and never hand-edited by users.
func FromRecord(rec Record, opts ...Option) (*Grid, error) {
	g, err := New(rec.Dimensions.Width, rec.Dimensions.Depth, rec.Dimensions.Levels, rec.CellSize, opts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "bad grid dimensions")
	}

	for _, mr := range rec.Modules {
		typ, err := ParseModuleType(mr.Type)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "module %q", mr.ID)
		}
		color, err := ParseColor(mr.Color)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "module %q", mr.ID)
		}
		orient, err := ParseOrientation(mr.Orientation)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "module %q", mr.ID)
		}

		m, err := NewModule(mr.ID, mr.Position, typ, color, orient)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "module %q", mr.ID)
		}
		if _, dup := g.modules[m.id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidRecord, "duplicate module ID %q", m.id)
		}
		if out := g.outOfBounds(m.footprint); len(out) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidRecord,
				"module %q footprint %v outside the grid", m.id, out)
		}
		if overlapping := g.index.Query(m.footprint, ""); len(overlapping) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidRecord,
				"module %q overlaps %v", m.id, overlapping)
		}

		g.modules[m.id] = m
		g.index.Insert(m.id, m.footprint)
	}
	return g, nil
}

// Equal reports whether two grids are value-equal: same extents, cell size,
// and module collections. Index state is derived and therefore not compared.
func (g *Grid) Equal(other *Grid) bool {
	if g.width != other.width || g.depth != other.depth || g.levels != other.levels {
		return false
	}
	if g.cellSize != other.cellSize {
		return false
	}
	if len(g.modules) != len(other.modules) {
		return false
	}
	for id, m := range g.modules {
		om, ok := other.modules[id]
		if !ok {
			return false
		}
		if m.pos != om.pos || m.typ != om.typ || m.orient != om.orient || m.color != om.color {
			return false
		}
	}
	return true
}
