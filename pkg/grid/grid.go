// Package grid implements the placement engine for modular floating
// platforms: an immutable grid aggregate, the module value types, a derived
// spatial index, and the placement rule validator.
//
// # Data model
//
// A [Grid] composes a module collection (the single source of truth) with a
// derived [Index] and a stateless [Validator]. Grid and [Module] values are
// immutable: every mutating operation returns a new Grid sharing unmodified
// module entries, so values can be read concurrently without locks. Each
// Grid owns its own index, cloned and delta-updated on mutation and always
// reconstructable from the modules alone.
//
// # Error model
//
// Expected validation failures (bounds, occupancy, support, connectivity)
// are returned as structured [Result] values by the query-style checks, and
// as a [*RejectionError] by the mutating operations. Contract errors -
// unknown identities, negative coordinates, malformed records - carry typed
// codes from the errors package and indicate caller bugs.
package grid

import (
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/tbeckers/floatdeck/pkg/errors"
)

// Grid is the immutable aggregate root exposing the public placement API.
// The zero value is not usable - use [New] or [FromRecord].
type Grid struct {
	width  int // cells along x
	depth  int // cells along z
	levels int // stacking levels along y

	cellSize  Dimensions
	modules   map[string]Module
	index     *Index
	validator Validator
	newID     func() string
}

// Option configures a Grid at construction time.
type Option func(*Grid)

// WithIDSource overrides the module identity generator (default: random
// UUIDs). Tests inject deterministic sources.
func WithIDSource(fn func() string) Option {
	return func(g *Grid) { g.newID = fn }
}

// WithValidator replaces the default validator, e.g. to enable the strict
// stacking rule:
//
//	g, err := grid.New(10, 10, 3, cell, grid.WithValidator(grid.NewValidator(grid.WithStrictStacks())))
func WithValidator(v Validator) Option {
	return func(g *Grid) { g.validator = v }
}

// New creates an empty grid with the given cell dimensions.
// Returns an INVALID_DIMENSIONS error when any extent or length is not
// positive.
func New(width, depth, levels int, cellSize Dimensions, opts ...Option) (*Grid, error) {
	if width <= 0 || depth <= 0 || levels <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions,
			"grid extents must be positive, got %dx%dx%d", width, levels, depth)
	}
	if !cellSize.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidDimensions,
			"cell size must be positive, got %s", cellSize)
	}
	g := &Grid{
		width:    width,
		depth:    depth,
		levels:   levels,
		cellSize: cellSize,
		modules:  make(map[string]Module),
		index:    NewIndex(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Width returns the number of cells along x.
func (g *Grid) Width() int { return g.width }

// Depth returns the number of cells along z.
func (g *Grid) Depth() int { return g.depth }

// Levels returns the number of stacking levels.
func (g *Grid) Levels() int { return g.levels }

// CellSize returns the physical size of one cell.
func (g *Grid) CellSize() Dimensions { return g.cellSize }

// Len returns the number of placed modules.
func (g *Grid) Len() int { return len(g.modules) }

// Validator returns the grid's rule engine.
func (g *Grid) Validator() Validator { return g.validator }

// Index returns the grid's derived spatial index. Callers must treat it as
// read-only; it is owned and updated exclusively by this Grid value.
func (g *Grid) Index() *Index { return g.index }

// InBounds reports whether the cell lies inside the grid volume.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width &&
		p.Y >= 0 && p.Y < g.levels &&
		p.Z >= 0 && p.Z < g.depth
}

// outOfBounds returns the footprint cells outside the grid volume.
func (g *Grid) outOfBounds(footprint []Position) []Position {
	var out []Position
	for _, cell := range footprint {
		if !g.InBounds(cell) {
			out = append(out, cell)
		}
	}
	return out
}

// CanPlace checks whether a module would fit at pos without mutating
// anything. Interaction layers call this for live placement feedback.
func (g *Grid) CanPlace(pos Position, typ ModuleType, orient Orientation) Result {
	return g.validator.CanPlace(g, pos, typ, orient, "")
}

// CanMove checks whether the module could be relocated to pos, excluding its
// own cells from occupancy and support. Returns a MODULE_NOT_FOUND error for
// unknown identities.
func (g *Grid) CanMove(id string, pos Position) (Result, error) {
	result, ok := g.validator.CanMove(g, id, pos)
	if !ok {
		return Result{}, errors.New(errors.ErrCodeModuleNotFound, "module %q not placed on this grid", id)
	}
	return result, nil
}

// CheckConnectivity runs the opt-in per-level flood-fill check.
func (g *Grid) CheckConnectivity() Result {
	return g.validator.CheckConnectivity(g)
}

// FindNearbyValidPositions returns placement-assist candidates around target;
// see [Validator.FindNearbyValidPositions].
func (g *Grid) FindNearbyValidPositions(target Position, typ ModuleType, orient Orientation, maxRadius int) []Position {
	return g.validator.FindNearbyValidPositions(g, target, typ, orient, maxRadius)
}

// PlaceModule validates and places a new module, returning the new grid and
// the placed module. A failed validation returns a [*RejectionError]
// carrying the structured violation list; the receiver is never modified.
func (g *Grid) PlaceModule(pos Position, typ ModuleType, color Color, orient Orientation) (*Grid, Module, error) {
	if !pos.Valid() {
		return nil, Module{}, errors.New(errors.ErrCodeInvalidCoordinate,
			"placement origin %s has negative components", pos)
	}
	if result := g.validator.CanPlace(g, pos, typ, orient, ""); !result.Valid {
		return nil, Module{}, &RejectionError{Result: result}
	}

	m, err := NewModule(g.newID(), pos, typ, color, orient)
	if err != nil {
		return nil, Module{}, err
	}

	next := g.clone()
	next.modules[m.id] = m
	next.index.Insert(m.id, m.footprint)
	return next, m, nil
}

// RemoveModule returns a new grid without the module.
// Returns a MODULE_NOT_FOUND error for unknown identities.
func (g *Grid) RemoveModule(id string) (*Grid, error) {
	if _, ok := g.modules[id]; !ok {
		return nil, errors.New(errors.ErrCodeModuleNotFound, "module %q not placed on this grid", id)
	}
	next := g.clone()
	delete(next.modules, id)
	next.index.Remove(id)
	return next, nil
}

// RemoveModuleAt removes the module occupying the cell.
// Returns a MODULE_NOT_FOUND error when the cell is empty.
func (g *Grid) RemoveModuleAt(pos Position) (*Grid, error) {
	m, ok := g.ModuleAt(pos)
	if !ok {
		return nil, errors.New(errors.ErrCodeModuleNotFound, "no module at %s", pos)
	}
	return g.RemoveModule(m.id)
}

// MoveModule relocates a module, keeping its identity. Validation excludes
// the module's own cells, so shifting a module across its current footprint
// is legal. Returns MODULE_NOT_FOUND for unknown identities and a
// [*RejectionError] for invalid targets.
func (g *Grid) MoveModule(id string, pos Position) (*Grid, error) {
	m, ok := g.modules[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeModuleNotFound, "module %q not placed on this grid", id)
	}
	if result := g.validator.CanPlace(g, pos, m.typ, m.orient, id); !result.Valid {
		return nil, &RejectionError{Result: result}
	}

	moved, err := m.MoveTo(pos)
	if err != nil {
		return nil, err
	}
	next := g.clone()
	next.modules[id] = moved
	next.index.Move(id, moved.footprint)
	return next, nil
}

// RecolorModule returns a new grid with the module's deck color changed.
// Cosmetic only - no placement rules apply.
func (g *Grid) RecolorModule(id string, color Color) (*Grid, error) {
	m, ok := g.modules[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeModuleNotFound, "module %q not placed on this grid", id)
	}
	recolored, err := m.WithColor(color)
	if err != nil {
		return nil, err
	}
	next := g.clone()
	next.modules[id] = recolored
	return next, nil
}

// RotateModule returns a new grid with the module rotated in place. The
// rotated footprint is re-validated (an extended module swinging its long
// axis can collide or leave the grid).
func (g *Grid) RotateModule(id string, orient Orientation) (*Grid, error) {
	m, ok := g.modules[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeModuleNotFound, "module %q not placed on this grid", id)
	}
	if result := g.validator.CanPlace(g, m.pos, m.typ, orient, id); !result.Valid {
		return nil, &RejectionError{Result: result}
	}

	rotated, err := m.WithOrientation(orient)
	if err != nil {
		return nil, err
	}
	next := g.clone()
	next.modules[id] = rotated
	next.index.Move(id, rotated.footprint)
	return next, nil
}

// Module returns the module with the given identity.
func (g *Grid) Module(id string) (Module, bool) {
	m, ok := g.modules[id]
	return m, ok
}

// ModuleAt returns the module whose footprint covers the cell.
func (g *Grid) ModuleAt(pos Position) (Module, bool) {
	ids := g.index.cells[pos.Key()]
	if len(ids) == 0 {
		return Module{}, false
	}
	return g.modules[ids[0]], true
}

// HasModuleAt reports whether any module occupies the cell.
func (g *Grid) HasModuleAt(pos Position) bool {
	return g.index.Occupied(pos)
}

// Modules returns all modules sorted by identity for deterministic output.
func (g *Grid) Modules() []Module {
	out := make([]Module, 0, len(g.modules))
	for _, id := range slices.Sorted(maps.Keys(g.modules)) {
		out = append(out, g.modules[id])
	}
	return out
}

// ModulesAtLevel returns the modules whose footprint sits on the level,
// sorted by identity.
func (g *Grid) ModulesAtLevel(level int) []Module {
	var out []Module
	for _, m := range g.Modules() {
		if m.pos.Y == level {
			out = append(out, m)
		}
	}
	return out
}

// clone copies the grid for a copy-on-write mutation. Module values are
// immutable so the map copy is shallow; the index is deep-copied because the
// new grid must own its derived state exclusively.
func (g *Grid) clone() *Grid {
	return &Grid{
		width:     g.width,
		depth:     g.depth,
		levels:    g.levels,
		cellSize:  g.cellSize,
		modules:   maps.Clone(g.modules),
		index:     g.index.Clone(),
		validator: g.validator,
		newID:     g.newID,
	}
}
