package grid

import (
	"slices"

	"github.com/tbeckers/floatdeck/pkg/errors"
)

// ModuleType is the closed set of placeable unit shapes.
// Footprint and bounds logic switches over this tag exhaustively, so new
// shapes require touching every switch rather than silently falling through.
type ModuleType int

const (
	// TypeCompact occupies a single 1x1 footprint cell.
	TypeCompact ModuleType = iota
	// TypeExtended occupies a 2x1 footprint; the long axis follows the
	// module's orientation.
	TypeExtended
)

// moduleTypeNames maps types to their wire names.
var moduleTypeNames = map[ModuleType]string{
	TypeCompact:  "compact",
	TypeExtended: "extended",
}

// String returns the wire name ("compact", "extended").
func (t ModuleType) String() string {
	if s, ok := moduleTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// CellCount returns the number of footprint cells for the type.
func (t ModuleType) CellCount() int {
	switch t {
	case TypeExtended:
		return 2
	default:
		return 1
	}
}

// ParseModuleType parses a wire name into a ModuleType.
// Returns an INVALID_TYPE error for unknown names.
func ParseModuleType(s string) (ModuleType, error) {
	for t, name := range moduleTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidType, "unknown module type %q", s)
}

// Orientation is one of the four right-angle rotations of a module.
type Orientation int

const (
	OrientationNorth Orientation = iota
	OrientationEast
	OrientationSouth
	OrientationWest
)

// orientationNames maps orientations to their wire names.
var orientationNames = map[Orientation]string{
	OrientationNorth: "north",
	OrientationEast:  "east",
	OrientationSouth: "south",
	OrientationWest:  "west",
}

// String returns the wire name ("north", "east", "south", "west").
func (o Orientation) String() string {
	if s, ok := orientationNames[o]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether the orientation is one of the four rotations.
func (o Orientation) Valid() bool {
	_, ok := orientationNames[o]
	return ok
}

// AlongX reports whether an extended module's long axis runs along X.
// East/west orientations extend along X, north/south along Z. Opposite
// orientations share a footprint and differ only cosmetically.
func (o Orientation) AlongX() bool {
	return o == OrientationEast || o == OrientationWest
}

// Rotated returns the orientation turned clockwise by one step.
func (o Orientation) Rotated() Orientation {
	return (o + 1) % 4
}

// ParseOrientation parses a wire name into an Orientation.
// Returns an INVALID_ORIENTATION error for unknown names.
func ParseOrientation(s string) (Orientation, error) {
	for o, name := range orientationNames {
		if name == s {
			return o, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidOrientation, "unknown orientation %q", s)
}

// Color is the closed cosmetic palette for module decks.
type Color int

const (
	ColorSlate Color = iota
	ColorAzure
	ColorSand
	ColorMoss
	ColorCoral
)

// colorNames maps palette entries to their wire names.
var colorNames = map[Color]string{
	ColorSlate: "slate",
	ColorAzure: "azure",
	ColorSand:  "sand",
	ColorMoss:  "moss",
	ColorCoral: "coral",
}

// String returns the wire name of the color.
func (c Color) String() string {
	if s, ok := colorNames[c]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether the color is part of the palette.
func (c Color) Valid() bool {
	_, ok := colorNames[c]
	return ok
}

// Next returns the following palette entry, wrapping around.
func (c Color) Next() Color {
	return (c + 1) % Color(len(colorNames))
}

// ParseColor parses a wire name into a Color.
// Returns an INVALID_COLOR error for unknown names.
func ParseColor(s string) (Color, error) {
	for c, name := range colorNames {
		if name == s {
			return c, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidColor, "unknown color %q", s)
}

// Colors returns the palette in declaration order.
func Colors() []Color {
	return []Color{ColorSlate, ColorAzure, ColorSand, ColorMoss, ColorCoral}
}

// Module is an immutable placed unit. It is created only through a
// successful [Grid.PlaceModule]; every transform returns a new value with
// the same identity. Modules perform no validation themselves - rule
// checking is the validator's job.
type Module struct {
	id        string
	pos       Position
	typ       ModuleType
	orient    Orientation
	color     Color
	footprint []Position
}

// NewModule constructs a module and derives its footprint.
// Returns a contract error for an empty ID, an invalid origin, or an
// orientation/type/color outside its closed set.
func NewModule(id string, pos Position, typ ModuleType, color Color, orient Orientation) (Module, error) {
	if id == "" {
		return Module{}, errors.New(errors.ErrCodeInvalidInput, "module ID must not be empty")
	}
	if !pos.Valid() {
		return Module{}, errors.New(errors.ErrCodeInvalidCoordinate,
			"module origin %s has negative components", pos)
	}
	if _, ok := moduleTypeNames[typ]; !ok {
		return Module{}, errors.New(errors.ErrCodeInvalidType, "unknown module type %d", int(typ))
	}
	if !orient.Valid() {
		return Module{}, errors.New(errors.ErrCodeInvalidOrientation, "unknown orientation %d", int(orient))
	}
	if !color.Valid() {
		return Module{}, errors.New(errors.ErrCodeInvalidColor, "unknown color %d", int(color))
	}
	return Module{
		id:        id,
		pos:       pos,
		typ:       typ,
		orient:    orient,
		color:     color,
		footprint: Footprint(typ, orient, pos),
	}, nil
}

// Footprint derives the cells occupied by a module of the given type and
// orientation placed at origin. Deterministic and allocation-minimal:
// compact modules occupy their origin, extended modules add one cell along
// the orientation's long axis.
func Footprint(typ ModuleType, orient Orientation, origin Position) []Position {
	switch typ {
	case TypeExtended:
		if orient.AlongX() {
			return []Position{origin, origin.Offset(1, 0, 0)}
		}
		return []Position{origin, origin.Offset(0, 0, 1)}
	default:
		return []Position{origin}
	}
}

// ID returns the module's unique identity.
func (m Module) ID() string { return m.id }

// Position returns the module's origin cell.
func (m Module) Position() Position { return m.pos }

// Type returns the module's shape variant.
func (m Module) Type() ModuleType { return m.typ }

// Orientation returns the module's rotation.
func (m Module) Orientation() Orientation { return m.orient }

// Color returns the module's cosmetic color.
func (m Module) Color() Color { return m.color }

// Level returns the vertical level of the module's origin.
func (m Module) Level() int { return m.pos.Y }

// Footprint returns a copy of the cells the module occupies.
func (m Module) Footprint() []Position {
	return slices.Clone(m.footprint)
}

// OccupiesPosition reports whether p is one of the module's footprint cells.
func (m Module) OccupiesPosition(p Position) bool {
	return slices.Contains(m.footprint, p)
}

// PhysicalSize returns the module's real-world extent given the cell pitch.
// Extended modules double the pitch along their long axis.
func (m Module) PhysicalSize(cell Dimensions) Dimensions {
	size := cell
	if m.typ == TypeExtended {
		if m.orient.AlongX() {
			size.Width *= 2
		} else {
			size.Depth *= 2
		}
	}
	return size
}

// MoveTo returns a copy of the module at a new origin, same identity.
// Returns an INVALID_COORDINATE error if the origin has negative components.
func (m Module) MoveTo(pos Position) (Module, error) {
	if !pos.Valid() {
		return Module{}, errors.New(errors.ErrCodeInvalidCoordinate,
			"module origin %s has negative components", pos)
	}
	next := m
	next.pos = pos
	next.footprint = Footprint(m.typ, m.orient, pos)
	return next, nil
}

// WithColor returns a copy of the module with a new deck color.
func (m Module) WithColor(color Color) (Module, error) {
	if !color.Valid() {
		return Module{}, errors.New(errors.ErrCodeInvalidColor, "unknown color %d", int(color))
	}
	next := m
	next.color = color
	return next, nil
}

// WithOrientation returns a copy of the module rotated in place.
// The footprint is re-derived from the new orientation.
func (m Module) WithOrientation(orient Orientation) (Module, error) {
	if !orient.Valid() {
		return Module{}, errors.New(errors.ErrCodeInvalidOrientation, "unknown orientation %d", int(orient))
	}
	next := m
	next.orient = orient
	next.footprint = Footprint(m.typ, orient, m.pos)
	return next, nil
}
