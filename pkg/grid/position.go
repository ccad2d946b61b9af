package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tbeckers/floatdeck/pkg/errors"
)

// Position is an integer cell coordinate on the placement grid.
// X and Z are horizontal cell indices, Y is the vertical level index
// (0 = water line). Stored positions are always non-negative; transient
// probe values (e.g. the cell below a level-0 cell) may carry Y = -1 and
// must be rejected by validation, never stored.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// NewPosition creates a Position suitable for stored state.
// Returns an INVALID_COORDINATE error if any component is negative.
func NewPosition(x, y, z int) (Position, error) {
	if x < 0 || y < 0 || z < 0 {
		return Position{}, errors.New(errors.ErrCodeInvalidCoordinate,
			"grid position components must be non-negative, got (%d,%d,%d)", x, y, z)
	}
	return Position{X: x, Y: y, Z: z}, nil
}

// Valid reports whether the position may be stored (all components >= 0).
func (p Position) Valid() bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0
}

// Key returns a stable string key for indexing, e.g. "3,1,4".
func (p Position) Key() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y) + "," + strconv.Itoa(p.Z)
}

// ParseKey parses a key produced by [Position.Key].
// Returns an INVALID_COORDINATE error for malformed input.
func ParseKey(key string) (Position, error) {
	parts := strings.Split(key, ",")
	if len(parts) != 3 {
		return Position{}, errors.New(errors.ErrCodeInvalidCoordinate, "malformed position key %q", key)
	}
	var c [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Position{}, errors.Wrap(errors.ErrCodeInvalidCoordinate, err, "malformed position key %q", key)
		}
		c[i] = n
	}
	return Position{X: c[0], Y: c[1], Z: c[2]}, nil
}

// String returns a human-readable form, e.g. "(3,1,4)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// Offset returns the position shifted by the given deltas.
// The result may be transiently negative; callers validate before storing.
func (p Position) Offset(dx, dy, dz int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Below returns the cell directly beneath (same x/z, one level down).
// For level-0 positions the result has Y = -1 and is only usable as a probe.
func (p Position) Below() Position {
	return Position{X: p.X, Y: p.Y - 1, Z: p.Z}
}

// Above returns the cell directly above (same x/z, one level up).
func (p Position) Above() Position {
	return Position{X: p.X, Y: p.Y + 1, Z: p.Z}
}

// Neighbors returns the 6 axis-aligned neighboring cells.
func (p Position) Neighbors() []Position {
	return []Position{
		p.Offset(1, 0, 0), p.Offset(-1, 0, 0),
		p.Offset(0, 1, 0), p.Offset(0, -1, 0),
		p.Offset(0, 0, 1), p.Offset(0, 0, -1),
	}
}

// HorizontalNeighbors returns the 4 same-level neighboring cells.
// Connectivity flood fills traverse exactly these.
func (p Position) HorizontalNeighbors() []Position {
	return []Position{
		p.Offset(1, 0, 0), p.Offset(-1, 0, 0),
		p.Offset(0, 0, 1), p.Offset(0, 0, -1),
	}
}

// Dimensions holds positive physical lengths in the base unit (millimeters).
// Used both for module sizes and for the per-cell pitch of a grid, where
// Width/Depth are the horizontal cell pitch and Height is the level height.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// NewDimensions creates Dimensions, rejecting non-positive lengths with an
// INVALID_DIMENSIONS error.
func NewDimensions(width, height, depth float64) (Dimensions, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return Dimensions{}, errors.New(errors.ErrCodeInvalidDimensions,
			"dimensions must be positive, got %gx%gx%g", width, height, depth)
	}
	return Dimensions{Width: width, Height: height, Depth: depth}, nil
}

// Valid reports whether all lengths are positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0 && d.Depth > 0
}

// FootprintArea returns the horizontal area (width x depth).
func (d Dimensions) FootprintArea() float64 {
	return d.Width * d.Depth
}

// Volume returns width x height x depth.
func (d Dimensions) Volume() float64 {
	return d.Width * d.Height * d.Depth
}

// String returns a human-readable form, e.g. "500x300x500".
func (d Dimensions) String() string {
	return fmt.Sprintf("%gx%gx%g", d.Width, d.Height, d.Depth)
}
