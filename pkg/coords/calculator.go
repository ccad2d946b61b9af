// Package coords converts between the three coordinate spaces of a platform
// layout: grid-index space (integer cells), physical space (millimeters),
// and view space (renderer units). All conversions are pure functions of
// their arguments; the only state a [Calculator] carries is the cell pitch
// and view scale it was constructed with. Memoization is the caller's
// business - see [Cache].
package coords

import (
	"math"

	"github.com/tbeckers/floatdeck/pkg/grid"
)

// Point is a location in physical or view space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Scale returns the point scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

// Distance returns the Euclidean distance to q.
func (p Point) Distance(q Point) float64 {
	dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Ray is a half-line in view space, used to project pointer input onto
// level planes. Direction need not be normalized.
type Ray struct {
	Origin    Point
	Direction Point
}

// Calculator converts between grid, physical, and view space. The zero
// value is not usable - use [New] or [ForGrid].
type Calculator struct {
	cell      grid.Dimensions
	viewScale float64 // view units per physical unit
}

// DefaultViewScale maps millimeters to the renderer's meter-ish units.
const DefaultViewScale = 0.001

// New creates a calculator for the given cell pitch. viewScale is the
// number of view units per physical unit; pass [DefaultViewScale] unless
// the renderer says otherwise. Non-positive scales fall back to the default.
func New(cell grid.Dimensions, viewScale float64) Calculator {
	if viewScale <= 0 {
		viewScale = DefaultViewScale
	}
	return Calculator{cell: cell, viewScale: viewScale}
}

// ForGrid creates a calculator matching a grid's cell size.
func ForGrid(g *grid.Grid, viewScale float64) Calculator {
	return New(g.CellSize(), viewScale)
}

// CellSize returns the physical cell pitch.
func (c Calculator) CellSize() grid.Dimensions { return c.cell }

// ViewScale returns the view units per physical unit.
func (c Calculator) ViewScale() float64 { return c.viewScale }

// GridToPhysical returns the physical center of a cell, with the grid
// centered around the origin horizontally. Vertical position stacks levels
// directly on top of each other:
//
//	physicalY(level) = level*unitHeight + unitHeight/2
//
// so a module's center sits half a unit above its level plane.
func (c Calculator) GridToPhysical(p grid.Position, width, depth int) Point {
	return Point{
		X: (float64(p.X) + 0.5 - float64(width)/2) * c.cell.Width,
		Y: float64(p.Y)*c.cell.Height + c.cell.Height/2,
		Z: (float64(p.Z) + 0.5 - float64(depth)/2) * c.cell.Depth,
	}
}

// PhysicalToGrid is the inverse of [Calculator.GridToPhysical]: it floors a
// physical point into the cell containing it. Cell centers round-trip
// exactly. The ok result is false when the point lies outside the horizontal
// extent or below the water line. The calculator does not know the level
// count, so bounding the level index is the caller's job ([grid.Grid.InBounds]
// checks the full volume).
func (c Calculator) PhysicalToGrid(pt Point, width, depth int) (grid.Position, bool) {
	x := int(math.Floor(pt.X/c.cell.Width + float64(width)/2))
	y := int(math.Floor(pt.Y / c.cell.Height))
	z := int(math.Floor(pt.Z/c.cell.Depth + float64(depth)/2))
	pos := grid.Position{X: x, Y: y, Z: z}
	if x < 0 || x >= width || y < 0 || z < 0 || z >= depth {
		return pos, false
	}
	return pos, true
}

// PhysicalToView applies the linear unit scaling into view space. The
// rendering boundary consumes this instead of re-implementing transform
// math.
func (c Calculator) PhysicalToView(pt Point) Point {
	return pt.Scale(c.viewScale)
}

// ViewToPhysical inverts [Calculator.PhysicalToView].
func (c Calculator) ViewToPhysical(pt Point) Point {
	return pt.Scale(1 / c.viewScale)
}

// GridToView composes GridToPhysical and PhysicalToView.
func (c Calculator) GridToView(p grid.Position, width, depth int) Point {
	return c.PhysicalToView(c.GridToPhysical(p, width, depth))
}

// LevelPlaneY returns the physical height of the plane modules rest on at
// the given level. Level 0 is the water line at 0.
func (c Calculator) LevelPlaneY(level int) float64 {
	return float64(level) * c.cell.Height
}

// ScreenToGrid projects a view-space ray onto the horizontal plane of the
// given level and floors the hit into grid-index space. The ok result is
// false when the ray runs parallel to the plane, points away from it, or
// hits outside the grid. The hit keeps the requested level in its Y
// component so the result can feed placement checks directly.
func (c Calculator) ScreenToGrid(ray Ray, level, width, depth int) (grid.Position, bool) {
	planeY := c.LevelPlaneY(level) * c.viewScale
	if ray.Direction.Y == 0 {
		return grid.Position{}, false
	}
	t := (planeY - ray.Origin.Y) / ray.Direction.Y
	if t < 0 {
		return grid.Position{}, false
	}
	hit := ray.Origin.Add(ray.Direction.Scale(t))
	phys := c.ViewToPhysical(hit)

	x := int(math.Floor(phys.X/c.cell.Width + float64(width)/2))
	z := int(math.Floor(phys.Z/c.cell.Depth + float64(depth)/2))
	if x < 0 || x >= width || z < 0 || z >= depth || level < 0 {
		return grid.Position{}, false
	}
	return grid.Position{X: x, Y: level, Z: z}, true
}

// ModuleBounds returns the physical axis-aligned bounds of a module: the
// minimum corner and the size. Extended modules span two cells along their
// long axis.
func (c Calculator) ModuleBounds(m grid.Module, width, depth int) (min Point, size grid.Dimensions) {
	center := c.GridToPhysical(m.Position(), width, depth)
	size = m.PhysicalSize(c.cell)
	// The origin cell's center is half a cell from the module's minimum
	// corner regardless of how far the footprint extends.
	min = Point{
		X: center.X - c.cell.Width/2,
		Y: center.Y - c.cell.Height/2,
		Z: center.Z - c.cell.Depth/2,
	}
	return min, size
}

// GridExtent returns the physical size of the whole grid volume.
func (c Calculator) GridExtent(width, depth, levels int) grid.Dimensions {
	return grid.Dimensions{
		Width:  float64(width) * c.cell.Width,
		Height: float64(levels) * c.cell.Height,
		Depth:  float64(depth) * c.cell.Depth,
	}
}
