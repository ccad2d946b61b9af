package grid

// FindNearbyValidPositions searches expanding square rings around target for
// cells where a module of the given type and orientation could be placed.
// The target's own cell counts as ring 0. The first ring containing any
// valid position wins; its positions are returned in scan order. An empty
// slice means no valid position exists within maxRadius.
//
// The search stays on the target's level - placement assist never jumps the
// user to a different deck height.
func (v Validator) FindNearbyValidPositions(g *Grid, target Position, typ ModuleType, orient Orientation, maxRadius int) []Position {
	for radius := 0; radius <= maxRadius; radius++ {
		var found []Position
		for _, p := range ringPositions(target, radius) {
			if !p.Valid() {
				continue
			}
			if v.CanPlace(g, p, typ, orient, "").Valid {
				found = append(found, p)
			}
		}
		if len(found) > 0 {
			return found
		}
	}
	return nil
}

// ringPositions enumerates the horizontal square ring at the given Chebyshev
// radius around center, top row first, then bottom row, then the side
// columns. Radius 0 is the center itself.
func ringPositions(center Position, radius int) []Position {
	if radius == 0 {
		return []Position{center}
	}
	positions := make([]Position, 0, 8*radius)
	for dx := -radius; dx <= radius; dx++ {
		positions = append(positions, center.Offset(dx, 0, -radius))
	}
	for dx := -radius; dx <= radius; dx++ {
		positions = append(positions, center.Offset(dx, 0, radius))
	}
	for dz := -radius + 1; dz <= radius-1; dz++ {
		positions = append(positions, center.Offset(-radius, 0, dz))
		positions = append(positions, center.Offset(radius, 0, dz))
	}
	return positions
}
