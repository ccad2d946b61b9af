package grid

// Stats summarizes a grid for status displays and the BOM pipeline.
// Distribution maps are keyed by wire names so the struct serializes
// directly.
type Stats struct {
	Modules       int            `json:"modules"`
	OccupiedCells int            `json:"occupiedCells"`
	TotalCells    int            `json:"totalCells"`
	Utilization   float64        `json:"utilization"`
	ByLevel       map[int]int    `json:"byLevel"`
	ByType        map[string]int `json:"byType"`
	ByColor       map[string]int `json:"byColor"`
}

// Statistics computes counts, per-level/type/color distributions, and the
// cell utilization ratio. Every level index is present in ByLevel, including
// empty ones, so tabular output has a stable row set.
func (g *Grid) Statistics() Stats {
	stats := Stats{
		Modules:    len(g.modules),
		TotalCells: g.width * g.depth * g.levels,
		ByLevel:    make(map[int]int, g.levels),
		ByType:     make(map[string]int),
		ByColor:    make(map[string]int),
	}
	for level := 0; level < g.levels; level++ {
		stats.ByLevel[level] = 0
	}

	for _, m := range g.modules {
		stats.OccupiedCells += len(m.footprint)
		stats.ByLevel[m.pos.Y]++
		stats.ByType[m.typ.String()]++
		stats.ByColor[m.color.String()]++
	}

	if stats.TotalCells > 0 {
		stats.Utilization = float64(stats.OccupiedCells) / float64(stats.TotalCells)
	}
	return stats
}
