package grid

import (
	"maps"
	"slices"
)

// Index maps cell keys to the module identities occupying them. It is a
// pure derived view of a module collection: rebuilding it by re-inserting
// every module must reproduce it exactly, and it never holds independent
// truth. Each [Grid] owns its own Index; two Grid values never share one.
//
// All operations are O(k) in the footprint cell count k.
type Index struct {
	cells   map[string][]string   // cell key -> occupying module IDs
	entries map[string][]Position // module ID -> occupied cells
}

// NewIndex creates an empty spatial index.
func NewIndex() *Index {
	return &Index{
		cells:   make(map[string][]string),
		entries: make(map[string][]Position),
	}
}

// IndexFromModules builds an index covering every module in the iterator.
func IndexFromModules(modules map[string]Module) *Index {
	idx := NewIndex()
	for id, m := range modules {
		idx.Insert(id, m.footprint)
	}
	return idx
}

// Clone returns a deep copy sharing no state with the receiver.
// Grid mutations clone the parent's index and apply the delta, keeping
// copy-on-write cheap relative to a full rebuild.
func (idx *Index) Clone() *Index {
	out := &Index{
		cells:   make(map[string][]string, len(idx.cells)),
		entries: make(map[string][]Position, len(idx.entries)),
	}
	for key, ids := range idx.cells {
		out.cells[key] = slices.Clone(ids)
	}
	for id, cells := range idx.entries {
		out.entries[id] = slices.Clone(cells)
	}
	return out
}

// Insert records the module as occupying the given cells.
// Re-inserting an existing ID replaces its previous cells atomically.
func (idx *Index) Insert(id string, cells []Position) {
	if prev, ok := idx.entries[id]; ok {
		idx.removeFromCells(id, prev)
	}
	idx.entries[id] = slices.Clone(cells)
	for _, cell := range cells {
		key := cell.Key()
		idx.cells[key] = append(idx.cells[key], id)
	}
}

// Remove deletes every cell entry for the module. Unknown IDs are a no-op.
func (idx *Index) Remove(id string) {
	cells, ok := idx.entries[id]
	if !ok {
		return
	}
	idx.removeFromCells(id, cells)
	delete(idx.entries, id)
}

// Move atomically re-points the module at a new footprint (remove+insert).
func (idx *Index) Move(id string, cells []Position) {
	idx.Insert(id, cells)
}

// Contains reports whether the module is present in the index.
func (idx *Index) Contains(id string) bool {
	_, ok := idx.entries[id]
	return ok
}

// Cells returns the cells recorded for the module, or nil if absent.
func (idx *Index) Cells(id string) []Position {
	return slices.Clone(idx.entries[id])
}

// IDsAt returns the module identities occupying a single cell.
func (idx *Index) IDsAt(p Position) []string {
	return slices.Clone(idx.cells[p.Key()])
}

// Occupied reports whether any module occupies the cell.
func (idx *Index) Occupied(p Position) bool {
	return len(idx.cells[p.Key()]) > 0
}

// Query returns the distinct module identities overlapping any of the given
// cells, excluding excludeID (pass "" to exclude nothing). Order is the
// order of first overlap, which follows the cell order given.
func (idx *Index) Query(cells []Position, excludeID string) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, cell := range cells {
		for _, id := range idx.cells[cell.Key()] {
			if id == excludeID {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// QueryLevel returns the distinct module identities overlapping the given
// cells, restricted to cells at the fixed level.
func (idx *Index) QueryLevel(cells []Position, level int, excludeID string) []string {
	filtered := make([]Position, 0, len(cells))
	for _, cell := range cells {
		if cell.Y == level {
			filtered = append(filtered, cell)
		}
	}
	return idx.Query(filtered, excludeID)
}

// HasSupport checks the simple stacking rule for a footprint: every cell at
// level >= 1 needs an occupied cell directly beneath; level-0 cells rest on
// the water line and are always supported. It returns both the verdict and
// the unsupported cells for diagnostics.
func (idx *Index) HasSupport(cells []Position) (bool, []Position) {
	var unsupported []Position
	for _, cell := range cells {
		if cell.Y == 0 {
			continue
		}
		if !idx.Occupied(cell.Below()) {
			unsupported = append(unsupported, cell)
		}
	}
	return len(unsupported) == 0, unsupported
}

// Len returns the number of indexed modules.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// CellCount returns the number of occupied cells.
func (idx *Index) CellCount() int {
	return len(idx.cells)
}

// IDs returns the indexed module identities in sorted order.
func (idx *Index) IDs() []string {
	return slices.Sorted(maps.Keys(idx.entries))
}

// removeFromCells drops the ID from each cell bucket, swap-removing to keep
// buckets compact, and deletes emptied buckets.
func (idx *Index) removeFromCells(id string, cells []Position) {
	for _, cell := range cells {
		key := cell.Key()
		bucket := idx.cells[key]
		for i := range bucket {
			if bucket[i] != id {
				continue
			}
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
		if len(bucket) == 0 {
			delete(idx.cells, key)
		} else {
			idx.cells[key] = bucket
		}
	}
}
