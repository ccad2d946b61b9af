// Package layoutio reads and writes platform layouts as JSON files.
//
// The on-disk format is exactly the core's [grid.Record] - the one wire
// format the engine defines - so files written here round-trip through
// [ReadJSON] into value-equal grids.
package layoutio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tbeckers/floatdeck/pkg/grid"
)

// WriteJSON encodes a grid's record as indented JSON and writes it to w.
// Output is deterministic: modules are sorted by identity.
func WriteJSON(g *grid.Grid, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.ToRecord()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a grid to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *grid.Grid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
