package layoutio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tbeckers/floatdeck/pkg/grid"
)

// ReadJSON decodes a JSON layout from r into a grid.
//
// The input must be a record object:
//
//	{
//	  "dimensions": {"width": 10, "depth": 10, "levels": 3},
//	  "cellSize": {"width": 500, "height": 300, "depth": 500},
//	  "modules": [
//	    {"id": "…", "position": {"x": 2, "y": 0, "z": 2},
//	     "type": "compact", "color": "azure", "orientation": "north"}
//	  ]
//	}
//
// ReadJSON returns an error if the JSON is malformed or if the record
// violates grid constraints (unknown enum names, duplicate identities,
// out-of-bounds or overlapping footprints). Use errors.Is with the
// INVALID_RECORD code to distinguish record problems from I/O failures.
//
// Grid options (e.g. a strict-stack validator) apply to the rebuilt grid.
// ReadJSON does not close r.
func ReadJSON(r io.Reader, opts ...grid.Option) (*grid.Grid, error) {
	var rec grid.Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return grid.FromRecord(rec, opts...)
}

// ImportJSON reads a JSON file at path and returns the decoded grid.
func ImportJSON(path string, opts ...grid.Option) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f, opts...)
}
