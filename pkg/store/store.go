// Package store persists named platform layouts.
//
// A layout is stored as its wire record ([grid.Record]); the engine's
// in-memory Grid is rebuilt on load via [grid.FromRecord]. Backends:
//   - memory: in-process map for development and testing
//   - file: JSON files in a config directory, for CLI use
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage for durable server deployments
//
// All backends key layouts by a user-chosen name and return a
// LAYOUT_NOT_FOUND coded error for missing names, so callers can
// distinguish absence from infrastructure failures with errors.Is.
package store

import (
	"context"
	"strings"

	"github.com/tbeckers/floatdeck/pkg/errors"
	"github.com/tbeckers/floatdeck/pkg/grid"
)

// Store is the interface for layout storage backends.
type Store interface {
	// Get retrieves a layout record by name.
	// Returns a LAYOUT_NOT_FOUND error if the name doesn't exist.
	Get(ctx context.Context, name string) (grid.Record, error)

	// Put stores a layout record under name, replacing any existing one.
	Put(ctx context.Context, name string, rec grid.Record) error

	// Delete removes a layout.
	// Returns a LAYOUT_NOT_FOUND error if the name doesn't exist.
	Delete(ctx context.Context, name string) error

	// List returns all stored layout names in lexical order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// ValidateName rejects names that would be unsafe as file names or
// storage keys. Backends call this before touching storage so behavior
// is uniform.
func ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "layout name must not be empty")
	}
	if strings.ContainsAny(name, "/\\:*?\"<>|") || name == "." || name == ".." {
		return errors.New(errors.ErrCodeInvalidInput, "layout name %q contains reserved characters", name)
	}
	return nil
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", name)
}
