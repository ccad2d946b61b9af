package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbeckers/floatdeck/pkg/errors"
	"github.com/tbeckers/floatdeck/pkg/grid"
)

func sampleRecord(t *testing.T) grid.Record {
	t.Helper()
	g, err := grid.New(8, 8, 2, grid.Dimensions{Width: 500, Height: 300, Depth: 500})
	require.NoError(t, err)
	g, _, err = g.PlaceModule(grid.Position{X: 2, Y: 0, Z: 2}, grid.TypeCompact, grid.ColorAzure, grid.OrientationNorth)
	require.NoError(t, err)
	g, _, err = g.PlaceModule(grid.Position{X: 3, Y: 0, Z: 2}, grid.TypeExtended, grid.ColorSand, grid.OrientationEast)
	require.NoError(t, err)
	return g.ToRecord()
}

// Both local backends must behave identically; run the same suite
// against each.
func stores(t *testing.T) map[string]Store {
	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	rec := sampleRecord(t)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			require.NoError(t, s.Put(ctx, "harbor-deck", rec))

			got, err := s.Get(ctx, "harbor-deck")
			require.NoError(t, err)
			assert.Equal(t, rec, got, "record changed in storage")

			// Rebuilt grid must match the original layout.
			g, err := grid.FromRecord(got)
			require.NoError(t, err)
			assert.Equal(t, 2, g.Len())
		})
	}
}

func TestStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	rec := sampleRecord(t)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			require.NoError(t, s.Put(ctx, "deck", rec))

			empty, err := grid.New(4, 4, 1, grid.Dimensions{Width: 500, Height: 300, Depth: 500})
			require.NoError(t, err)
			require.NoError(t, s.Put(ctx, "deck", empty.ToRecord()))

			got, err := s.Get(ctx, "deck")
			require.NoError(t, err)
			assert.Empty(t, got.Modules)
			assert.Equal(t, 4, got.Dimensions.Width)
		})
	}
}

func TestStoreMissingLayout(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			_, err := s.Get(ctx, "nope")
			assert.True(t, errors.Is(err, errors.ErrCodeLayoutNotFound), "Get: %v", err)

			err = s.Delete(ctx, "nope")
			assert.True(t, errors.Is(err, errors.ErrCodeLayoutNotFound), "Delete: %v", err)
		})
	}
}

func TestStoreDeleteAndList(t *testing.T) {
	ctx := context.Background()
	rec := sampleRecord(t)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			require.NoError(t, s.Put(ctx, "bravo", rec))
			require.NoError(t, s.Put(ctx, "alpha", rec))
			require.NoError(t, s.Put(ctx, "charlie", rec))

			names, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "bravo", "charlie"}, names)

			require.NoError(t, s.Delete(ctx, "bravo"))
			names, err = s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "charlie"}, names)

			_, err = s.Get(ctx, "bravo")
			assert.True(t, errors.Is(err, errors.ErrCodeLayoutNotFound))
		})
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"deck", "harbor-deck", "deck_2", "Deck 2026"}
	for _, name := range valid {
		assert.NoError(t, ValidateName(name), name)
	}

	invalid := []string{"", ".", "..", "a/b", `a\b`, "a:b", "what?"}
	for _, name := range invalid {
		err := ValidateName(name)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), name)
	}
}

func TestFileStoreIgnoresForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "deck", sampleRecord(t)))
	writeFile(t, dir, "notes.txt")
	writeFile(t, dir, "README.md")

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"deck"}, names)
}

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
}
