package store

import (
	"context"
	"slices"
	"sync"

	"github.com/tbeckers/floatdeck/pkg/grid"
)

// MemoryStore is an in-process layout store for development and testing.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]grid.Record
}

// NewMemoryStore creates an empty in-memory layout store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]grid.Record)}
}

func (s *MemoryStore) Get(ctx context.Context, name string) (grid.Record, error) {
	if err := ValidateName(name); err != nil {
		return grid.Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.layouts[name]
	if !ok {
		return grid.Record{}, notFound(name)
	}
	return rec, nil
}

func (s *MemoryStore) Put(ctx context.Context, name string, rec grid.Record) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy the module slice so later caller mutations don't leak in.
	rec.Modules = slices.Clone(rec.Modules)
	s.layouts[name] = rec
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.layouts[name]; !ok {
		return notFound(name)
	}
	delete(s.layouts, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.layouts))
	for name := range s.layouts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
