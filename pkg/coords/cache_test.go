package coords

import (
	"testing"

	"github.com/tbeckers/floatdeck/pkg/grid"
)

func TestCacheMemoizes(t *testing.T) {
	calc := New(testCell, DefaultViewScale)
	cache := NewCache(calc, 10, 10, 16)

	p := grid.Position{X: 3, Y: 1, Z: 4}
	first := cache.GridToPhysical(p)
	if want := calc.GridToPhysical(p, 10, 10); first != want {
		t.Errorf("cached conversion = %v, want %v", first, want)
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
	if second := cache.GridToPhysical(p); second != first {
		t.Errorf("memoized value changed: %v vs %v", second, first)
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d after hit, want 1", cache.Len())
	}

	view := cache.GridToView(p)
	if want := calc.GridToView(p, 10, 10); view != want {
		t.Errorf("GridToView = %v, want %v", view, want)
	}
}

func TestCacheBounded(t *testing.T) {
	cache := NewCache(New(testCell, DefaultViewScale), 32, 32, 4)

	for x := 0; x < 10; x++ {
		cache.GridToPhysical(grid.Position{X: x, Y: 0, Z: 0})
	}
	if cache.Len() > cache.Cap() {
		t.Errorf("Len = %d exceeds Cap = %d", cache.Len(), cache.Cap())
	}
	// Oldest entries were evicted, newest survive.
	if _, ok := cache.entries["0,0,0"]; ok {
		t.Error("oldest entry not evicted")
	}
	if _, ok := cache.entries["9,0,0"]; !ok {
		t.Error("newest entry missing")
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewCache(New(testCell, DefaultViewScale), 10, 10, 16)
	cache.GridToPhysical(grid.Position{X: 1, Y: 0, Z: 1})
	cache.GridToPhysical(grid.Position{X: 2, Y: 0, Z: 2})

	cache.Invalidate()
	if cache.Len() != 0 {
		t.Errorf("Len = %d after Invalidate", cache.Len())
	}

	// Resize changes the centering, so memoized points must not survive.
	before := cache.GridToPhysical(grid.Position{X: 1, Y: 0, Z: 1})
	cache.Resize(20, 20)
	after := cache.GridToPhysical(grid.Position{X: 1, Y: 0, Z: 1})
	if before == after {
		t.Error("Resize served a stale conversion")
	}
}

func TestCacheDefaultSize(t *testing.T) {
	cache := NewCache(New(testCell, DefaultViewScale), 10, 10, 0)
	if cache.Cap() != DefaultCacheSize {
		t.Errorf("Cap = %d, want %d", cache.Cap(), DefaultCacheSize)
	}
}
