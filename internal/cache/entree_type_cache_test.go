package cache

import (
	"testing"
	"time"

	"github.com/go-while/go-entrees/internal/models"
)

func TestEntreeTypeCache(t *testing.T) {
	tc := NewEntreeTypeCache(time.Minute)
	if _, ok := tc.Get(); ok {
		t.Fatal("empty cache reported a hit")
	}

	types := []*models.EntreeType{{ID: 1, Name: "Beef"}, {ID: 2, Name: "Jackfruit", IsVegetarian: true}}
	tc.Set(types)
	got, ok := tc.Get()
	if !ok || len(got) != 2 || got[1].Name != "Jackfruit" {
		t.Fatalf("Get after Set = %v, %t", got, ok)
	}

	// the cache keeps its own slice
	types[0] = &models.EntreeType{ID: 9, Name: "Changed"}
	got, _ = tc.Get()
	if got[0].Name != "Beef" {
		t.Errorf("cache shares the caller's slice")
	}

	tc.Clear()
	if _, ok := tc.Get(); ok {
		t.Error("Get after Clear reported a hit")
	}

	stats := tc.GetStats()
	if stats["hits"].(int64) != 2 || stats["misses"].(int64) != 2 {
		t.Errorf("stats = %v", stats)
	}
}

func TestEntreeTypeCacheExpiry(t *testing.T) {
	tc := NewEntreeTypeCache(time.Millisecond)
	tc.Set([]*models.EntreeType{{ID: 1, Name: "Beef"}})
	time.Sleep(5 * time.Millisecond)
	if _, ok := tc.Get(); ok {
		t.Error("expired entry reported a hit")
	}
}
