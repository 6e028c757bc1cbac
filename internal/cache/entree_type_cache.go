package cache

import (
	"sync"
	"time"

	"github.com/go-while/go-entrees/internal/models"
)

// EntreeTypeCache holds the entree type list for a limited time.
// Writers must call Clear after changing entree types.
type EntreeTypeCache struct {
	mutex    sync.RWMutex
	types    []*models.EntreeType
	loadedAt time.Time
	valid    bool
	maxAge   time.Duration // Maximum age of the cached list

	countermux sync.Mutex
	hits       int64 // Cache hit counter
	misses     int64 // Cache miss counter
}

// NewEntreeTypeCache creates a cache whose entries expire after maxAge
func NewEntreeTypeCache(maxAge time.Duration) *EntreeTypeCache {
	return &EntreeTypeCache{maxAge: maxAge}
}

// Get returns a copy of the cached list
func (tc *EntreeTypeCache) Get() ([]*models.EntreeType, bool) {
	tc.mutex.RLock()
	fresh := tc.valid && time.Since(tc.loadedAt) <= tc.maxAge
	var types []*models.EntreeType
	if fresh {
		types = make([]*models.EntreeType, len(tc.types))
		copy(types, tc.types)
	}
	tc.mutex.RUnlock()

	tc.countermux.Lock()
	if fresh {
		tc.hits++
	} else {
		tc.misses++
	}
	tc.countermux.Unlock()
	return types, fresh
}

// Set stores the entree type list
func (tc *EntreeTypeCache) Set(types []*models.EntreeType) {
	stored := make([]*models.EntreeType, len(types))
	copy(stored, types)

	tc.mutex.Lock()
	tc.types = stored
	tc.loadedAt = time.Now()
	tc.valid = true
	tc.mutex.Unlock()
}

// Clear drops the cached list
func (tc *EntreeTypeCache) Clear() {
	tc.mutex.Lock()
	tc.types = nil
	tc.valid = false
	tc.mutex.Unlock()
}

// GetStats returns cache statistics
func (tc *EntreeTypeCache) GetStats() map[string]interface{} {
	tc.mutex.RLock()
	entries := len(tc.types)
	age := time.Duration(0)
	if tc.valid {
		age = time.Since(tc.loadedAt)
	}
	tc.mutex.RUnlock()

	tc.countermux.Lock()
	hits, misses := tc.hits, tc.misses
	tc.countermux.Unlock()

	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return map[string]interface{}{
		"entries":  entries,
		"age":      age.String(),
		"max_age":  tc.maxAge.String(),
		"hits":     hits,
		"misses":   misses,
		"hit_rate": hitRate,
	}
}
