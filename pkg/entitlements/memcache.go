package entitlements

import (
	"sort"
	"sync"
	"time"
)

// memoryEntry wraps a cache entry with the access bookkeeping the eviction
// policy needs.
type memoryEntry struct {
	entry        *CacheEntry
	accessCount  int64
	lastAccessed time.Time
}

// memoryCache is the bounded in-process tier. At capacity it evicts the
// least-recently-accessed quarter of its entries in one batch, so inserts
// stay cheap under sustained pressure.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

func newMemoryCache(maxSize int, ttl time.Duration, now func() time.Time) *memoryCache {
	return &memoryCache{
		entries: make(map[string]*memoryEntry),
		maxSize: maxSize,
		ttl:     ttl,
		now:     now,
	}
}

// save inserts or replaces the entry for userID, evicting a batch first when
// the insert would exceed capacity. Returns how many entries were evicted.
func (m *memoryCache) save(userID string, entry *CacheEntry) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	if _, exists := m.entries[userID]; !exists && len(m.entries) >= m.maxSize {
		evicted = m.evictOldestLocked()
	}
	m.entries[userID] = &memoryEntry{
		entry:        entry,
		lastAccessed: m.now(),
	}
	return evicted
}

// load returns the entry for userID, or nil when absent or untouched for
// longer than the memory TTL. Stale entries are dropped on detection; hits
// refresh the access bookkeeping.
func (m *memoryCache) load(userID string) *CacheEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	me, ok := m.entries[userID]
	if !ok {
		return nil
	}
	now := m.now()
	if now.Sub(me.lastAccessed) >= m.ttl {
		delete(m.entries, userID)
		return nil
	}
	me.accessCount++
	me.lastAccessed = now
	return me.entry
}

// evictOldestLocked removes the oldest quarter of entries by last access.
// Caller holds m.mu.
func (m *memoryCache) evictOldestLocked() int {
	batch := (m.maxSize + 3) / 4
	if batch > len(m.entries) {
		batch = len(m.entries)
	}
	if batch == 0 {
		return 0
	}

	type aged struct {
		userID       string
		lastAccessed time.Time
	}
	byAge := make([]aged, 0, len(m.entries))
	for userID, me := range m.entries {
		byAge = append(byAge, aged{userID: userID, lastAccessed: me.lastAccessed})
	}
	sort.Slice(byAge, func(i, j int) bool {
		return byAge[i].lastAccessed.Before(byAge[j].lastAccessed)
	})

	for _, candidate := range byAge[:batch] {
		delete(m.entries, candidate.userID)
	}
	return batch
}

func (m *memoryCache) remove(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
}

func (m *memoryCache) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*memoryEntry)
}

func (m *memoryCache) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// userIDs snapshots the cached user ids, for sweeps and full invalidation.
func (m *memoryCache) userIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.entries))
	for userID := range m.entries {
		ids = append(ids, userID)
	}
	return ids
}

// dropIf removes every entry the predicate flags and reports how many went.
func (m *memoryCache) dropIf(predicate func(userID string, me *memoryEntry) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for userID, me := range m.entries {
		if predicate(userID, me) {
			delete(m.entries, userID)
			removed++
		}
	}
	return removed
}

// setLimits applies new capacity and TTL, shedding the oldest entries when
// the cache shrinks below its current population.
func (m *memoryCache) setLimits(maxSize int, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSize = maxSize
	m.ttl = ttl
	for len(m.entries) > m.maxSize {
		m.evictOldestLocked()
	}
}
