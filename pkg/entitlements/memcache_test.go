package entitlements

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source shared by the package tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestMemoryCache(clock *fakeClock, size int, ttl time.Duration) *memoryCache {
	return newMemoryCache(size, ttl, clock.Now)
}

func TestMemoryCacheSaveAndLoad(t *testing.T) {
	clock := newFakeClock()
	mem := newTestMemoryCache(clock, 10, time.Minute)

	entry := validEntry("alice", clock.Now())
	mem.save("alice", entry)

	loaded := mem.load("alice")
	require.NotNil(t, loaded)
	assert.Equal(t, entry.Entitlements, loaded.Entitlements)
	assert.Nil(t, mem.load("bob"))
}

func TestMemoryCacheIdleExpiry(t *testing.T) {
	clock := newFakeClock()
	mem := newTestMemoryCache(clock, 10, time.Minute)
	mem.save("alice", validEntry("alice", clock.Now()))

	clock.Advance(59 * time.Second)
	require.NotNil(t, mem.load("alice"), "entry should survive below the idle ttl")

	// The hit above refreshed lastAccessed, so the idle window restarts.
	clock.Advance(time.Minute)
	assert.Nil(t, mem.load("alice"))
	assert.Equal(t, 0, mem.size(), "stale entry is dropped on load")
}

func TestMemoryCacheEvictsOldestQuarter(t *testing.T) {
	clock := newFakeClock()
	mem := newTestMemoryCache(clock, 8, time.Hour)

	for i := 0; i < 8; i++ {
		mem.save(fmt.Sprintf("user-%d", i), validEntry(fmt.Sprintf("user-%d", i), clock.Now()))
		clock.Advance(time.Second)
	}
	require.Equal(t, 8, mem.size())

	evicted := mem.save("user-8", validEntry("user-8", clock.Now()))
	assert.Equal(t, 2, evicted, "a full cache sheds a quarter of its capacity")
	assert.Equal(t, 7, mem.size())

	assert.Nil(t, mem.load("user-0"))
	assert.Nil(t, mem.load("user-1"))
	assert.NotNil(t, mem.load("user-2"))
	assert.NotNil(t, mem.load("user-8"))
}

func TestMemoryCacheEvictionRespectsRecentAccess(t *testing.T) {
	clock := newFakeClock()
	mem := newTestMemoryCache(clock, 4, time.Hour)

	for i := 0; i < 4; i++ {
		mem.save(fmt.Sprintf("user-%d", i), validEntry(fmt.Sprintf("user-%d", i), clock.Now()))
		clock.Advance(time.Second)
	}

	// Touching the oldest entry moves it to the back of the eviction order.
	require.NotNil(t, mem.load("user-0"))
	clock.Advance(time.Second)

	evicted := mem.save("user-4", validEntry("user-4", clock.Now()))
	assert.Equal(t, 1, evicted)
	assert.NotNil(t, mem.load("user-0"))
	assert.Nil(t, mem.load("user-1"))
}

func TestMemoryCacheOverwriteDoesNotEvict(t *testing.T) {
	clock := newFakeClock()
	mem := newTestMemoryCache(clock, 2, time.Hour)

	mem.save("alice", validEntry("alice", clock.Now()))
	mem.save("bob", validEntry("bob", clock.Now()))

	evicted := mem.save("alice", validEntry("alice", clock.Now()))
	assert.Equal(t, 0, evicted, "replacing an existing entry needs no room")
	assert.Equal(t, 2, mem.size())
}

func TestMemoryCacheDropIf(t *testing.T) {
	clock := newFakeClock()
	mem := newTestMemoryCache(clock, 10, time.Hour)
	mem.save("alice", validEntry("alice", clock.Now()))
	mem.save("bob", validEntry("bob", clock.Now()))

	dropped := mem.dropIf(func(userID string, _ *memoryEntry) bool {
		return userID == "alice"
	})
	assert.Equal(t, 1, dropped)
	assert.Nil(t, mem.load("alice"))
	assert.NotNil(t, mem.load("bob"))
}

func TestMemoryCacheSetLimitsShrinks(t *testing.T) {
	clock := newFakeClock()
	mem := newTestMemoryCache(clock, 8, time.Hour)
	for i := 0; i < 8; i++ {
		mem.save(fmt.Sprintf("user-%d", i), validEntry(fmt.Sprintf("user-%d", i), clock.Now()))
		clock.Advance(time.Second)
	}

	mem.setLimits(4, time.Hour)
	assert.LessOrEqual(t, mem.size(), 4)
	assert.NotNil(t, mem.load("user-7"), "newest entry survives the shrink")
}
