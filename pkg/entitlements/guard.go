package entitlements

import (
	"sync"
	"time"
)

// computeGuard blocks re-entrant computation per user. An armed guard that is
// never released (a leaked or stalled computation) expires after the timeout,
// so one bad flight cannot suppress a user's resolution forever.
type computeGuard struct {
	mu      sync.Mutex
	active  map[string]time.Time
	timeout time.Duration
	now     func() time.Time
}

func newComputeGuard(timeout time.Duration, now func() time.Time) *computeGuard {
	return &computeGuard{
		active:  make(map[string]time.Time),
		timeout: timeout,
		now:     now,
	}
}

// tryAcquire arms the guard for userID. It refuses while a previous
// acquisition is still live; an expired one is reclaimed.
func (g *computeGuard) tryAcquire(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if armedAt, ok := g.active[userID]; ok && g.now().Sub(armedAt) < g.timeout {
		return false
	}
	g.active[userID] = g.now()
	return true
}

func (g *computeGuard) release(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, userID)
}

func (g *computeGuard) clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = make(map[string]time.Time)
}

func (g *computeGuard) setTimeout(timeout time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.timeout = timeout
}
