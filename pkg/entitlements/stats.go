package entitlements

import "sync/atomic"

// Stats is a point-in-time snapshot of cache effectiveness. Errors counts
// storage failures that were swallowed and served as misses.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Errors int64 `json:"errors"`
}

type statsCounter struct {
	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64
}

func (c *statsCounter) snapshot() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Errors: c.errors.Load(),
	}
}

func (c *statsCounter) reset() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.errors.Store(0)
}
