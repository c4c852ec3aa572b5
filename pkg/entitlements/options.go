package entitlements

import (
	"time"

	"github.com/readcircle/readcircle-sdk/pkg/configuration"
)

// Options tune the cache tiers. Zero values fall back to the defaults below.
type Options struct {
	// Expiration bounds how long a persisted entry serves reads.
	Expiration time.Duration
	// MemoryTTL bounds how long an untouched memory entry serves reads.
	// It should be shorter than Expiration.
	MemoryTTL time.Duration
	// MemorySize caps the memory tier; at capacity the oldest quarter of
	// entries is evicted in one batch.
	MemorySize int
	// KeyPrefix namespaces this cache's keys in the shared store.
	KeyPrefix string
	// GuardTimeout bounds how long a re-entrancy guard can stay armed after
	// its computation leaked or stalled.
	GuardTimeout time.Duration
	// Debug enables hit/miss logging on every read.
	Debug bool
}

func (o *Options) setDefaults() {
	if o.Expiration <= 0 {
		o.Expiration = 30 * time.Minute
	}
	if o.MemoryTTL <= 0 {
		o.MemoryTTL = 5 * time.Minute
	}
	if o.MemorySize <= 0 {
		o.MemorySize = 100
	}
	if o.KeyPrefix == "" {
		o.KeyPrefix = "entitlements:cache:"
	}
	if o.GuardTimeout <= 0 {
		o.GuardTimeout = 10 * time.Second
	}
}

// OptionsFromConfig maps the environment configuration onto cache options.
func OptionsFromConfig(cfg *configuration.Configuration) Options {
	return Options{
		Expiration:   cfg.Entitlements.CacheTTL,
		MemoryTTL:    cfg.Entitlements.MemoryTTL,
		MemorySize:   cfg.Entitlements.MemorySize,
		KeyPrefix:    cfg.Entitlements.KeyPrefix,
		GuardTimeout: cfg.Entitlements.GuardTimeout,
		Debug:        cfg.Entitlements.Debug,
	}
}
