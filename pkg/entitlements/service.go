package entitlements

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/readcircle/readcircle-sdk/pkg/eventbus"
	"github.com/readcircle/readcircle-sdk/pkg/serrors"
)

var tracer = otel.Tracer("github.com/readcircle/readcircle-sdk/pkg/entitlements")

// ErrInvalidConfig reports unusable service parameters.
var ErrInvalidConfig = serrors.NewError("ENTITLEMENTS_INVALID_CONFIG", "invalid entitlements configuration", "")

// ServiceParams wires a Service's collaborators. Calculator is required;
// everything else has a working default or is optional.
type ServiceParams struct {
	Calculator Calculator
	Roles      RoleSource // optional: roles omitted when nil
	Attributor Attributor // optional: all permissions recorded direct when nil
	Store      Store      // defaults to an in-process MemoryStore
	Options    Options
	Logger     *logrus.Logger    // defaults to a silent logger
	EventBus   eventbus.EventBus // optional: InvalidatedEvent published when set
}

// Service resolves user entitlements through the two cache tiers and owns
// every piece of related state: statistics, re-entrancy guards, invalidation
// generations and listener registrations. Construct one per process; nothing
// in this package is a package-level singleton.
type Service struct {
	opts   Options
	calc   Calculator
	roles  RoleSource
	attrib Attributor
	store  Store
	logger *logrus.Entry
	bus    eventbus.EventBus

	mem     *memoryCache
	guard   *computeGuard
	flights singleflight.Group
	stats   statsCounter

	genMu       sync.Mutex
	generations map[string]uint64

	listenerMu  sync.RWMutex
	listeners   map[int]func(userID string)
	listenerSeq int

	now func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Calculator == nil {
		return nil, fmt.Errorf("%w: missing calculator", ErrInvalidConfig)
	}

	opts := params.Options
	opts.setDefaults()

	store := params.Store
	if store == nil {
		store = NewMemoryStore()
	}

	log := params.Logger
	if log == nil {
		log = logrusNop()
	}

	s := &Service{
		opts:        opts,
		calc:        params.Calculator,
		roles:       params.Roles,
		attrib:      params.Attributor,
		store:       store,
		logger:      log.WithField("component", "entitlements"),
		bus:         params.EventBus,
		generations: make(map[string]uint64),
		listeners:   make(map[int]func(string)),
		now:         time.Now,
	}
	s.mem = newMemoryCache(opts.MemorySize, opts.MemoryTTL, func() time.Time { return s.now() })
	s.guard = newComputeGuard(opts.GuardTimeout, func() time.Time { return s.now() })
	return s, nil
}

// GetUserEntitlements returns the user's entitlement names, serving from
// cache when possible. forceRefresh bypasses both tiers and recomputes. The
// returned slice is the caller's to keep; on any error it is the empty set.
func (s *Service) GetUserEntitlements(ctx context.Context, userID string, forceRefresh bool) ([]string, error) {
	entry, err := s.resolve(ctx, userID, forceRefresh)
	if err != nil || entry == nil {
		return []string{}, err
	}
	return append([]string(nil), entry.Entitlements...), nil
}

// GetEnhancedUserEntitlements returns the full cache entry with roles and
// permission provenance. It resolves through the same path as
// GetUserEntitlements; the two never call each other.
func (s *Service) GetEnhancedUserEntitlements(ctx context.Context, userID string, forceRefresh bool) (*CacheEntry, error) {
	entry, err := s.resolve(ctx, userID, forceRefresh)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return s.degradedEntry(userID), nil
	}
	return entry.clone(), nil
}

// resolve is the shared read path: cache lookup, then one deduplicated
// computation per user. A nil entry with nil error is the degraded empty
// result of a tripped re-entrancy guard.
func (s *Service) resolve(ctx context.Context, userID string, forceRefresh bool) (*CacheEntry, error) {
	if isComputing(ctx, userID) {
		s.tripGuard(userID)
		return nil, nil
	}

	if !forceRefresh {
		if entry := s.lookup(ctx, userID); entry != nil {
			return entry, nil
		}
		s.stats.misses.Add(1)
		getMetrics().missesTotal.Inc()
		if s.opts.Debug {
			s.logger.WithField("user_id", userID).Debug("cache miss")
		}
	}

	v, err, _ := s.flights.Do(userID, func() (interface{}, error) {
		return s.computeAndCache(ctx, userID, forceRefresh)
	})
	if err != nil {
		return nil, err
	}
	entry, _ := v.(*CacheEntry)
	return entry, nil
}

// lookup serves from memory first, then storage with promotion into memory.
// Returns nil on miss.
func (s *Service) lookup(ctx context.Context, userID string) *CacheEntry {
	if entry := s.mem.load(userID); entry != nil {
		if entry.Valid(userID, s.now(), s.opts.Expiration) {
			s.recordHit(userID, "memory")
			return entry
		}
		s.mem.remove(userID)
	}
	if entry := s.loadFromStorage(ctx, userID); entry != nil {
		s.saveToMemory(userID, entry)
		s.recordHit(userID, "storage")
		return entry
	}
	return nil
}

// computeAndCache is the single computation path behind both public getters.
// It re-checks the memory tier (another flight may have landed between the
// caller's miss and this execution), computes under the re-entrancy guard,
// and writes back unless an invalidation arrived mid-flight.
func (s *Service) computeAndCache(ctx context.Context, userID string, forceRefresh bool) (*CacheEntry, error) {
	if !forceRefresh {
		if entry := s.mem.load(userID); entry != nil && entry.Valid(userID, s.now(), s.opts.Expiration) {
			return entry, nil
		}
	}

	if !s.guard.tryAcquire(userID) {
		s.tripGuard(userID)
		return nil, nil
	}
	defer s.guard.release(userID)

	gen := s.generation(userID)
	start := s.now()

	ctx = markComputing(ctx, userID)
	ctx, span := tracer.Start(ctx, "entitlements.compute",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	ents, err := s.calc.CalculateEntitlements(ctx, userID)
	if err != nil {
		getMetrics().computationsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		return nil, computationError(userID, err)
	}

	entry := s.buildEntry(ctx, userID, ents, start)

	getMetrics().computationsTotal.WithLabelValues("ok").Inc()
	getMetrics().computationDuration.Observe(s.now().Sub(start).Seconds())

	if s.generation(userID) != gen {
		// The result is still correct for the waiters that asked for it,
		// but the cache must not resurrect pre-invalidation state.
		s.logger.WithField("user_id", userID).Debug("invalidated during computation, skipping write-back")
		return entry, nil
	}

	s.saveToStorage(ctx, userID, entry)
	s.saveToMemory(userID, entry)
	return entry, nil
}

// buildEntry assembles the cache entry: entitlements (deduplicated, order
// preserved), the user's roles, and one provenance record per entitlement.
func (s *Service) buildEntry(ctx context.Context, userID string, ents []string, start time.Time) *CacheEntry {
	entitlements := uniqueStrings(ents)
	roles := s.lookupRoles(ctx, userID)
	return &CacheEntry{
		Entitlements:    entitlements,
		Roles:           roles,
		Permissions:     s.derivePermissions(ctx, entitlements, roles),
		Version:         CurrentCacheVersion,
		Timestamp:       s.now().UnixMilli(),
		UserID:          userID,
		ComputationTime: s.now().Sub(start).Milliseconds(),
	}
}

// lookupRoles returns the user's role assignments, or the empty list when no
// source is wired or the lookup fails. Failures degrade provenance only.
func (s *Service) lookupRoles(ctx context.Context, userID string) []RoleAssignment {
	if s.roles == nil {
		return []RoleAssignment{}
	}
	roles, err := s.roles.UserRoles(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).
			Warn("role lookup failed, recording all permissions as direct")
		return []RoleAssignment{}
	}
	if roles == nil {
		roles = []RoleAssignment{}
	}
	return roles
}

// derivePermissions attributes each entitlement to the first role in
// assignment order whose grants contain it; the rest are direct.
func (s *Service) derivePermissions(ctx context.Context, ents []string, roles []RoleAssignment) []PermissionRecord {
	grantSets := make([]map[string]struct{}, len(roles))
	if s.attrib != nil {
		for i, role := range roles {
			grants, err := s.attrib.RoleGrants(ctx, role.Role)
			if err != nil {
				s.logger.WithError(err).WithField("role", role.Role).
					Debug("role grant lookup failed, skipping attribution")
				continue
			}
			set := make(map[string]struct{}, len(grants))
			for _, ent := range grants {
				set[ent] = struct{}{}
			}
			grantSets[i] = set
		}
	}

	records := make([]PermissionRecord, 0, len(ents))
	for _, ent := range ents {
		record := PermissionRecord{Name: ent, Inherited: false, Source: SourceDirect}
		for i, role := range roles {
			if grantSets[i] == nil {
				continue
			}
			if _, ok := grantSets[i][ent]; ok {
				record = PermissionRecord{
					Name:      ent,
					ContextID: role.ContextID,
					Inherited: true,
					Source:    role.Role,
				}
				break
			}
		}
		records = append(records, record)
	}
	return records
}

// degradedEntry is the empty, non-cached result served when the re-entrancy
// guard trips.
func (s *Service) degradedEntry(userID string) *CacheEntry {
	return &CacheEntry{
		Entitlements: []string{},
		Roles:        []RoleAssignment{},
		Permissions:  []PermissionRecord{},
		Version:      CurrentCacheVersion,
		Timestamp:    s.now().UnixMilli(),
		UserID:       userID,
	}
}

func (s *Service) tripGuard(userID string) {
	getMetrics().guardTripsTotal.Inc()
	s.logger.WithField("user_id", userID).Warn("re-entrant entitlement computation blocked")
}

func (s *Service) recordHit(userID, tier string) {
	s.stats.hits.Add(1)
	getMetrics().hitsTotal.WithLabelValues(tier).Inc()
	if s.opts.Debug {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "tier": tier}).Debug("cache hit")
	}
}

func (s *Service) key(userID string) string {
	return s.opts.KeyPrefix + userID
}

// loadFromStorage reads, validates and migrates the stored entry for userID.
// Every failure mode degrades to a miss: IO errors and corrupt payloads are
// logged and counted, never returned.
func (s *Service) loadFromStorage(ctx context.Context, userID string) *CacheEntry {
	raw, ok, err := s.store.Get(ctx, s.key(userID))
	if err != nil {
		s.recordStorageError(err, userID, "read")
		return nil
	}
	if !ok {
		return nil
	}

	var entry CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		s.recordStorageError(err, userID, "decode")
		// Corrupt payloads never become readable again; drop eagerly.
		_ = s.store.Remove(ctx, s.key(userID))
		return nil
	}
	if !entry.Valid(userID, s.now(), s.opts.Expiration) {
		return nil
	}
	if !migrateEntry(&entry) {
		return nil
	}
	return &entry
}

func (s *Service) saveToStorage(ctx context.Context, userID string, entry *CacheEntry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		s.recordStorageError(err, userID, "encode")
		return
	}
	if err := s.store.Set(ctx, s.key(userID), string(raw)); err != nil {
		s.recordStorageError(err, userID, "write")
	}
}

func (s *Service) saveToMemory(userID string, entry *CacheEntry) {
	evicted := s.mem.save(userID, entry)
	if evicted > 0 {
		getMetrics().evictionsTotal.Add(float64(evicted))
		if s.opts.Debug {
			s.logger.WithFields(logrus.Fields{"user_id": userID, "evicted": evicted}).
				Debug("evicted memory entries under pressure")
		}
	}
	getMetrics().memoryEntries.Set(float64(s.mem.size()))
}

func (s *Service) recordStorageError(err error, userID, op string) {
	s.stats.errors.Add(1)
	getMetrics().errorsTotal.Inc()
	s.logger.WithError(err).WithFields(logrus.Fields{"user_id": userID, "op": op}).
		Warn("entitlement cache storage failure, serving as miss")
}

// generation returns the user's invalidation generation.
func (s *Service) generation(userID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[userID]
}

func (s *Service) bumpGeneration(userID string) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generations[userID]++
}

// InvalidateUser drops the user's entries from both tiers and notifies
// listeners. Safe to call for users that were never cached.
func (s *Service) InvalidateUser(ctx context.Context, userID string) {
	s.bumpGeneration(userID)
	s.mem.remove(userID)
	getMetrics().memoryEntries.Set(float64(s.mem.size()))
	if err := s.store.Remove(ctx, s.key(userID)); err != nil {
		s.recordStorageError(err, userID, "invalidate")
	}
	getMetrics().invalidationsTotal.Inc()
	if s.opts.Debug {
		s.logger.WithField("user_id", userID).Debug("invalidated cache entries")
	}

	s.notifyListeners(userID)
	if s.bus != nil {
		s.bus.Publish(&InvalidatedEvent{UserID: userID, At: s.now()})
	}
}

// InvalidateUsers invalidates each user in turn (bulk role changes, club
// deletions).
func (s *Service) InvalidateUsers(ctx context.Context, userIDs []string) {
	for _, userID := range userIDs {
		s.InvalidateUser(ctx, userID)
	}
}

// AddInvalidationListener registers fn to run synchronously after each user
// invalidation. The returned closure unregisters it.
func (s *Service) AddInvalidationListener(fn func(userID string)) func() {
	s.listenerMu.Lock()
	s.listenerSeq++
	id := s.listenerSeq
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

// notifyListeners runs each listener under panic isolation, so one broken
// listener cannot block the others.
func (s *Service) notifyListeners(userID string) {
	s.listenerMu.RLock()
	handlers := make([]func(string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		handlers = append(handlers, fn)
	}
	s.listenerMu.RUnlock()

	for _, fn := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.WithField("user_id", userID).
						Errorf("invalidation listener panicked: %v", r)
				}
			}()
			fn(userID)
		}()
	}
}

// ClearCache drops every entry from both tiers (logout-all, migrations).
// Listeners are not notified; use InvalidateUsers for targeted resets.
func (s *Service) ClearCache(ctx context.Context) {
	for _, userID := range s.mem.userIDs() {
		s.bumpGeneration(userID)
	}
	s.mem.clear()
	getMetrics().memoryEntries.Set(0)

	keys, err := s.store.Keys(ctx)
	if err != nil {
		s.recordStorageError(err, "", "clear")
		return
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, s.opts.KeyPrefix) {
			continue
		}
		s.bumpGeneration(strings.TrimPrefix(key, s.opts.KeyPrefix))
		if err := s.store.Remove(ctx, key); err != nil {
			s.recordStorageError(err, strings.TrimPrefix(key, s.opts.KeyPrefix), "clear")
		}
	}
}

// ClearMemoryCache drops the memory tier only; persisted entries keep
// serving reads.
func (s *Service) ClearMemoryCache() {
	s.mem.clear()
	getMetrics().memoryEntries.Set(0)
}

// PreloadCache warms the cache for the given users concurrently, sharing
// in-flight computations with regular readers. Failures are logged and do
// not affect the other users.
func (s *Service) PreloadCache(ctx context.Context, userIDs []string) {
	var wg sync.WaitGroup
	for _, userID := range userIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.resolve(ctx, userID, false); err != nil {
				s.logger.WithError(err).WithField("user_id", userID).Warn("cache preload failed")
			}
		}()
	}
	wg.Wait()
}

// CachedUserIDs lists the users with an entry in the persistent tier.
func (s *Service) CachedUserIDs(ctx context.Context) ([]string, error) {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("entitlements: listing cached users: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, s.opts.KeyPrefix) {
			ids = append(ids, strings.TrimPrefix(key, s.opts.KeyPrefix))
		}
	}
	return ids, nil
}

// CleanupExpired sweeps both tiers, dropping entries that no longer pass
// validation, and returns how many were removed. Read paths already treat
// such entries as misses; the sweep only reclaims space.
func (s *Service) CleanupExpired(ctx context.Context) (int, error) {
	now := s.now()
	removed := s.mem.dropIf(func(userID string, me *memoryEntry) bool {
		if now.Sub(me.lastAccessed) >= s.opts.MemoryTTL {
			return true
		}
		return !me.entry.Valid(userID, now, s.opts.Expiration)
	})
	getMetrics().memoryEntries.Set(float64(s.mem.size()))

	keys, err := s.store.Keys(ctx)
	if err != nil {
		return removed, fmt.Errorf("entitlements: sweep: %w", err)
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, s.opts.KeyPrefix) {
			continue
		}
		userID := strings.TrimPrefix(key, s.opts.KeyPrefix)

		raw, ok, err := s.store.Get(ctx, key)
		if err != nil {
			s.recordStorageError(err, userID, "sweep")
			continue
		}
		if !ok {
			continue
		}
		var entry CacheEntry
		if err := json.Unmarshal([]byte(raw), &entry); err == nil && entry.Valid(userID, now, s.opts.Expiration) {
			continue
		}
		if err := s.store.Remove(ctx, key); err != nil {
			s.recordStorageError(err, userID, "sweep")
			continue
		}
		removed++
	}
	return removed, nil
}

// Stats returns a snapshot of the hit/miss/error counters.
func (s *Service) Stats() Stats {
	return s.stats.snapshot()
}

// ResetStats zeroes the counters without touching cached data.
func (s *Service) ResetStats() {
	s.stats.reset()
}

// MemorySize reports how many entries the memory tier currently holds.
func (s *Service) MemorySize() int {
	return s.mem.size()
}

// Reconfigure applies new cache options at runtime. Intended for tests that
// need tiny TTLs or capacities; not safe to race with in-flight computations.
func (s *Service) Reconfigure(opts Options) {
	opts.setDefaults()
	s.opts = opts
	s.mem.setLimits(opts.MemorySize, opts.MemoryTTL)
	s.guard.setTimeout(opts.GuardTimeout)
}

// Reset restores the pristine state a fresh Service starts with: memory tier,
// guards, generations, statistics and listeners. The persistent store is
// shared infrastructure and is left untouched; use ClearCache to empty it.
func (s *Service) Reset() {
	s.mem.clear()
	s.guard.clear()
	s.stats.reset()
	getMetrics().memoryEntries.Set(0)

	s.genMu.Lock()
	s.generations = make(map[string]uint64)
	s.genMu.Unlock()

	s.listenerMu.Lock()
	s.listeners = make(map[int]func(string))
	s.listenerMu.Unlock()
}

type computingKey struct{}

// markComputing records userID on the context for the duration of its
// computation, so a calculator that calls back into the service for the same
// user is caught instead of recursing forever.
func markComputing(ctx context.Context, userID string) context.Context {
	chain, _ := ctx.Value(computingKey{}).(map[string]struct{})
	next := make(map[string]struct{}, len(chain)+1)
	for id := range chain {
		next[id] = struct{}{}
	}
	next[userID] = struct{}{}
	return context.WithValue(ctx, computingKey{}, next)
}

func isComputing(ctx context.Context, userID string) bool {
	chain, _ := ctx.Value(computingKey{}).(map[string]struct{})
	_, ok := chain[userID]
	return ok
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func logrusNop() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
