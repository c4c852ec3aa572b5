package entitlements

import "time"

// CurrentCacheVersion is the schema version newly written entries carry.
// Bump it together with a migration entry whenever the stored shape changes.
const CurrentCacheVersion = 3

// SourceDirect marks permissions that are not attributed to any role.
const SourceDirect = "direct"

// RoleAssignment is one role held by a user, scoped to a club or store when
// ContextID is set and global otherwise. Order reflects grant time.
type RoleAssignment struct {
	Role      string `json:"role"`
	ContextID string `json:"contextId,omitempty"`
}

// PermissionRecord explains where one entitlement came from: the role that
// granted it, or "direct" when no role did.
type PermissionRecord struct {
	Name      string `json:"name"`
	ContextID string `json:"contextId,omitempty"`
	Inherited bool   `json:"inherited"`
	Source    string `json:"source"`
}

// CacheEntry is the stored resolution result for one user. Timestamp is epoch
// milliseconds and anchors the TTL; ComputationTime is diagnostic only.
type CacheEntry struct {
	Entitlements    []string           `json:"entitlements"`
	Roles           []RoleAssignment   `json:"roles"`
	Permissions     []PermissionRecord `json:"permissions"`
	Version         int                `json:"version"`
	Timestamp       int64              `json:"timestamp"`
	UserID          string             `json:"userId"`
	ComputationTime int64              `json:"computationTime,omitempty"`
}

// migrations upgrade an entry one schema version forward. An entry exactly
// one version behind is accepted only when a migration step exists for it;
// anything older is treated as a miss.
var migrations = map[int]func(*CacheEntry){
	// v2 predates permission provenance: synthesize direct records.
	2: func(e *CacheEntry) {
		if e.Permissions == nil {
			records := make([]PermissionRecord, 0, len(e.Entitlements))
			for _, ent := range e.Entitlements {
				records = append(records, PermissionRecord{
					Name:      ent,
					Inherited: false,
					Source:    SourceDirect,
				})
			}
			e.Permissions = records
		}
		e.Version = 3
	},
}

func acceptableVersion(v int) bool {
	if v == CurrentCacheVersion {
		return true
	}
	if v != CurrentCacheVersion-1 {
		return false
	}
	_, ok := migrations[v]
	return ok
}

// migrateEntry walks the entry up to CurrentCacheVersion. Returns false when
// no migration path exists.
func migrateEntry(e *CacheEntry) bool {
	for e.Version != CurrentCacheVersion {
		step, ok := migrations[e.Version]
		if !ok {
			return false
		}
		step(e)
	}
	return true
}

// Valid reports whether the entry may serve reads for userID at time now:
// it must belong to the user, be younger than ttl, and carry an acceptable
// schema version.
func (e *CacheEntry) Valid(userID string, now time.Time, ttl time.Duration) bool {
	if e == nil {
		return false
	}
	if e.UserID != userID {
		return false
	}
	if !acceptableVersion(e.Version) {
		return false
	}
	return now.UnixMilli()-e.Timestamp < ttl.Milliseconds()
}

// clone returns a copy whose slices the caller may mutate freely.
func (e *CacheEntry) clone() *CacheEntry {
	if e == nil {
		return nil
	}
	cloned := *e
	cloned.Entitlements = append([]string(nil), e.Entitlements...)
	cloned.Roles = append([]RoleAssignment(nil), e.Roles...)
	cloned.Permissions = append([]PermissionRecord(nil), e.Permissions...)
	return &cloned
}
