package entitlements

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntry(userID string, now time.Time) *CacheEntry {
	return &CacheEntry{
		Entitlements: []string{"CAN_CREATE_CLUB"},
		Roles:        []RoleAssignment{},
		Permissions: []PermissionRecord{
			{Name: "CAN_CREATE_CLUB", Inherited: false, Source: SourceDirect},
		},
		Version:   CurrentCacheVersion,
		Timestamp: now.UnixMilli(),
		UserID:    userID,
	}
}

func TestCacheEntryValid(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 30 * time.Minute

	t.Run("fresh entry is valid", func(t *testing.T) {
		entry := validEntry("alice", now)
		assert.True(t, entry.Valid("alice", now, ttl))
	})

	t.Run("nil entry is invalid", func(t *testing.T) {
		var entry *CacheEntry
		assert.False(t, entry.Valid("alice", now, ttl))
	})

	t.Run("entry expires at ttl boundary", func(t *testing.T) {
		entry := validEntry("alice", now)
		assert.True(t, entry.Valid("alice", now.Add(ttl-time.Millisecond), ttl))
		assert.False(t, entry.Valid("alice", now.Add(ttl), ttl))
	})

	t.Run("entry for another user is invalid", func(t *testing.T) {
		entry := validEntry("alice", now)
		assert.False(t, entry.Valid("bob", now, ttl))
	})

	t.Run("one version behind is accepted", func(t *testing.T) {
		entry := validEntry("alice", now)
		entry.Version = CurrentCacheVersion - 1
		assert.True(t, entry.Valid("alice", now, ttl))
	})

	t.Run("two versions behind is invalid", func(t *testing.T) {
		entry := validEntry("alice", now)
		entry.Version = CurrentCacheVersion - 2
		assert.False(t, entry.Valid("alice", now, ttl))
	})

	t.Run("future version is invalid", func(t *testing.T) {
		entry := validEntry("alice", now)
		entry.Version = CurrentCacheVersion + 1
		assert.False(t, entry.Valid("alice", now, ttl))
	})
}

func TestMigrateEntry(t *testing.T) {
	t.Run("v2 gains direct permission records", func(t *testing.T) {
		entry := &CacheEntry{
			Entitlements: []string{"CAN_CREATE_CLUB", "CAN_SEND_DIRECT_MESSAGES"},
			Version:      2,
			Timestamp:    time.Now().UnixMilli(),
			UserID:       "alice",
		}
		require.True(t, migrateEntry(entry))
		assert.Equal(t, CurrentCacheVersion, entry.Version)
		require.Len(t, entry.Permissions, 2)
		for i, record := range entry.Permissions {
			assert.Equal(t, entry.Entitlements[i], record.Name)
			assert.False(t, record.Inherited)
			assert.Equal(t, SourceDirect, record.Source)
		}
	})

	t.Run("v2 with permissions keeps them", func(t *testing.T) {
		records := []PermissionRecord{{Name: "CAN_PIN_ANNOUNCEMENTS", Inherited: true, Source: "club_lead"}}
		entry := &CacheEntry{
			Entitlements: []string{"CAN_PIN_ANNOUNCEMENTS"},
			Permissions:  records,
			Version:      2,
			UserID:       "alice",
		}
		require.True(t, migrateEntry(entry))
		assert.Equal(t, records, entry.Permissions)
	})

	t.Run("no path from v1", func(t *testing.T) {
		entry := &CacheEntry{Version: 1, UserID: "alice"}
		assert.False(t, migrateEntry(entry))
	})
}

// The stored JSON shape is a compatibility contract with entries written by
// earlier releases; field names must not drift.
func TestCacheEntryStoredShape(t *testing.T) {
	entry := &CacheEntry{
		Entitlements:    []string{"CAN_CREATE_CLUB"},
		Roles:           []RoleAssignment{{Role: "club_lead", ContextID: "club-7"}},
		Permissions:     []PermissionRecord{{Name: "CAN_CREATE_CLUB", Inherited: false, Source: SourceDirect}},
		Version:         3,
		Timestamp:       1717243200000,
		UserID:          "alice",
		ComputationTime: 12,
	}
	raw, err := json.Marshal(entry)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"entitlements", "roles", "permissions", "version", "timestamp", "userId", "computationTime"} {
		assert.Contains(t, fields, key)
	}
}

func TestCacheEntryClone(t *testing.T) {
	now := time.Now()
	entry := validEntry("alice", now)
	cloned := entry.clone()

	cloned.Entitlements[0] = "CAN_EVERYTHING"
	cloned.Permissions[0].Source = "mutated"

	assert.Equal(t, "CAN_CREATE_CLUB", entry.Entitlements[0])
	assert.Equal(t, SourceDirect, entry.Permissions[0].Source)
}
