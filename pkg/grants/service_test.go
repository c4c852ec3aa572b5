package grants

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	root := filepath.Join("testdata")
	svc, err := NewService(Config{
		ModelPath:  filepath.Join(root, "model.conf"),
		PolicyPath: filepath.Join(root, "policy.csv"),
	})
	require.NoError(t, err)
	return svc
}

func TestServiceGrants(t *testing.T) {
	svc := newTestService(t)

	ents, err := svc.Grants(context.Background(), "tier:basic")
	require.NoError(t, err)
	require.Equal(t, []string{"CAN_BROWSE"}, ents)
}

func TestServiceGrants_InheritsThroughLinks(t *testing.T) {
	svc := newTestService(t)

	ents, err := svc.Grants(context.Background(), "tier:plus")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"CAN_ANNOTATE", "CAN_BROWSE"}, ents)
}

func TestServiceGrants_DeduplicatesInheritedRows(t *testing.T) {
	svc := newTestService(t)

	// curator grants CAN_EDIT_SHELVES directly and again via the assistant link
	ents, err := svc.Grants(context.Background(), "role:curator")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"CAN_FEATURE_BOOKS", "CAN_EDIT_SHELVES"}, ents)
}

func TestServiceGrants_UnknownSubject(t *testing.T) {
	svc := newTestService(t)

	ents, err := svc.Grants(context.Background(), "role:nobody")
	require.NoError(t, err)
	require.Empty(t, ents)
}

func TestServiceReloadPolicy(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.ReloadPolicy(context.Background()))

	ents, err := svc.Grants(context.Background(), "tier:basic")
	require.NoError(t, err)
	require.Equal(t, []string{"CAN_BROWSE"}, ents)
}

func TestStaticPolicy(t *testing.T) {
	policy := NewStaticPolicy(map[string][]string{
		"tier:basic": {"CAN_BROWSE"},
	})

	ents, err := policy.Grants(context.Background(), "tier:basic")
	require.NoError(t, err)
	require.Equal(t, []string{"CAN_BROWSE"}, ents)

	// callers must not be able to mutate the table through the returned slice
	ents[0] = "CAN_EVERYTHING"
	again, err := policy.Grants(context.Background(), "tier:basic")
	require.NoError(t, err)
	require.Equal(t, []string{"CAN_BROWSE"}, again)

	missing, err := policy.Grants(context.Background(), "role:nobody")
	require.NoError(t, err)
	require.Empty(t, missing)
}
