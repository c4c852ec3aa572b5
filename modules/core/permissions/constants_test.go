package permissions

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/readcircle/readcircle-sdk/pkg/grants"
)

func TestTierValid(t *testing.T) {
	require.True(t, TierMember.Valid())
	require.True(t, TierPrivileged.Valid())
	require.True(t, TierPrivilegedPlus.Valid())
	require.False(t, Tier("gold").Valid())
}

func TestTierGrantsAreCumulative(t *testing.T) {
	member := DefaultTierGrants[TierMember]
	privileged := DefaultTierGrants[TierPrivileged]
	plus := DefaultTierGrants[TierPrivilegedPlus]

	require.Subset(t, privileged, member, "privileged must include member grants")
	require.Subset(t, plus, privileged, "privileged_plus must include privileged grants")
}

func TestGrantsReferenceKnownEntitlements(t *testing.T) {
	known := make(map[string]struct{}, len(Entitlements))
	for _, ent := range Entitlements {
		known[ent] = struct{}{}
	}

	for tier, ents := range DefaultTierGrants {
		for _, ent := range ents {
			_, ok := known[ent]
			require.True(t, ok, "tier %s grants unknown entitlement %s", tier, ent)
		}
	}
	for role, ents := range DefaultRoleGrants {
		for _, ent := range ents {
			_, ok := known[ent]
			require.True(t, ok, "role %s grants unknown entitlement %s", role, ent)
		}
	}
}

// The casbin policy files under config/grants must agree with the in-code
// defaults, subject by subject.
func TestPolicyFilesMatchDefaults(t *testing.T) {
	root := filepath.Clean("../../..")
	svc, err := grants.NewService(grants.Config{
		ModelPath:  filepath.Join(root, "config/grants/model.conf"),
		PolicyPath: filepath.Join(root, "config/grants/policy.csv"),
	})
	require.NoError(t, err)

	static := DefaultPolicy()
	ctx := context.Background()

	for tier := range DefaultTierGrants {
		subject := grants.SubjectForTier(tier.String())
		fromFiles, err := svc.Grants(ctx, subject)
		require.NoError(t, err)
		fromCode, err := static.Grants(ctx, subject)
		require.NoError(t, err)
		require.ElementsMatch(t, fromCode, fromFiles, "subject %s", subject)
	}

	for role := range DefaultRoleGrants {
		subject := grants.SubjectForRole(role)
		fromFiles, err := svc.Grants(ctx, subject)
		require.NoError(t, err)
		fromCode, err := static.Grants(ctx, subject)
		require.NoError(t, err)
		require.ElementsMatch(t, fromCode, fromFiles, "subject %s", subject)
	}
}
