package permissions

import "github.com/readcircle/readcircle-sdk/pkg/grants"

// DefaultPolicy returns a static grants policy preloaded with the default
// tier and role grant sets. Deployments that externalize their policy use
// the casbin files under config/grants instead; the two are kept in sync by
// the tests in this package.
func DefaultPolicy() *grants.StaticPolicy {
	table := make(map[string][]string, len(DefaultTierGrants)+len(DefaultRoleGrants))
	for tier, ents := range DefaultTierGrants {
		table[grants.SubjectForTier(tier.String())] = ents
	}
	for role, ents := range DefaultRoleGrants {
		table[grants.SubjectForRole(role)] = ents
	}
	return grants.NewStaticPolicy(table)
}
