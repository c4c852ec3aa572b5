package grants

import (
	"fmt"
	"strings"
)

const (
	rolePrefix       = "role"
	tierPrefix       = "tier"
	subjectSeparator = ":"
)

// SubjectForRole returns the canonical identifier for a role-based subject.
func SubjectForRole(roleSlug string) string {
	roleSlug = strings.TrimSpace(roleSlug)
	if roleSlug == "" {
		roleSlug = "unnamed"
	}
	if strings.HasPrefix(roleSlug, rolePrefix+subjectSeparator) {
		return roleSlug
	}
	return fmt.Sprintf("%s%s%s", rolePrefix, subjectSeparator, strings.ToLower(roleSlug))
}

// SubjectForTier returns the canonical identifier for a subscription tier.
func SubjectForTier(tier string) string {
	tier = strings.TrimSpace(tier)
	if tier == "" {
		tier = "member"
	}
	if strings.HasPrefix(tier, tierPrefix+subjectSeparator) {
		return tier
	}
	return fmt.Sprintf("%s%s%s", tierPrefix, subjectSeparator, strings.ToLower(tier))
}
