// Package grants resolves which entitlements a subject confers. Subjects are
// canonical strings such as role:club_lead or tier:privileged; the policy
// behind them is either a casbin model/policy pair or a static in-code table.
package grants

import "context"

// Policy answers what entitlements a subject grants. Implementations must be
// safe for concurrent use.
type Policy interface {
	Grants(ctx context.Context, subject string) ([]string, error)
}
