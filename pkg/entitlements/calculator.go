package entitlements

import "context"

// Calculator computes the full entitlement set for a user, typically by
// joining membership, role and subscription state. A Calculator failure is
// hard: resolution fails and nothing is cached.
type Calculator interface {
	CalculateEntitlements(ctx context.Context, userID string) ([]string, error)
}

// CalculatorFunc adapts a function to the Calculator interface.
type CalculatorFunc func(ctx context.Context, userID string) ([]string, error)

func (f CalculatorFunc) CalculateEntitlements(ctx context.Context, userID string) ([]string, error) {
	return f(ctx, userID)
}

// RoleSource lists a user's role assignments in grant order. Failures here
// are soft: resolution proceeds with an empty role list and every permission
// recorded as direct.
type RoleSource interface {
	UserRoles(ctx context.Context, userID string) ([]RoleAssignment, error)
}

// Attributor reports which entitlements a role confers. It is consulted to
// attribute each entitlement to the first role (in assignment order) that
// grants it; entitlements no role grants are recorded as direct.
type Attributor interface {
	RoleGrants(ctx context.Context, role string) ([]string, error)
}
