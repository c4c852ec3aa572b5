package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/readcircle/readcircle-sdk/modules/core/domain/entities/membership"
	"github.com/readcircle/readcircle-sdk/modules/core/domain/entities/subscription"
	"github.com/readcircle/readcircle-sdk/modules/core/permissions"
	"github.com/readcircle/readcircle-sdk/pkg/entitlements"
	"github.com/readcircle/readcircle-sdk/pkg/grants"
)

var (
	_ entitlements.Calculator = (*EntitlementCalculatorService)(nil)
	_ entitlements.RoleSource = (*EntitlementCalculatorService)(nil)
	_ entitlements.Attributor = (*EntitlementCalculatorService)(nil)
)

// EntitlementCalculatorService computes a user's entitlement set from their
// subscription tier and club role memberships. Tier grants come first, then
// role grants in membership order; duplicates keep their first position.
type EntitlementCalculatorService struct {
	memberships   membership.Repository
	subscriptions subscription.Repository
	policy        grants.Policy
}

func NewEntitlementCalculatorService(
	memberships membership.Repository,
	subscriptions subscription.Repository,
	policy grants.Policy,
) *EntitlementCalculatorService {
	return &EntitlementCalculatorService{
		memberships:   memberships,
		subscriptions: subscriptions,
		policy:        policy,
	}
}

func (s *EntitlementCalculatorService) CalculateEntitlements(ctx context.Context, userID string) ([]string, error) {
	tier, err := s.userTier(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	ents := make([]string, 0, 16)
	add := func(names []string) {
		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			ents = append(ents, name)
		}
	}

	tierGrants, err := s.policy.Grants(ctx, grants.SubjectForTier(tier.String()))
	if err != nil {
		return nil, errors.Wrap(err, "tier grant lookup failed")
	}
	add(tierGrants)

	userMemberships, err := s.memberships.ForUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "membership lookup failed")
	}
	consulted := make(map[string]struct{}, len(userMemberships))
	for _, m := range userMemberships {
		if _, ok := consulted[m.Role()]; ok {
			continue
		}
		consulted[m.Role()] = struct{}{}

		roleGrants, err := s.policy.Grants(ctx, grants.SubjectForRole(m.Role()))
		if err != nil {
			return nil, errors.Wrapf(err, "role grant lookup failed for %q", m.Role())
		}
		add(roleGrants)
	}

	return ents, nil
}

// UserRoles lists the user's role assignments in membership order, one per
// club the role is held in.
func (s *EntitlementCalculatorService) UserRoles(ctx context.Context, userID string) ([]entitlements.RoleAssignment, error) {
	userMemberships, err := s.memberships.ForUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "membership lookup failed")
	}
	assignments := make([]entitlements.RoleAssignment, 0, len(userMemberships))
	for _, m := range userMemberships {
		assignments = append(assignments, entitlements.RoleAssignment{
			Role:      m.Role(),
			ContextID: m.ClubID(),
		})
	}
	return assignments, nil
}

// RoleGrants reports the entitlements a role confers, inherited grants
// included.
func (s *EntitlementCalculatorService) RoleGrants(ctx context.Context, role string) ([]string, error) {
	return s.policy.Grants(ctx, grants.SubjectForRole(role))
}

// userTier resolves the user's paid tier, defaulting to the free member tier
// when no subscription covers the current instant.
func (s *EntitlementCalculatorService) userTier(ctx context.Context, userID string) (permissions.Tier, error) {
	active, err := s.subscriptions.ActiveForUser(ctx, userID, time.Now())
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return permissions.TierMember, nil
		}
		return "", errors.Wrap(err, "subscription lookup failed")
	}
	return active.Tier(), nil
}
