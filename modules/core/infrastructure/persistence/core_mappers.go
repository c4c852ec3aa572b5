package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/readcircle/readcircle-sdk/modules/core/domain/entities/membership"
	"github.com/readcircle/readcircle-sdk/modules/core/domain/entities/subscription"
	"github.com/readcircle/readcircle-sdk/modules/core/infrastructure/persistence/models"
	"github.com/readcircle/readcircle-sdk/modules/core/permissions"
)

func ToDomainMembership(dbMembership *models.Membership) (*membership.Membership, error) {
	id, err := uuid.Parse(dbMembership.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid membership id")
	}
	return membership.New(
		dbMembership.UserID,
		dbMembership.ClubID,
		dbMembership.Role,
		membership.WithID(id),
		membership.WithCreatedAt(dbMembership.CreatedAt),
		membership.WithUpdatedAt(dbMembership.UpdatedAt),
	), nil
}

func ToDomainSubscription(dbSubscription *models.Subscription) (*subscription.Subscription, error) {
	id, err := uuid.Parse(dbSubscription.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subscription id")
	}
	tier := permissions.Tier(dbSubscription.Tier)
	if !tier.Valid() {
		return nil, errors.Errorf("unknown subscription tier %q", dbSubscription.Tier)
	}

	opts := []subscription.Option{
		subscription.WithID(id),
		subscription.WithCreatedAt(dbSubscription.CreatedAt),
		subscription.WithUpdatedAt(dbSubscription.UpdatedAt),
	}
	if dbSubscription.EndsAt.Valid {
		endsAt := dbSubscription.EndsAt.Time
		opts = append(opts, subscription.WithEndsAt(&endsAt))
	}
	return subscription.New(dbSubscription.UserID, tier, dbSubscription.StartsAt, opts...), nil
}
