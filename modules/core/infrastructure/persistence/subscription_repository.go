package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/readcircle/readcircle-sdk/modules/core/domain/entities/subscription"
	"github.com/readcircle/readcircle-sdk/modules/core/infrastructure/persistence/models"
	"github.com/readcircle/readcircle-sdk/pkg/composables"
)

const (
	subscriptionFindQuery = `SELECT id, user_id, tier, starts_at, ends_at, created_at, updated_at FROM subscriptions`

	// Active subscriptions rank by tier so overlapping windows resolve to the
	// best plan the user paid for.
	subscriptionTierRank = `CASE tier WHEN 'privileged_plus' THEN 2 WHEN 'privileged' THEN 1 ELSE 0 END`
)

type SubscriptionRepository struct{}

func NewSubscriptionRepository() subscription.Repository {
	return &SubscriptionRepository{}
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	query := subscriptionFindQuery + " WHERE id = $1"
	subscriptions, err := r.querySubscriptions(ctx, query, id.String())
	if err != nil {
		return nil, err
	}
	if len(subscriptions) == 0 {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return subscriptions[0], nil
}

func (r *SubscriptionRepository) ActiveForUser(ctx context.Context, userID string, at time.Time) (*subscription.Subscription, error) {
	query := subscriptionFindQuery + `
		WHERE user_id = $1 AND starts_at <= $2 AND (ends_at IS NULL OR ends_at > $2)
		ORDER BY ` + subscriptionTierRank + ` DESC, starts_at DESC
		LIMIT 1`
	subscriptions, err := r.querySubscriptions(ctx, query, userID, at)
	if err != nil {
		return nil, err
	}
	if len(subscriptions) == 0 {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return subscriptions[0], nil
}

func (r *SubscriptionRepository) ListForUser(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	query := subscriptionFindQuery + " WHERE user_id = $1 ORDER BY starts_at DESC"
	return r.querySubscriptions(ctx, query, userID)
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) (*subscription.Subscription, error) {
	query := `
		INSERT INTO subscriptions (id, user_id, tier, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var idStr string
	if err := tx.QueryRow(
		ctx,
		query,
		s.ID().String(),
		s.UserID(),
		s.Tier().String(),
		s.StartsAt(),
		s.EndsAt(),
		s.CreatedAt(),
		s.UpdatedAt(),
	).Scan(&idStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *SubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) (*subscription.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET tier = $1, starts_at = $2, ends_at = $3, updated_at = $4
		WHERE id = $5
		RETURNING id
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var idStr string
	if err := tx.QueryRow(
		ctx,
		query,
		s.Tier().String(),
		s.StartsAt(),
		s.EndsAt(),
		s.UpdatedAt(),
		s.ID().String(),
	).Scan(&idStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id.String())
	return err
}

func (r *SubscriptionRepository) querySubscriptions(ctx context.Context, query string, args ...interface{}) ([]*subscription.Subscription, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var subscriptions []*subscription.Subscription
	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Tier,
			&s.StartsAt,
			&s.EndsAt,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan subscription row")
		}
		domainSubscription, err := ToDomainSubscription(&s)
		if err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, domainSubscription)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return subscriptions, nil
}
