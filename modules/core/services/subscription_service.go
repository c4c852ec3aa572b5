package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/readcircle/readcircle-sdk/modules/core/domain/entities/subscription"
	"github.com/readcircle/readcircle-sdk/pkg/composables"
	"github.com/readcircle/readcircle-sdk/pkg/eventbus"
)

type SubscriptionService struct {
	repo      subscription.Repository
	publisher eventbus.EventBus
}

func NewSubscriptionService(repo subscription.Repository, publisher eventbus.EventBus) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *SubscriptionService) GetByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SubscriptionService) ActiveForUser(ctx context.Context, userID string, at time.Time) (*subscription.Subscription, error) {
	return s.repo.ActiveForUser(ctx, userID, at)
}

func (s *SubscriptionService) ListForUser(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *SubscriptionService) Create(ctx context.Context, data *subscription.Subscription) (*subscription.Subscription, error) {
	var created *subscription.Subscription
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		entity, err := s.repo.Create(txCtx, data)
		if err != nil {
			return err
		}
		created = entity
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(subscription.NewCreatedEvent(created))
	return created, nil
}

// Cancel closes the subscription's validity window at the given instant. The
// user drops to the free tier once the window ends.
func (s *SubscriptionService) Cancel(ctx context.Context, id uuid.UUID, at time.Time) (*subscription.Subscription, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entity.Cancel(at)

	var updated *subscription.Subscription
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Update(txCtx, entity)
		if err != nil {
			return err
		}
		updated = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(subscription.NewUpdatedEvent(updated))
	return updated, nil
}

func (s *SubscriptionService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(subscription.NewDeletedEvent(entity))
	return nil
}
