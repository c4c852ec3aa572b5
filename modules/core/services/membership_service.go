package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/readcircle/readcircle-sdk/modules/core/domain/entities/membership"
	"github.com/readcircle/readcircle-sdk/pkg/composables"
	"github.com/readcircle/readcircle-sdk/pkg/eventbus"
)

type MembershipService struct {
	repo      membership.Repository
	publisher eventbus.EventBus
}

func NewMembershipService(repo membership.Repository, publisher eventbus.EventBus) *MembershipService {
	return &MembershipService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *MembershipService) GetByID(ctx context.Context, id uuid.UUID) (*membership.Membership, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MembershipService) ForUser(ctx context.Context, userID string) ([]*membership.Membership, error) {
	return s.repo.ForUser(ctx, userID)
}

func (s *MembershipService) UserIDsForClub(ctx context.Context, clubID string) ([]string, error) {
	return s.repo.UserIDsForClub(ctx, clubID)
}

func (s *MembershipService) Create(ctx context.Context, data *membership.Membership) (*membership.Membership, error) {
	var created *membership.Membership
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

	s.publisher.Publish(membership.NewCreatedEvent(created))
	return created, nil
}

func (s *MembershipService) Update(ctx context.Context, data *membership.Membership) (*membership.Membership, error) {
	var updated *membership.Membership
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		entity, err := s.repo.Update(txCtx, data)
		if err != nil {
			return err
		}
		updated = entity
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(membership.NewUpdatedEvent(updated))
	return updated, nil
}

func (s *MembershipService) Delete(ctx context.Context, id uuid.UUID) error {
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

	s.publisher.Publish(membership.NewDeletedEvent(entity))
	return nil
}
