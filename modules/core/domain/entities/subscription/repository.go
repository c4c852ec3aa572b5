package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	// ActiveForUser returns the highest-tier subscription covering the given
	// instant, or ErrSubscriptionNotFound when the user has none.
	ActiveForUser(ctx context.Context, userID string, at time.Time) (*Subscription, error)
	ListForUser(ctx context.Context, userID string) ([]*Subscription, error)
	Create(ctx context.Context, s *Subscription) (*Subscription, error)
	Update(ctx context.Context, s *Subscription) (*Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
