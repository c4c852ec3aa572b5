package subscription

import (
	"time"

	"github.com/google/uuid"

	"github.com/readcircle/readcircle-sdk/modules/core/permissions"
)

// Subscription is a user's paid tier over a validity window. EndsAt is nil
// for open-ended plans.
type Subscription struct {
	id        uuid.UUID
	userID    string
	tier      permissions.Tier
	startsAt  time.Time
	endsAt    *time.Time
	createdAt time.Time
	updatedAt time.Time
}

type Option func(*Subscription)

func WithID(id uuid.UUID) Option {
	return func(s *Subscription) {
		s.id = id
	}
}

func WithEndsAt(endsAt *time.Time) Option {
	return func(s *Subscription) {
		s.endsAt = endsAt
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(s *Subscription) {
		s.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(s *Subscription) {
		s.updatedAt = updatedAt
	}
}

func New(userID string, tier permissions.Tier, startsAt time.Time, opts ...Option) *Subscription {
	s := &Subscription{
		id:        uuid.New(),
		userID:    userID,
		tier:      tier,
		startsAt:  startsAt,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Subscription) ID() uuid.UUID {
	return s.id
}

func (s *Subscription) UserID() string {
	return s.userID
}

func (s *Subscription) Tier() permissions.Tier {
	return s.tier
}

func (s *Subscription) StartsAt() time.Time {
	return s.startsAt
}

func (s *Subscription) EndsAt() *time.Time {
	return s.endsAt
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// ActiveAt reports whether the subscription covers the given instant.
func (s *Subscription) ActiveAt(t time.Time) bool {
	if t.Before(s.startsAt) {
		return false
	}
	if s.endsAt != nil && !t.Before(*s.endsAt) {
		return false
	}
	return true
}

// Cancel closes the validity window at the given instant.
func (s *Subscription) Cancel(at time.Time) {
	s.endsAt = &at
	s.updatedAt = time.Now()
}
