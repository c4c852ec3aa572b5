package membership

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrMembershipNotFound = errors.New("membership not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Membership, error)
	// ForUser lists the user's memberships ordered by creation time, oldest
	// first. Role attribution follows this order.
	ForUser(ctx context.Context, userID string) ([]*Membership, error)
	// UserIDsForClub lists the distinct members of a club, for bulk cache
	// invalidation when the club changes or is deleted.
	UserIDsForClub(ctx context.Context, clubID string) ([]string, error)
	Create(ctx context.Context, m *Membership) (*Membership, error)
	Update(ctx context.Context, m *Membership) (*Membership, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
