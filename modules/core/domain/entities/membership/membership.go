package membership

import (
	"time"

	"github.com/google/uuid"
)

// Membership assigns a user a role within one club. A user holds at most one
// row per (club, role) pair; the same role in different clubs is two
// memberships.
type Membership struct {
	id        uuid.UUID
	userID    string
	clubID    string
	role      string
	createdAt time.Time
	updatedAt time.Time
}

type Option func(*Membership)

func WithID(id uuid.UUID) Option {
	return func(m *Membership) {
		m.id = id
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(m *Membership) {
		m.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(m *Membership) {
		m.updatedAt = updatedAt
	}
}

func New(userID, clubID, role string, opts ...Option) *Membership {
	m := &Membership{
		id:        uuid.New(),
		userID:    userID,
		clubID:    clubID,
		role:      role,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Membership) ID() uuid.UUID {
	return m.id
}

func (m *Membership) UserID() string {
	return m.userID
}

func (m *Membership) ClubID() string {
	return m.clubID
}

func (m *Membership) Role() string {
	return m.role
}

func (m *Membership) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Membership) UpdatedAt() time.Time {
	return m.updatedAt
}

func (m *Membership) SetRole(role string) {
	m.role = role
	m.updatedAt = time.Now()
}
