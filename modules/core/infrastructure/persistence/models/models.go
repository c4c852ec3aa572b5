package models

import (
	"database/sql"
	"time"
)

type Membership struct {
	ID        string
	UserID    string
	ClubID    string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Subscription struct {
	ID        string
	UserID    string
	Tier      string
	StartsAt  time.Time
	EndsAt    sql.NullTime
	CreatedAt time.Time
	UpdatedAt time.Time
}
