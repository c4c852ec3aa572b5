package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/readcircle/readcircle-sdk/modules/core/domain/entities/membership"
	"github.com/readcircle/readcircle-sdk/modules/core/infrastructure/persistence/models"
	"github.com/readcircle/readcircle-sdk/pkg/composables"
)

const (
	membershipFindQuery = `SELECT id, user_id, club_id, role, created_at, updated_at FROM memberships`
)

type MembershipRepository struct{}

func NewMembershipRepository() membership.Repository {
	return &MembershipRepository{}
}

func (r *MembershipRepository) GetByID(ctx context.Context, id uuid.UUID) (*membership.Membership, error) {
	query := membershipFindQuery + " WHERE id = $1"
	memberships, err := r.queryMemberships(ctx, query, id.String())
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, membership.ErrMembershipNotFound
	}
	return memberships[0], nil
}

func (r *MembershipRepository) ForUser(ctx context.Context, userID string) ([]*membership.Membership, error) {
	query := membershipFindQuery + " WHERE user_id = $1 ORDER BY created_at, id"
	return r.queryMemberships(ctx, query, userID)
}

func (r *MembershipRepository) UserIDsForClub(ctx context.Context, clubID string) ([]string, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, `SELECT DISTINCT user_id FROM memberships WHERE club_id = $1`, clubID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, errors.Wrap(err, "failed to scan user id")
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return userIDs, nil
}

func (r *MembershipRepository) Create(ctx context.Context, m *membership.Membership) (*membership.Membership, error) {
	query := `
		INSERT INTO memberships (id, user_id, club_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
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
		m.ID().String(),
		m.UserID(),
		m.ClubID(),
		m.Role(),
		m.CreatedAt(),
		m.UpdatedAt(),
	).Scan(&idStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *MembershipRepository) Update(ctx context.Context, m *membership.Membership) (*membership.Membership, error) {
	query := `
		UPDATE memberships
		SET role = $1, updated_at = $2
		WHERE id = $3
		RETURNING id
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var idStr string
	if err := tx.QueryRow(ctx, query, m.Role(), m.UpdatedAt(), m.ID().String()).Scan(&idStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *MembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM memberships WHERE id = $1`, id.String())
	return err
}

func (r *MembershipRepository) queryMemberships(ctx context.Context, query string, args ...interface{}) ([]*membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var memberships []*membership.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.ClubID,
			&m.Role,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan membership row")
		}
		domainMembership, err := ToDomainMembership(&m)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, domainMembership)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return memberships, nil
}
