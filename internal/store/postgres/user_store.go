package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/CareFleet/care-fleet-backend/store"
	"github.com/CareFleet/care-fleet-backend/types"
)

// UserStore implements store.UserStore using PostgreSQL.
type UserStore struct {
	db DB
}

// NewUserStore creates a UserStore instance.
func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

// GetUser fetches a principal and its role/assignment fields by id.
func (s *UserStore) GetUser(ctx context.Context, id string) (*types.User, error) {
	query := `
		SELECT id, email, first_name, last_name, role,
		       COALESCE(corporate_client_id, ''),
		       COALESCE(primary_program_id, ''),
		       COALESCE(authorized_programs, '{}'),
		       active, created_at, updated_at
		FROM users
		WHERE id = $1`

	user := &types.User{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.CorporateClientID,
		&user.PrimaryProgramID,
		&user.AuthorizedPrograms,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", translateError(err))
	}
	return user, nil
}
