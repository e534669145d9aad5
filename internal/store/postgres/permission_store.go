package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/CareFleet/care-fleet-backend/store"
	"github.com/CareFleet/care-fleet-backend/types"
)

// PermissionStore implements store.PermissionStore using PostgreSQL.
// Tuple uniqueness is enforced by the role_permissions unique index,
// never by a check-then-insert in Go: concurrent inserts of the same
// tuple resolve to one success and one ErrDuplicate at the database.
type PermissionStore struct {
	db DB
}

// NewPermissionStore creates a PermissionStore instance.
func NewPermissionStore(db DB) *PermissionStore {
	return &PermissionStore{db: db}
}

const grantColumns = "id, role, permission, resource, program_id, corporate_client_id, created_at"

// FindGrants returns the grant rows for a role matching the query's
// level predicate. The SQL mirrors store.GrantQuery.Matches exactly.
func (s *PermissionStore) FindGrants(ctx context.Context, role types.Role, q store.GrantQuery) ([]types.PermissionGrant, error) {
	query := fmt.Sprintf("SELECT %s FROM role_permissions WHERE role = $1", grantColumns)
	args := []any{string(role)}

	switch q.Level {
	case types.PermissionLevelProgram:
		args = append(args, q.ProgramID)
		query += fmt.Sprintf(" AND (program_id = $%d OR program_id IS NULL)", len(args))
	case types.PermissionLevelCorporate:
		args = append(args, q.CorporateClientID)
		query += fmt.Sprintf(" AND (corporate_client_id = $%d OR corporate_client_id IS NULL)", len(args))
	default:
		query += " AND program_id IS NULL AND corporate_client_id IS NULL"
	}

	if q.Permission != "" {
		args = append(args, string(q.Permission))
		query += fmt.Sprintf(" AND permission = $%d", len(args))
	}
	if q.Resource != "" {
		args = append(args, string(q.Resource))
		query += fmt.Sprintf(" AND resource = $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying permission grants: %w", translateError(err))
	}
	defer rows.Close()

	var grants []types.PermissionGrant
	for rows.Next() {
		var g types.PermissionGrant
		if err := rows.Scan(&g.ID, &g.Role, &g.Permission, &g.Resource, &g.ProgramID, &g.CorporateClientID, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning permission grant: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading permission grants: %w", translateError(err))
	}
	return grants, nil
}

// InsertGrant persists a new grant row, returning store.ErrDuplicate
// when the unique tuple index rejects it.
func (s *PermissionStore) InsertGrant(ctx context.Context, grant types.PermissionGrant) (*types.PermissionGrant, error) {
	if grant.ID == "" {
		grant.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO role_permissions (id, role, permission, resource, program_id, corporate_client_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, grantColumns)

	var created types.PermissionGrant
	err := s.db.QueryRow(ctx, query,
		grant.ID,
		string(grant.Role),
		string(grant.Permission),
		string(grant.Resource),
		grant.ProgramID,
		grant.CorporateClientID,
	).Scan(&created.ID, &created.Role, &created.Permission, &created.Resource, &created.ProgramID, &created.CorporateClientID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting permission grant: %w", translateError(err))
	}
	return &created, nil
}

// DeleteGrant removes a grant by id; store.ErrNotFound when absent.
func (s *PermissionStore) DeleteGrant(ctx context.Context, id string) error {
	cmdTag, err := s.db.Exec(ctx, "DELETE FROM role_permissions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("error deleting permission grant: %w", translateError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
