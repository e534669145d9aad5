package postgres

import (
	"context"
	"fmt"
)

// ProgramStore implements store.ProgramStore using PostgreSQL.
type ProgramStore struct {
	db DB
}

// NewProgramStore creates a ProgramStore instance.
func NewProgramStore(db DB) *ProgramStore {
	return &ProgramStore{db: db}
}

func (s *ProgramStore) listIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return ids, nil
}

// ListCorporateClientIDs returns the ids of all active corporate clients.
func (s *ProgramStore) ListCorporateClientIDs(ctx context.Context) ([]string, error) {
	ids, err := s.listIDs(ctx, "SELECT id FROM corporate_clients WHERE active")
	if err != nil {
		return nil, fmt.Errorf("error listing corporate clients: %w", err)
	}
	return ids, nil
}

// ListProgramIDs returns the ids of all active programs.
func (s *ProgramStore) ListProgramIDs(ctx context.Context) ([]string, error) {
	ids, err := s.listIDs(ctx, "SELECT id FROM programs WHERE active")
	if err != nil {
		return nil, fmt.Errorf("error listing programs: %w", err)
	}
	return ids, nil
}

// ListProgramIDsByCorporateClient returns the ids of a corporate
// client's active programs.
func (s *ProgramStore) ListProgramIDsByCorporateClient(ctx context.Context, corporateClientID string) ([]string, error) {
	ids, err := s.listIDs(ctx,
		"SELECT id FROM programs WHERE corporate_client_id = $1 AND active",
		corporateClientID,
	)
	if err != nil {
		return nil, fmt.Errorf("error listing programs for corporate client %s: %w", corporateClientID, err)
	}
	return ids, nil
}
