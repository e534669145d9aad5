package store

import (
	"context"

	"github.com/CareFleet/care-fleet-backend/types"
)

// GrantQuery narrows FindGrants to one hierarchy level. Exactly one of
// the three level predicates applies:
//   - Level program: rows whose program_id matches ProgramID OR is NULL,
//     regardless of corporate_client_id. A program-scoped check must see
//     program rules and global rules, never corporate-only rules leaking
//     through a partial match.
//   - Level corporate: rows whose corporate_client_id matches
//     CorporateClientID OR is NULL.
//   - Level global: rows with both scope columns NULL.
//
// Permission and Resource additionally filter rows when non-empty.
type GrantQuery struct {
	Level             types.PermissionLevel
	ProgramID         string
	CorporateClientID string
	Permission        types.Permission
	Resource          types.Resource
}

// Matches reports whether a grant row satisfies the query's level
// predicate and its optional permission/resource filters. This is the
// reference predicate; SQL implementations must mirror it exactly.
func (q GrantQuery) Matches(g types.PermissionGrant) bool {
	if q.Permission != "" && g.Permission != q.Permission {
		return false
	}
	if q.Resource != "" && g.Resource != q.Resource {
		return false
	}

	programID := ""
	if g.ProgramID != nil {
		programID = *g.ProgramID
	}
	corporateID := ""
	if g.CorporateClientID != nil {
		corporateID = *g.CorporateClientID
	}

	switch q.Level {
	case types.PermissionLevelProgram:
		return programID == q.ProgramID || programID == ""
	case types.PermissionLevelCorporate:
		return corporateID == q.CorporateClientID || corporateID == ""
	default:
		return programID == "" && corporateID == ""
	}
}

// PermissionStore persists permission grant rows. Uniqueness of the
// (role, permission, resource, program_id, corporate_client_id) tuple is
// enforced by the store's own constraint, never by check-then-insert.
type PermissionStore interface {
	// FindGrants returns grants for the role matching the query. An
	// empty result is a nil/empty slice, never an error.
	FindGrants(ctx context.Context, role types.Role, q GrantQuery) ([]types.PermissionGrant, error)

	// InsertGrant persists a new grant, returning ErrDuplicate when the
	// tuple already exists.
	InsertGrant(ctx context.Context, grant types.PermissionGrant) (*types.PermissionGrant, error)

	// DeleteGrant removes a grant by id, returning ErrNotFound when no
	// row matches.
	DeleteGrant(ctx context.Context, id string) error
}

// UserStore resolves principals to their role and assignments.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*types.User, error)
}

// ProgramStore exposes the corporate-client -> program membership used
// by data-access scoping.
type ProgramStore interface {
	ListCorporateClientIDs(ctx context.Context) ([]string, error)
	ListProgramIDs(ctx context.Context) ([]string, error)
	ListProgramIDsByCorporateClient(ctx context.Context, corporateClientID string) ([]string, error)
}

// TripStore persists trips. Trips are never hard-deleted; cancellation
// is a status, not a deletion.
type TripStore interface {
	CreateTrip(ctx context.Context, trip types.Trip) (*types.Trip, error)
	GetTrip(ctx context.Context, id string) (*types.Trip, error)
	ListTrips(ctx context.Context, filter types.TripFilter) ([]types.Trip, error)
	UpdateTripStatus(ctx context.Context, id string, update types.TripStatusUpdate) (*types.Trip, error)
}
