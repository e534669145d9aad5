package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/CareFleet/care-fleet-backend/store"
	"github.com/CareFleet/care-fleet-backend/types"
)

// Sentinel errors surfaced by the resolver. Store-level conditions
// (store.ErrRelationUnavailable in particular) propagate wrapped, so
// callers can errors.Is on them and pick a fallback policy instead of
// treating a missing table as a denial.
var (
	// ErrUserNotFound means the principal does not resolve to a role.
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyGranted means an identical grant tuple already exists.
	ErrAlreadyGranted = errors.New("permission already granted")
)

// Resolver merges global, corporate and program-level grants into the
// permission set effective for a user in a given context. Stateless;
// every check recomputes from the store.
type Resolver struct {
	users  store.UserStore
	grants store.PermissionStore
}

// NewResolver creates a permission resolver over the given stores.
func NewResolver(users store.UserStore, grants store.PermissionStore) *Resolver {
	return &Resolver{users: users, grants: grants}
}

func (r *Resolver) lookupRole(ctx context.Context, userID string) (types.Role, error) {
	user, err := r.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return "", fmt.Errorf("lookup role for user %s: %w", userID, err)
	}
	return user.Role, nil
}

// queryForLevel builds the grant query for a hierarchy level. The three
// branches are kept separate so each predicate stays independently
// testable (see store.GrantQuery.Matches).
func queryForLevel(level types.PermissionLevel, corporateClientID, programID string) (store.GrantQuery, error) {
	switch level {
	case types.PermissionLevelProgram:
		if programID == "" {
			return store.GrantQuery{}, fmt.Errorf("program-level query requires a program id")
		}
		return store.GrantQuery{Level: types.PermissionLevelProgram, ProgramID: programID}, nil
	case types.PermissionLevelCorporate:
		if corporateClientID == "" {
			return store.GrantQuery{}, fmt.Errorf("corporate-level query requires a corporate client id")
		}
		return store.GrantQuery{Level: types.PermissionLevelCorporate, CorporateClientID: corporateClientID}, nil
	case types.PermissionLevelGlobal:
		return store.GrantQuery{Level: types.PermissionLevelGlobal}, nil
	default:
		return store.GrantQuery{}, fmt.Errorf("unknown permission level %q", level)
	}
}

// GetEffectivePermissions returns the grants effective for the user at
// the requested level, each annotated with the hierarchy level it came
// from. Never cached; recomputed on every call.
func (r *Resolver) GetEffectivePermissions(
	ctx context.Context,
	userID string,
	level types.PermissionLevel,
	corporateClientID, programID string,
) ([]types.EffectivePermission, error) {
	role, err := r.lookupRole(ctx, userID)
	if err != nil {
		return nil, err
	}

	q, err := queryForLevel(level, corporateClientID, programID)
	if err != nil {
		return nil, err
	}

	grants, err := r.grants.FindGrants(ctx, role, q)
	if err != nil {
		return nil, fmt.Errorf("find grants for role %s: %w", role, err)
	}

	effective := make([]types.EffectivePermission, 0, len(grants))
	for _, g := range grants {
		effective = append(effective, types.EffectivePermission{
			PermissionGrant: g,
			SourceLevel:     g.Source(),
		})
	}
	return effective, nil
}

// CheckPermission reports whether the user may perform the permission on
// the resource in the supplied organizational context. The scope is
// shaped by ResolveScope first, so a super_admin is always evaluated
// globally. Program scope is preferred over corporate scope when both
// ids are supplied.
//
// A user with no matching grant gets (false, nil): absence of grants is
// a denial, not an error. A missing grants relation is an error the
// caller can distinguish via store.ErrRelationUnavailable.
func (r *Resolver) CheckPermission(
	ctx context.Context,
	userID string,
	perm types.Permission,
	resource types.Resource,
	programID, corporateClientID string,
) (bool, error) {
	role, err := r.lookupRole(ctx, userID)
	if err != nil {
		return false, err
	}

	scope := ResolveScope(role, corporateClientID, programID)

	level := types.PermissionLevelGlobal
	switch {
	case scope.ProgramID != "":
		level = types.PermissionLevelProgram
	case scope.CorporateClientID != "":
		level = types.PermissionLevelCorporate
	}

	q, err := queryForLevel(level, scope.CorporateClientID, scope.ProgramID)
	if err != nil {
		return false, err
	}
	q.Permission = perm
	q.Resource = resource

	grants, err := r.grants.FindGrants(ctx, role, q)
	if err != nil {
		return false, fmt.Errorf("check permission %s on %s: %w", perm, resource, err)
	}
	return len(grants) > 0, nil
}

// GrantPermission persists a new grant. Uniqueness of the tuple comes
// from the store's own constraint: two concurrent grants of the same
// tuple yield exactly one success and one ErrAlreadyGranted.
func (r *Resolver) GrantPermission(ctx context.Context, grant types.PermissionGrant) (*types.PermissionGrant, error) {
	if !grant.Role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", grant.Role)
	}
	if grant.Permission == "" {
		return nil, fmt.Errorf("permission is required")
	}
	if grant.Resource == "" {
		grant.Resource = types.ResourceAll
	}

	created, err := r.grants.InsertGrant(ctx, grant)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s/%s for role %s", ErrAlreadyGranted, grant.Permission, grant.Resource, grant.Role)
		}
		return nil, fmt.Errorf("insert grant: %w", err)
	}
	return created, nil
}

// RevokePermission deletes a grant by id. Revoking an id that no longer
// exists succeeds: revocation is idempotent, and the end state (no such
// grant) is what the caller asked for.
func (r *Resolver) RevokePermission(ctx context.Context, id string) error {
	if err := r.grants.DeleteGrant(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete grant %s: %w", id, err)
	}
	return nil
}
