// Package access computes per-request data visibility: which corporate
// clients, programs and locations a principal may see in list queries.
package access

import (
	"context"
	"fmt"

	"github.com/CareFleet/care-fleet-backend/store"
	"github.com/CareFleet/care-fleet-backend/types"
)

// Calculator resolves corporate-admin breadth. Narrower roles
// (program_admin, program_user, driver) are scoped by their own
// assignment records upstream, so this calculator defers for them
// rather than guessing.
type Calculator struct {
	programs store.ProgramStore
}

// NewCalculator creates a data-access scope calculator over the
// corporate->programs membership store.
func NewCalculator(programs store.ProgramStore) *Calculator {
	return &Calculator{programs: programs}
}

// GetDataAccessScope computes the visibility triple for a role. The
// result is recomputed on every call and must not be cached across
// requests, so role changes take effect immediately.
func (c *Calculator) GetDataAccessScope(ctx context.Context, role types.Role, corporateClientID string) (types.DataAccessScope, error) {
	switch role {
	case types.RoleSuperAdmin:
		corporates, err := c.programs.ListCorporateClientIDs(ctx)
		if err != nil {
			return types.DataAccessScope{}, fmt.Errorf("list corporate clients: %w", err)
		}
		programs, err := c.programs.ListProgramIDs(ctx)
		if err != nil {
			return types.DataAccessScope{}, fmt.Errorf("list programs: %w", err)
		}
		return types.DataAccessScope{
			CorporateClients: types.ExplicitScope(corporates...),
			Programs:         types.ExplicitScope(programs...),
			Locations:        types.UnrestrictedScope(),
		}, nil

	case types.RoleCorporateAdmin:
		if corporateClientID == "" {
			// No corporate client supplied: explicitly nothing, not
			// "everything I'm assigned to".
			return types.DataAccessScope{
				CorporateClients: types.ExplicitScope(),
				Programs:         types.ExplicitScope(),
				Locations:        types.ExplicitScope(),
			}, nil
		}
		programs, err := c.programs.ListProgramIDsByCorporateClient(ctx, corporateClientID)
		if err != nil {
			return types.DataAccessScope{}, fmt.Errorf("list programs for corporate client %s: %w", corporateClientID, err)
		}
		return types.DataAccessScope{
			CorporateClients: types.ExplicitScope(corporateClientID),
			Programs:         types.ExplicitScope(programs...),
			Locations:        types.UnrestrictedScope(),
		}, nil

	default:
		// Program-level roles and drivers: visibility comes from the
		// user's primaryProgramId/authorizedPrograms assignments,
		// resolved by the caller.
		return types.DataAccessScope{
			CorporateClients: types.DeferredScope(),
			Programs:         types.DeferredScope(),
			Locations:        types.DeferredScope(),
		}, nil
	}
}

// CanAccessProgramByCorporateClient decides corporate-membership access
// to a program: unconditional for super_admin, membership-checked for
// corporate_admin, and false for every other role. Program-level roles
// are gated by direct program assignment elsewhere, never by corporate
// membership.
func (c *Calculator) CanAccessProgramByCorporateClient(
	ctx context.Context,
	role types.Role,
	userCorporateClientID, requestedProgramID string,
) (bool, error) {
	switch role {
	case types.RoleSuperAdmin:
		return true, nil
	case types.RoleCorporateAdmin:
		if userCorporateClientID == "" || requestedProgramID == "" {
			return false, nil
		}
		programs, err := c.programs.ListProgramIDsByCorporateClient(ctx, userCorporateClientID)
		if err != nil {
			return false, fmt.Errorf("list programs for corporate client %s: %w", userCorporateClientID, err)
		}
		for _, id := range programs {
			if id == requestedProgramID {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, nil
	}
}
