// Package permission implements the hierarchical permission-resolution
// engine: scope resolution, effective-permission queries and the
// grant/revoke administration path.
package permission

import "github.com/CareFleet/care-fleet-backend/types"

// ResolveScope shapes the organizational scope a permission check is
// evaluated at. It performs no I/O and no existence validation; it only
// decides the coordinates of the query.
//
// A super_admin is scope-transcendent: whatever ids the caller supplies,
// the resolved scope is global.
func ResolveScope(role types.Role, corporateClientID, programID string) types.OrganizationalScope {
	if role == types.RoleSuperAdmin {
		return types.GlobalScope
	}
	return types.OrganizationalScope{
		CorporateClientID: corporateClientID,
		ProgramID:         programID,
	}
}
