package types

import "time"

// Permission names an operation a role may be granted, e.g. "create_trip".
type Permission string

// Resource names the entity type a permission applies to. ResourceAll is
// the wildcard used by grants that are not resource-specific.
type Resource string

const (
	PermissionCreateTrip    Permission = "create_trip"
	PermissionUpdateTrip    Permission = "update_trip"
	PermissionCancelTrip    Permission = "cancel_trip"
	PermissionAssignDriver  Permission = "assign_driver"
	PermissionManageClients Permission = "manage_clients"
	PermissionManageUsers   Permission = "manage_users"
	PermissionViewReports   Permission = "view_reports"
)

const (
	ResourceAll      Resource = "*"
	ResourceTrip     Resource = "trip"
	ResourceClient   Resource = "client"
	ResourceDriver   Resource = "driver"
	ResourceProgram  Resource = "program"
	ResourceLocation Resource = "location"
)

// String returns the string representation of the permission.
func (p Permission) String() string {
	return string(p)
}

// String returns the string representation of the resource.
func (r Resource) String() string {
	return string(r)
}

// GrantSource tags the hierarchy level a grant row was resolved from.
type GrantSource string

const (
	GrantSourceGlobal    GrantSource = "global"
	GrantSourceCorporate GrantSource = "corporate"
	GrantSourceProgram   GrantSource = "program"
)

// PermissionGrant is a persisted permission rule for a role at a scope.
// A grant with neither ProgramID nor CorporateClientID is global for the
// role. Grants are never mutated in place: changes are revoke+recreate.
type PermissionGrant struct {
	ID                string     `json:"id"`
	Role              Role       `json:"role"`
	Permission        Permission `json:"permission"`
	Resource          Resource   `json:"resource"`
	ProgramID         *string    `json:"programId,omitempty"`
	CorporateClientID *string    `json:"corporateClientId,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// Source derives the hierarchy level of the grant: program scope wins
// over corporate scope when both ids are set on the row.
func (g PermissionGrant) Source() GrantSource {
	switch {
	case g.ProgramID != nil && *g.ProgramID != "":
		return GrantSourceProgram
	case g.CorporateClientID != nil && *g.CorporateClientID != "":
		return GrantSourceCorporate
	default:
		return GrantSourceGlobal
	}
}

// EffectivePermission is a grant annotated with the hierarchy level it
// was resolved from. Derived at query time, never stored.
type EffectivePermission struct {
	PermissionGrant
	SourceLevel GrantSource `json:"source"`
}
