package types

import "fmt"

// Role identifies a user's position in the organizational hierarchy.
// Privilege is scope-dependent, not linear: a corporate_admin is not
// "above" a program_admin outside its own corporate client.
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleCorporateAdmin Role = "corporate_admin"
	RoleProgramAdmin   Role = "program_admin"
	RoleProgramUser    Role = "program_user"
	RoleDriver         Role = "driver"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the recognized roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleCorporateAdmin, RoleProgramAdmin, RoleProgramUser, RoleDriver:
		return true
	}
	return false
}

// ParseRole converts a raw string (e.g. a JWT claim) into a Role,
// rejecting unknown values at construction time rather than letting
// them flow into permission checks as a silent deny.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}
