package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"super_admin is valid", RoleSuperAdmin, true},
		{"corporate_admin is valid", RoleCorporateAdmin, true},
		{"program_admin is valid", RoleProgramAdmin, true},
		{"program_user is valid", RoleProgramUser, true},
		{"driver is valid", RoleDriver, true},
		{"invalid role", Role("dispatcher"), false},
		{"empty role", Role(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.IsValid())
		})
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("program_admin")
	require.NoError(t, err)
	assert.Equal(t, RoleProgramAdmin, role)

	_, err = ParseRole("root")
	assert.Error(t, err)

	_, err = ParseRole("")
	assert.Error(t, err)
}
