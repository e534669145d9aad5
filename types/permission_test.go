package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestPermissionGrant_Source(t *testing.T) {
	tests := []struct {
		name     string
		grant    PermissionGrant
		expected GrantSource
	}{
		{
			name:     "no scope ids is global",
			grant:    PermissionGrant{Role: RoleProgramAdmin, Permission: PermissionCreateTrip, Resource: ResourceAll},
			expected: GrantSourceGlobal,
		},
		{
			name:     "corporate id only is corporate",
			grant:    PermissionGrant{CorporateClientID: strPtr("acme")},
			expected: GrantSourceCorporate,
		},
		{
			name:     "program id only is program",
			grant:    PermissionGrant{ProgramID: strPtr("p1")},
			expected: GrantSourceProgram,
		},
		{
			name:     "program wins when both ids set",
			grant:    PermissionGrant{ProgramID: strPtr("p1"), CorporateClientID: strPtr("acme")},
			expected: GrantSourceProgram,
		},
		{
			name:     "empty-string ids count as unset",
			grant:    PermissionGrant{ProgramID: strPtr(""), CorporateClientID: strPtr("")},
			expected: GrantSourceGlobal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.grant.Source())
		})
	}
}
