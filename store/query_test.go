package store

import (
	"testing"

	"github.com/CareFleet/care-fleet-backend/types"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func grant(programID, corporateID *string) types.PermissionGrant {
	return types.PermissionGrant{
		Role:              types.RoleProgramAdmin,
		Permission:        types.PermissionCreateTrip,
		Resource:          types.ResourceAll,
		ProgramID:         programID,
		CorporateClientID: corporateID,
	}
}

func TestGrantQuery_ProgramLevelPredicate(t *testing.T) {
	q := GrantQuery{Level: types.PermissionLevelProgram, ProgramID: "p1"}

	// Program-specific grants union global grants, regardless of the
	// corporate id carried on the row.
	assert.True(t, q.Matches(grant(strPtr("p1"), nil)))
	assert.True(t, q.Matches(grant(strPtr("p1"), strPtr("acme"))))
	assert.True(t, q.Matches(grant(nil, nil)))
	assert.True(t, q.Matches(grant(nil, strPtr("acme"))))

	// Grants for another program never leak across.
	assert.False(t, q.Matches(grant(strPtr("p2"), nil)))
	assert.False(t, q.Matches(grant(strPtr("p2"), strPtr("acme"))))
}

func TestGrantQuery_CorporateLevelPredicate(t *testing.T) {
	q := GrantQuery{Level: types.PermissionLevelCorporate, CorporateClientID: "acme"}

	assert.True(t, q.Matches(grant(nil, strPtr("acme"))))
	assert.True(t, q.Matches(grant(nil, nil)))
	// A program-scoped row with a NULL corporate id satisfies the
	// corporate predicate's NULL branch. Pinned deliberately: the
	// predicate is exactly (corporate == requested OR corporate IS NULL).
	assert.True(t, q.Matches(grant(strPtr("p1"), nil)))

	assert.False(t, q.Matches(grant(nil, strPtr("globex"))))
	assert.False(t, q.Matches(grant(strPtr("p1"), strPtr("globex"))))
}

func TestGrantQuery_GlobalLevelPredicate(t *testing.T) {
	q := GrantQuery{Level: types.PermissionLevelGlobal}

	assert.True(t, q.Matches(grant(nil, nil)))
	assert.False(t, q.Matches(grant(strPtr("p1"), nil)))
	assert.False(t, q.Matches(grant(nil, strPtr("acme"))))
	assert.False(t, q.Matches(grant(strPtr("p1"), strPtr("acme"))))
}

func TestGrantQuery_PermissionAndResourceFilters(t *testing.T) {
	q := GrantQuery{
		Level:      types.PermissionLevelGlobal,
		Permission: types.PermissionCreateTrip,
		Resource:   types.ResourceAll,
	}

	assert.True(t, q.Matches(grant(nil, nil)))

	other := grant(nil, nil)
	other.Permission = types.PermissionCancelTrip
	assert.False(t, q.Matches(other))

	other = grant(nil, nil)
	other.Resource = types.ResourceTrip
	assert.False(t, q.Matches(other))
}

func TestGrantQuery_GlobalGrantVisibleAtEveryLevel(t *testing.T) {
	global := grant(nil, nil)

	queries := []GrantQuery{
		{Level: types.PermissionLevelGlobal},
		{Level: types.PermissionLevelCorporate, CorporateClientID: "acme"},
		{Level: types.PermissionLevelProgram, ProgramID: "p1"},
	}
	for _, q := range queries {
		assert.True(t, q.Matches(global), "global grant must match %s-level query", q.Level)
	}
}
