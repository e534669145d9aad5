package permission

import (
	"context"
	"testing"

	"github.com/CareFleet/care-fleet-backend/store"
	"github.com/CareFleet/care-fleet-backend/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

type fakeUserStore struct {
	users map[string]*types.User
}

func (f *fakeUserStore) GetUser(_ context.Context, id string) (*types.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

// fakeGrantStore filters in memory through the reference predicate, the
// same one the SQL implementation mirrors.
type fakeGrantStore struct {
	grants []types.PermissionGrant
	err    error
}

func (f *fakeGrantStore) FindGrants(_ context.Context, role types.Role, q store.GrantQuery) ([]types.PermissionGrant, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []types.PermissionGrant
	for _, g := range f.grants {
		if g.Role == role && q.Matches(g) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGrantStore) InsertGrant(_ context.Context, grant types.PermissionGrant) (*types.PermissionGrant, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, g := range f.grants {
		if g.Role == grant.Role && g.Permission == grant.Permission && g.Resource == grant.Resource &&
			eqPtr(g.ProgramID, grant.ProgramID) && eqPtr(g.CorporateClientID, grant.CorporateClientID) {
			return nil, store.ErrDuplicate
		}
	}
	grant.ID = uuid.New().String()
	f.grants = append(f.grants, grant)
	return &grant, nil
}

func (f *fakeGrantStore) DeleteGrant(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	for i, g := range f.grants {
		if g.ID == id {
			f.grants = append(f.grants[:i], f.grants[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func eqPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func newTestResolver(users map[string]*types.User, grants ...types.PermissionGrant) (*Resolver, *fakeGrantStore) {
	gs := &fakeGrantStore{grants: grants}
	return NewResolver(&fakeUserStore{users: users}, gs), gs
}

func programAdmin(id string) map[string]*types.User {
	return map[string]*types.User{
		id: {ID: id, Role: types.RoleProgramAdmin, PrimaryProgramID: "p1"},
	}
}

func TestCheckPermission_GlobalGrantSatisfiesProgramScopedCheck(t *testing.T) {
	r, _ := newTestResolver(programAdmin("u1"), types.PermissionGrant{
		ID:         "g1",
		Role:       types.RoleProgramAdmin,
		Permission: types.PermissionCreateTrip,
		Resource:   types.ResourceAll,
	})

	ok, err := r.CheckPermission(context.Background(), "u1", types.PermissionCreateTrip, types.ResourceAll, "p1", "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckPermission_GrantForOtherProgramDenied(t *testing.T) {
	r, _ := newTestResolver(programAdmin("u1"), types.PermissionGrant{
		ID:         "g1",
		Role:       types.RoleProgramAdmin,
		Permission: types.PermissionCreateTrip,
		Resource:   types.ResourceAll,
		ProgramID:  strPtr("p2"),
	})

	ok, err := r.CheckPermission(context.Background(), "u1", types.PermissionCreateTrip, types.ResourceAll, "p1", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPermission_NoGrantsIsDenialNotError(t *testing.T) {
	r, _ := newTestResolver(programAdmin("u1"))

	ok, err := r.CheckPermission(context.Background(), "u1", types.PermissionCancelTrip, types.ResourceTrip, "p1", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPermission_UserNotFound(t *testing.T) {
	r, _ := newTestResolver(map[string]*types.User{})

	_, err := r.CheckPermission(context.Background(), "ghost", types.PermissionCreateTrip, types.ResourceAll, "p1", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCheckPermission_RelationUnavailableIsDistinguishable(t *testing.T) {
	r, gs := newTestResolver(programAdmin("u1"))
	gs.err = store.ErrRelationUnavailable

	_, err := r.CheckPermission(context.Background(), "u1", types.PermissionCreateTrip, types.ResourceAll, "p1", "")
	assert.ErrorIs(t, err, store.ErrRelationUnavailable)
}

func TestCheckPermission_SuperAdminEvaluatedGlobally(t *testing.T) {
	users := map[string]*types.User{
		"root": {ID: "root", Role: types.RoleSuperAdmin},
	}
	// Only a global grant exists; the supplied program id must not
	// narrow the query for a super_admin.
	r, _ := newTestResolver(users, types.PermissionGrant{
		ID:         "g1",
		Role:       types.RoleSuperAdmin,
		Permission: types.PermissionManageUsers,
		Resource:   types.ResourceAll,
	})

	ok, err := r.CheckPermission(context.Background(), "root", types.PermissionManageUsers, types.ResourceAll, "p9", "acme")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckPermission_ProgramScopePreferredOverCorporate(t *testing.T) {
	// The grant is scoped to program p1 under corporate acme. With both
	// ids supplied, the program branch runs first and finds it.
	r, _ := newTestResolver(programAdmin("u1"), types.PermissionGrant{
		ID:                "g1",
		Role:              types.RoleProgramAdmin,
		Permission:        types.PermissionAssignDriver,
		Resource:          types.ResourceTrip,
		ProgramID:         strPtr("p1"),
		CorporateClientID: strPtr("acme"),
	})

	ok, err := r.CheckPermission(context.Background(), "u1", types.PermissionAssignDriver, types.ResourceTrip, "p1", "acme")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetEffectivePermissions_TagsSourceLevel(t *testing.T) {
	r, _ := newTestResolver(programAdmin("u1"),
		types.PermissionGrant{ID: "global", Role: types.RoleProgramAdmin, Permission: types.PermissionCreateTrip, Resource: types.ResourceAll},
		types.PermissionGrant{ID: "prog", Role: types.RoleProgramAdmin, Permission: types.PermissionCancelTrip, Resource: types.ResourceTrip, ProgramID: strPtr("p1")},
		types.PermissionGrant{ID: "corp", Role: types.RoleProgramAdmin, Permission: types.PermissionViewReports, Resource: types.ResourceAll, CorporateClientID: strPtr("acme")},
		types.PermissionGrant{ID: "other", Role: types.RoleProgramAdmin, Permission: types.PermissionCreateTrip, Resource: types.ResourceAll, ProgramID: strPtr("p2")},
	)

	effective, err := r.GetEffectivePermissions(context.Background(), "u1", types.PermissionLevelProgram, "", "p1")
	require.NoError(t, err)

	sources := map[string]types.GrantSource{}
	for _, e := range effective {
		sources[e.ID] = e.SourceLevel
	}

	// Program query: program-specific and program-id-NULL rows match,
	// the p2 grant does not.
	assert.Equal(t, types.GrantSourceGlobal, sources["global"])
	assert.Equal(t, types.GrantSourceProgram, sources["prog"])
	assert.Equal(t, types.GrantSourceCorporate, sources["corp"])
	assert.NotContains(t, sources, "other")
}

func TestGetEffectivePermissions_GlobalLevelOnlyGlobalRows(t *testing.T) {
	r, _ := newTestResolver(programAdmin("u1"),
		types.PermissionGrant{ID: "global", Role: types.RoleProgramAdmin, Permission: types.PermissionCreateTrip, Resource: types.ResourceAll},
		types.PermissionGrant{ID: "prog", Role: types.RoleProgramAdmin, Permission: types.PermissionCreateTrip, Resource: types.ResourceAll, ProgramID: strPtr("p1")},
	)

	effective, err := r.GetEffectivePermissions(context.Background(), "u1", types.PermissionLevelGlobal, "", "")
	require.NoError(t, err)
	require.Len(t, effective, 1)
	assert.Equal(t, "global", effective[0].ID)
}

func TestGetEffectivePermissions_LevelRequiresMatchingID(t *testing.T) {
	r, _ := newTestResolver(programAdmin("u1"))

	_, err := r.GetEffectivePermissions(context.Background(), "u1", types.PermissionLevelProgram, "", "")
	assert.Error(t, err)

	_, err = r.GetEffectivePermissions(context.Background(), "u1", types.PermissionLevelCorporate, "", "")
	assert.Error(t, err)
}

func TestGrantPermission_DuplicateTupleConflicts(t *testing.T) {
	r, _ := newTestResolver(programAdmin("u1"))

	grant := types.PermissionGrant{
		Role:       types.RoleProgramAdmin,
		Permission: types.PermissionCreateTrip,
		Resource:   types.ResourceAll,
		ProgramID:  strPtr("p1"),
	}

	created, err := r.GrantPermission(context.Background(), grant)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = r.GrantPermission(context.Background(), grant)
	assert.ErrorIs(t, err, ErrAlreadyGranted)
}

func TestGrantPermission_InvalidRoleRejected(t *testing.T) {
	r, _ := newTestResolver(programAdmin("u1"))

	_, err := r.GrantPermission(context.Background(), types.PermissionGrant{
		Role:       "dispatcher",
		Permission: types.PermissionCreateTrip,
	})
	assert.Error(t, err)
}

func TestRevokePermission_Idempotent(t *testing.T) {
	r, _ := newTestResolver(programAdmin("u1"))

	created, err := r.GrantPermission(context.Background(), types.PermissionGrant{
		Role:       types.RoleProgramAdmin,
		Permission: types.PermissionCreateTrip,
		Resource:   types.ResourceAll,
	})
	require.NoError(t, err)

	require.NoError(t, r.RevokePermission(context.Background(), created.ID))
	// Second revoke of the same id still succeeds.
	assert.NoError(t, r.RevokePermission(context.Background(), created.ID))
	// So does revoking an id that never existed.
	assert.NoError(t, r.RevokePermission(context.Background(), uuid.New().String()))
}
