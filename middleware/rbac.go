package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/CareFleet/care-fleet-backend/errors"
	"github.com/CareFleet/care-fleet-backend/logger"
	"github.com/CareFleet/care-fleet-backend/models/permission"
	"github.com/CareFleet/care-fleet-backend/store"
	"github.com/CareFleet/care-fleet-backend/types"
)

// legacyRolePermissions is the fallback policy applied when the
// permission store's relation is missing (a migration gap). It encodes
// the pre-database permission matrix so a broken deployment degrades to
// known-safe defaults instead of locking everyone out.
var legacyRolePermissions = map[types.Role][]types.Permission{
	types.RoleSuperAdmin: {
		types.PermissionCreateTrip, types.PermissionUpdateTrip, types.PermissionCancelTrip,
		types.PermissionAssignDriver, types.PermissionManageClients, types.PermissionManageUsers,
		types.PermissionViewReports,
	},
	types.RoleCorporateAdmin: {
		types.PermissionCreateTrip, types.PermissionUpdateTrip, types.PermissionCancelTrip,
		types.PermissionManageUsers, types.PermissionViewReports,
	},
	types.RoleProgramAdmin: {
		types.PermissionCreateTrip, types.PermissionUpdateTrip, types.PermissionCancelTrip,
		types.PermissionAssignDriver, types.PermissionViewReports,
	},
	types.RoleProgramUser: {
		types.PermissionCreateTrip, types.PermissionCancelTrip,
	},
	types.RoleDriver: {
		types.PermissionUpdateTrip,
	},
}

func legacyAllows(role types.Role, perm types.Permission) bool {
	for _, p := range legacyRolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// RequirePermission enforces a permission check against the resolver
// for the authenticated user, scoped to the organizational context the
// auth middleware placed on the request.
//
// A missing grants relation is not treated as a denial: the check falls
// back to the legacy hard-coded policy and the incident is logged, so a
// migration gap degrades service instead of locking out every user.
func RequirePermission(resolver *permission.Resolver, perm types.Permission, resource types.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		userID := c.GetString(UserIDKey)
		if userID == "" {
			_ = c.Error(apperrors.Unauthorized("missing_auth", "Authentication required"))
			c.Abort()
			return
		}

		programID := c.GetString(ProgramIDKey)
		corporateClientID := c.GetString(CorporateClientIDKey)

		allowed, err := resolver.CheckPermission(c.Request.Context(), userID, perm, resource, programID, corporateClientID)
		if err != nil {
			switch {
			case errors.Is(err, permission.ErrUserNotFound):
				_ = c.Error(apperrors.UserNotFound(userID))
				c.Abort()
				return
			case errors.Is(err, store.ErrRelationUnavailable):
				role, roleErr := types.ParseRole(c.GetString(UserRoleKey))
				if roleErr != nil {
					_ = c.Error(apperrors.PermissionStoreUnavailable(err))
					c.Abort()
					return
				}
				log.Warnw("Permission store unavailable, applying legacy policy",
					"userID", userID,
					"role", role,
					"permission", perm,
					"error", err,
				)
				if !legacyAllows(role, perm) {
					_ = c.Error(apperrors.Forbidden("Permission denied", string(perm)))
					c.Abort()
					return
				}
				c.Next()
				return
			default:
				_ = c.Error(apperrors.NewDatabaseError(err))
				c.Abort()
				return
			}
		}

		if !allowed {
			log.Debugw("Permission denied",
				"userID", userID,
				"permission", perm,
				"resource", resource,
				"programID", programID,
				"corporateClientID", corporateClientID,
			)
			_ = c.Error(apperrors.Forbidden("Permission denied", string(perm)))
			c.Abort()
			return
		}

		c.Next()
	}
}
