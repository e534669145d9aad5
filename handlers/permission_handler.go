package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/CareFleet/care-fleet-backend/errors"
	"github.com/CareFleet/care-fleet-backend/logger"
	"github.com/CareFleet/care-fleet-backend/middleware"
	"github.com/CareFleet/care-fleet-backend/models/permission"
	"github.com/CareFleet/care-fleet-backend/store"
	"github.com/CareFleet/care-fleet-backend/types"
)

// PermissionHandler exposes grant administration and effective
// permission queries.
type PermissionHandler struct {
	resolver *permission.Resolver
}

func NewPermissionHandler(resolver *permission.Resolver) *PermissionHandler {
	return &PermissionHandler{resolver: resolver}
}

// GrantRequest is the payload for creating a permission grant.
type GrantRequest struct {
	Role              string `json:"role" binding:"required"`
	Permission        string `json:"permission" binding:"required"`
	Resource          string `json:"resource"`
	ProgramID         string `json:"programId"`
	CorporateClientID string `json:"corporateClientId"`
}

// GrantPermissionHandler creates a grant. A duplicate tuple is a
// conflict, never a silent success.
func (h *PermissionHandler) GrantPermissionHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	role, err := types.ParseRole(req.Role)
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid role", err.Error()))
		return
	}

	grant := types.PermissionGrant{
		Role:       role,
		Permission: types.Permission(req.Permission),
		Resource:   types.Resource(req.Resource),
	}
	if req.ProgramID != "" {
		grant.ProgramID = &req.ProgramID
	}
	if req.CorporateClientID != "" {
		grant.CorporateClientID = &req.CorporateClientID
	}

	created, err := h.resolver.GrantPermission(c.Request.Context(), grant)
	if err != nil {
		switch {
		case errors.Is(err, permission.ErrAlreadyGranted):
			_ = c.Error(apperrors.AlreadyGranted(err.Error()))
		case errors.Is(err, store.ErrRelationUnavailable):
			_ = c.Error(apperrors.PermissionStoreUnavailable(err))
		default:
			_ = c.Error(apperrors.ValidationFailed("Failed to create grant", err.Error()))
		}
		return
	}

	log.Infow("Permission granted",
		"grantID", created.ID,
		"role", created.Role,
		"permission", created.Permission,
		"source", created.Source(),
		"grantedBy", c.GetString(middleware.UserIDKey),
	)
	c.JSON(http.StatusCreated, created)
}

// RevokePermissionHandler deletes a grant by id. Revocation is
// idempotent: revoking an absent grant returns 204.
func (h *PermissionHandler) RevokePermissionHandler(c *gin.Context) {
	grantID := c.Param("id")
	if grantID == "" {
		_ = c.Error(apperrors.ValidationFailed("Grant ID missing", "grant id is required"))
		return
	}

	if err := h.resolver.RevokePermission(c.Request.Context(), grantID); err != nil {
		if errors.Is(err, store.ErrRelationUnavailable) {
			_ = c.Error(apperrors.PermissionStoreUnavailable(err))
			return
		}
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	logger.GetLogger().Infow("Permission revoked",
		"grantID", grantID,
		"revokedBy", c.GetString(middleware.UserIDKey),
	)
	c.Status(http.StatusNoContent)
}

// ListEffectivePermissionsHandler returns the grants effective for a
// user at a hierarchy level, each tagged with its source level.
func (h *PermissionHandler) ListEffectivePermissionsHandler(c *gin.Context) {
	userID := c.Param("userID")
	if userID == "" {
		_ = c.Error(apperrors.ValidationFailed("User ID missing", "user id is required"))
		return
	}

	level := types.PermissionLevel(c.DefaultQuery("level", string(types.PermissionLevelGlobal)))
	corporateClientID := c.Query("corporate_client_id")
	programID := c.Query("program_id")

	effective, err := h.resolver.GetEffectivePermissions(c.Request.Context(), userID, level, corporateClientID, programID)
	if err != nil {
		switch {
		case errors.Is(err, permission.ErrUserNotFound):
			_ = c.Error(apperrors.UserNotFound(userID))
		case errors.Is(err, store.ErrRelationUnavailable):
			_ = c.Error(apperrors.PermissionStoreUnavailable(err))
		default:
			_ = c.Error(apperrors.ValidationFailed("Failed to resolve permissions", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"permissions": effective})
}
