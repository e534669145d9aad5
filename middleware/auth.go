package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/CareFleet/care-fleet-backend/config"
	apperrors "github.com/CareFleet/care-fleet-backend/errors"
	"github.com/CareFleet/care-fleet-backend/logger"
	"github.com/CareFleet/care-fleet-backend/types"
)

// Claims are the token claims the platform issues. The organizational
// ids mirror the user's assignment at issue time; permission checks
// re-resolve against the store on every request.
type Claims struct {
	Role              string `json:"role"`
	CorporateClientID string `json:"corporate_client_id,omitempty"`
	ProgramID         string `json:"program_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and places the caller's
// identity and organizational context on the gin context.
func AuthMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		tokenString, err := extractBearerToken(c)
		if err != nil {
			_ = c.Error(apperrors.Unauthorized("missing_token", err.Error()))
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(cfg.JwtSecretKey), nil
		})
		if err != nil || !token.Valid {
			log.Debugw("Token validation failed", "error", err)
			_ = c.Error(apperrors.Unauthorized("invalid_token", "Invalid or expired token"))
			c.Abort()
			return
		}

		userID := claims.Subject
		if userID == "" {
			_ = c.Error(apperrors.Unauthorized("invalid_token", "Token has no subject"))
			c.Abort()
			return
		}

		role, err := types.ParseRole(claims.Role)
		if err != nil {
			log.Warnw("Token carries unrecognized role", "userID", userID, "role", claims.Role)
			_ = c.Error(apperrors.Unauthorized("invalid_role", "Token role is not recognized"))
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UserRoleKey, string(role))
		c.Set(CorporateClientIDKey, claims.CorporateClientID)
		c.Set(ProgramIDKey, claims.ProgramID)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", fmt.Errorf("authorization header required")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("authorization header must be a bearer token")
	}
	return strings.TrimSpace(parts[1]), nil
}
