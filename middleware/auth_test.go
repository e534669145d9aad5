package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CareFleet/care-fleet-backend/config"
)

const testSecret = "test-secret-key-for-auth-middleware-tests"

func signTestToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(onRequest func(c *gin.Context)) *gin.Engine {
		r := gin.New()
		r.Use(ErrorHandler())
		r.Use(AuthMiddleware(&config.ServerConfig{JwtSecretKey: testSecret}))
		r.GET("/protected", func(c *gin.Context) {
			if onRequest != nil {
				onRequest(c)
			}
			c.Status(http.StatusOK)
		})
		return r
	}

	t.Run("valid token populates context", func(t *testing.T) {
		token := signTestToken(t, Claims{
			Role:              "program_admin",
			CorporateClientID: "corp-1",
			ProgramID:         "prog-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		var gotUserID, gotRole, gotProgram string
		r := newRouter(func(c *gin.Context) {
			gotUserID = c.GetString(UserIDKey)
			gotRole = c.GetString(UserRoleKey)
			gotProgram = c.GetString(ProgramIDKey)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", gotUserID)
		assert.Equal(t, "program_admin", gotRole)
		assert.Equal(t, "prog-1", gotProgram)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		r := newRouter(nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token is unauthorized", func(t *testing.T) {
		token := signTestToken(t, Claims{
			Role: "driver",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-2",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})

		r := newRouter(nil)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unrecognized role is rejected", func(t *testing.T) {
		token := signTestToken(t, Claims{
			Role: "warehouse_manager",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-3",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		r := newRouter(nil)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with wrong key is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			Role: "driver",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-4",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		signed, err := token.SignedString([]byte("some-other-key"))
		require.NoError(t, err)

		r := newRouter(nil)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
