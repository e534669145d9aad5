package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/CareFleet/care-fleet-backend/config"
	"github.com/CareFleet/care-fleet-backend/handlers"
	"github.com/CareFleet/care-fleet-backend/middleware"
	"github.com/CareFleet/care-fleet-backend/models/permission"
	"github.com/CareFleet/care-fleet-backend/types"
)

// Dependencies holds everything required for setting up routes.
type Dependencies struct {
	Config            *config.Config
	Resolver          *permission.Resolver
	TripHandler       *handlers.TripHandler
	PermissionHandler *handlers.PermissionHandler
	HealthHandler     *handlers.HealthHandler
	RedisClient       *redis.Client
	Logger            *zap.SugaredLogger
}

// SetupRouter configures and returns the main gin engine with all
// routes defined. Health and metrics stay outside the authenticated
// group; everything under /v1 requires a bearer token, and mutating
// trip routes additionally pass through permission checks.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(&deps.Config.Server))
	if deps.RedisClient != nil {
		v1.Use(middleware.APIRateLimiter(deps.RedisClient, 300, time.Minute))
	}

	tripRoutes := v1.Group("/trips")
	{
		tripRoutes.POST("",
			middleware.RequirePermission(deps.Resolver, types.PermissionCreateTrip, types.ResourceAll),
			deps.TripHandler.CreateTripHandler)
		tripRoutes.GET("", deps.TripHandler.ListTripsHandler)
		tripRoutes.GET("/:id", deps.TripHandler.GetTripHandler)
		tripRoutes.PATCH("/:id/status",
			middleware.RequirePermission(deps.Resolver, types.PermissionUpdateTrip, types.ResourceAll),
			deps.TripHandler.UpdateTripStatusHandler)
	}

	permissionRoutes := v1.Group("/permissions")
	permissionRoutes.Use(middleware.RequirePermission(deps.Resolver, types.PermissionManageUsers, types.ResourceAll))
	{
		permissionRoutes.POST("/grants", deps.PermissionHandler.GrantPermissionHandler)
		permissionRoutes.DELETE("/grants/:id", deps.PermissionHandler.RevokePermissionHandler)
		permissionRoutes.GET("/users/:userID/effective", deps.PermissionHandler.ListEffectivePermissionsHandler)
	}

	return r
}
