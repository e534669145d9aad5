package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/CareFleet/care-fleet-backend/config"
	"github.com/CareFleet/care-fleet-backend/db"
	"github.com/CareFleet/care-fleet-backend/handlers"
	"github.com/CareFleet/care-fleet-backend/internal/store/postgres"
	"github.com/CareFleet/care-fleet-backend/logger"
	"github.com/CareFleet/care-fleet-backend/models/access"
	"github.com/CareFleet/care-fleet-backend/models/permission"
	"github.com/CareFleet/care-fleet-backend/models/trip"
	"github.com/CareFleet/care-fleet-backend/router"
	"github.com/CareFleet/care-fleet-backend/services"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Database pool
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to parse database config: %v", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConnections)
	if cfg.Server.Environment == config.EnvProduction {
		poolConfig.ConnConfig.TLSConfig = &tls.Config{
			ServerName: cfg.Database.Host,
			MinVersion: tls.VersionTLS12,
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis, used by the rate limiter and health checks
	redisOptions := &redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.Server.Environment == config.EnvProduction {
		redisOptions.TLSConfig = &tls.Config{
			ServerName: cfg.Redis.Address,
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warnw("Failed to close redis client", "error", err)
		}
	}()

	// Stores
	userStore := postgres.NewUserStore(pool)
	permissionStore := postgres.NewPermissionStore(pool)
	programStore := postgres.NewProgramStore(pool)
	tripStore := postgres.NewTripStore(pool)

	// Services
	resolver := permission.NewResolver(userStore, permissionStore)
	calculator := access.NewCalculator(programStore)
	tripService := trip.NewService(tripStore, calculator)
	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:            cfg,
		Resolver:          resolver,
		TripHandler:       handlers.NewTripHandler(tripService, userStore),
		PermissionHandler: handlers.NewPermissionHandler(resolver),
		HealthHandler:     handlers.NewHealthHandler(healthService),
		RedisClient:       redisClient,
		Logger:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"version", cfg.Server.Version,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	log.Info("Server exited")
}
