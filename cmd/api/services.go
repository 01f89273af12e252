package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/familyrecipes/backend/config"
	"github.com/familyrecipes/backend/internal/api"
	"github.com/familyrecipes/backend/internal/catalog"
	"github.com/familyrecipes/backend/internal/database"
	"github.com/familyrecipes/backend/internal/logging"
	"github.com/familyrecipes/backend/internal/middleware"
	"github.com/familyrecipes/backend/internal/service"
)

// buildServices wires the services from cfg. The returned func releases the
// database and Redis connections.
func buildServices(cfg *config.Config, db *gorm.DB) (*api.Services, func()) {
	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogAPIKey, cfg.CatalogTimeout)
	store := service.NewRecipeStore(db)
	resolver := service.NewResolver(catalogClient, store)
	tracker := service.NewTracker(db)
	countries := service.NewCountryCache(cfg.CountriesURL, cfg.CountriesTTL, cfg.ExcludedCountries)

	svc := &api.Services{
		Auth: service.NewAuthService(db, countries, service.AuthConfig{
			JWTSecret:  cfg.JWTSecret,
			SessionTTL: cfg.SessionTTL,
			BcryptCost: cfg.BcryptCost,
		}),
		Composer: service.NewComposer(catalogClient, resolver, store, tracker, service.ComposerConfig{
			RandomCount:  cfg.RandomFeedSize,
			WatchedLimit: cfg.LastWatchedLimit,
		}),
		Recipes:      store,
		Resolver:     resolver,
		Tracker:      tracker,
		MealPlans:    service.NewMealPlanService(db),
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: cfg.Env.IsProduction(),
	}

	progressConfig := service.ProgressConfig{TTL: cfg.ProgressTTL, MaxEntries: cfg.ProgressMaxEntries}
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		redisClient = client
		svc.Cooking = service.NewCookingService(service.NewRedisProgressStore(client, progressConfig))
		svc.CreateLimiter = middleware.NewRecipeCreationRateLimiter(client, cfg.RecipeCreateLimit)
	} else {
		logging.Warn().Msg("REDIS_URL not set: cooking progress kept in memory, recipe creation not rate limited")
		svc.Cooking = service.NewCookingService(service.NewMemoryProgressStore(progressConfig))
	}

	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to configure S3")
		}
		svc.Images = service.NewS3ImageStore(s3Config)
	} else {
		logging.Info().Msg("S3_BUCKET_NAME not set: image uploads disabled")
	}

	cleanup := func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logging.Warn().Err(err).Msg("failed to close Redis client")
			}
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return svc, cleanup
}
