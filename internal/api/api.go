package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/familyrecipes/backend/internal/middleware"
	"github.com/familyrecipes/backend/internal/service"
)

// Services bundles what the handlers depend on. Images and CreateLimiter are
// optional.
type Services struct {
	Auth          service.IAuthService
	Composer      *service.Composer
	Recipes       *service.RecipeStore
	Resolver      *service.Resolver
	Tracker       *service.Tracker
	MealPlans     *service.MealPlanService
	Cooking       *service.CookingService
	Images        service.ImageStore
	CreateLimiter *middleware.RateLimiter

	SessionTTL   time.Duration
	SecureCookie bool
}

// RegisterRoutes registers all API routes on router.
func RegisterRoutes(router gin.IRouter, svc *Services) {
	router.GET("/alive", HealthCheck)

	NewAuthHandler(svc.Auth, svc.Cooking, svc.SessionTTL, svc.SecureCookie).RegisterRoutes(router)
	NewRecipeHandler(svc).RegisterRoutes(router)
	NewUserHandler(svc).RegisterRoutes(router)
	if svc.Images != nil {
		NewImageHandler(svc.Images).RegisterRoutes(router)
	}
}
