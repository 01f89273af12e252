package router

import (
	"github.com/gin-gonic/gin"

	"github.com/familyrecipes/backend/internal/api"
	"github.com/familyrecipes/backend/internal/middleware"
)

// SetupRouter builds the engine with the middleware chain and every route.
// CORS is only installed when origins are configured.
func SetupRouter(svc *api.Services, corsOrigins []string) (*gin.Engine, error) {
	if err := api.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(middleware.Recovery(), middleware.RequestLogger())
	if len(corsOrigins) > 0 {
		router.Use(middleware.CORS(corsOrigins))
	}
	router.Use(middleware.ErrorHandler(), middleware.AuthMiddleware(svc.Auth))

	api.RegisterRoutes(router, svc)
	return router, nil
}
