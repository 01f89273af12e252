package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/middleware"
	"github.com/familyrecipes/backend/internal/service"
	"github.com/familyrecipes/backend/internal/types"
)

// UserHandler serves the signed-in user's favorites, recipes and meal plan.
type UserHandler struct {
	composer  *service.Composer
	resolver  *service.Resolver
	tracker   *service.Tracker
	mealPlans *service.MealPlanService
}

func NewUserHandler(svc *Services) *UserHandler {
	return &UserHandler{
		composer:  svc.Composer,
		resolver:  svc.Resolver,
		tracker:   svc.Tracker,
		mealPlans: svc.MealPlans,
	}
}

func (h *UserHandler) RegisterRoutes(router gin.IRouter) {
	users := router.Group("/users", middleware.RequireUser())
	{
		users.GET("/favorites", h.ListFavorites)
		users.POST("/favorites", h.ToggleFavorite)
		users.GET("/myRecipes", h.MyRecipes)
		users.GET("/familyRecipes", h.FamilyRecipes)
		users.GET("/meal-plan", h.MealPlan)
	}
}

// ToggleFavoriteResponse reports the favorite state after a toggle.
type ToggleFavoriteResponse struct {
	Message    string `json:"message"`
	IsFavorite bool   `json:"isFavorite"`
	Success    bool   `json:"success"`
}

func (h *UserHandler) ListFavorites(c *gin.Context) {
	previews, err := h.composer.FavoritePreviews(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, previews)
}

func (h *UserHandler) ToggleFavorite(c *gin.Context) {
	var req types.ToggleFavoriteRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	id, err := req.RecipeID.Int64()
	if err != nil {
		c.Error(err)
		return
	}
	if req.IsExternal == nil {
		c.Error(apperror.Validation("isExternal", "isExternal parameter is required and must be boolean"))
		return
	}
	ref := types.RecipeRef{ID: id, Source: types.SourceOf(*req.IsExternal)}

	ctx := c.Request.Context()
	exists, err := h.resolver.Exists(ctx, ref)
	if err != nil {
		c.Error(err)
		return
	}
	if !exists {
		c.Error(apperror.NotFound("Recipe not found"))
		return
	}

	isFavorite, err := h.tracker.ToggleFavorite(ctx, middleware.UserID(c), ref)
	if err != nil {
		c.Error(err)
		return
	}

	message := "The Recipe successfully removed from favorites"
	if isFavorite {
		message = "The Recipe successfully added to favorites"
	}
	c.JSON(http.StatusOK, ToggleFavoriteResponse{Message: message, IsFavorite: isFavorite, Success: true})
}

func (h *UserHandler) MyRecipes(c *gin.Context) {
	previews, err := h.composer.OwnedRecipePreviews(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, previews)
}

func (h *UserHandler) FamilyRecipes(c *gin.Context) {
	previews, err := h.composer.FamilyRecipePreviews(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, previews)
}

func (h *UserHandler) MealPlan(c *gin.Context) {
	entries, err := h.mealPlans.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
