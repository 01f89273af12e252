package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/catalog"
	"github.com/familyrecipes/backend/internal/middleware"
	"github.com/familyrecipes/backend/internal/service"
	"github.com/familyrecipes/backend/internal/types"
)

// RecipeHandler serves the recipe views, creation, meal planning and
// cooking progress.
type RecipeHandler struct {
	composer      *service.Composer
	recipes       *service.RecipeStore
	mealPlans     *service.MealPlanService
	cooking       *service.CookingService
	createLimiter *middleware.RateLimiter
}

func NewRecipeHandler(svc *Services) *RecipeHandler {
	return &RecipeHandler{
		composer:      svc.Composer,
		recipes:       svc.Recipes,
		mealPlans:     svc.MealPlans,
		cooking:       svc.Cooking,
		createLimiter: svc.CreateLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router gin.IRouter) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.HomeFeed)
		recipes.GET("/search", h.Search)
		recipes.GET("/:recipeId", h.GetRecipe)
		recipes.GET("/:recipeId/cooking-mode", h.CookingMode)

		create := []gin.HandlerFunc{middleware.RequireUser()}
		if h.createLimiter != nil {
			create = append(create, h.createLimiter.Middleware())
		}
		recipes.POST("", append(create, h.CreateRecipe)...)

		recipes.POST("/:recipeId/meal-plan", middleware.RequireUser(), h.AddToMealPlan)
		recipes.GET("/:recipeId/cooking-progress", middleware.RequireUser(), h.GetProgress)
		recipes.POST("/:recipeId/cooking-progress", middleware.RequireUser(), h.SaveProgress)
		recipes.DELETE("/:recipeId/cooking-progress", middleware.RequireUser(), h.ResetProgress)
	}
}

// CreateRecipeResponse is returned when a recipe is stored.
type CreateRecipeResponse struct {
	RecipeID int64  `json:"recipe_id"`
	Message  string `json:"message"`
}

// MealPlanResponse is returned when a meal is planned.
type MealPlanResponse struct {
	Message  string               `json:"message"`
	MealPlan *types.MealPlanEntry `json:"mealPlan"`
}

// ProgressResponse is returned when cooking progress is saved.
type ProgressResponse struct {
	Message  string                 `json:"message"`
	Progress *types.CookingProgress `json:"progress"`
}

func (h *RecipeHandler) HomeFeed(c *gin.Context) {
	feed, err := h.composer.HomeFeed(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *RecipeHandler) Search(c *gin.Context) {
	// An unparsable number falls back to the default like any other
	// unsupported value.
	number, _ := strconv.Atoi(c.Query("number"))
	params := catalog.SearchParams{
		Query:        strings.TrimSpace(c.Query("query")),
		Number:       catalog.ClampNumber(number),
		Cuisine:      splitList(c.Query("cuisine")),
		Diet:         splitList(c.Query("diet")),
		Intolerances: splitList(c.Query("intolerances")),
	}

	results, err := h.composer.Search(c.Request.Context(), params, middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	ref, err := recipeRef(c, "")
	if err != nil {
		c.Error(err)
		return
	}

	view, err := h.composer.RecipeDetailView(c.Request.Context(), ref, middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CookingMode(c *gin.Context) {
	ref, err := recipeRef(c, "")
	if err != nil {
		c.Error(err)
		return
	}
	multiplier, ok := service.ParseMultiplier(c.Query("servings"))
	if !ok {
		c.Error(apperror.Validation("servings", "Invalid serving multiplier"))
		return
	}

	view, err := h.composer.CookingModeView(c.Request.Context(), ref, multiplier)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	id, err := h.recipes.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, CreateRecipeResponse{RecipeID: id, Message: "Recipe created"})
}

func (h *RecipeHandler) AddToMealPlan(c *gin.Context) {
	var req types.MealPlanRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	ref, err := recipeRef(c, req.Source)
	if err != nil {
		c.Error(err)
		return
	}

	entry, err := h.mealPlans.Add(c.Request.Context(), middleware.UserID(c), ref, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, MealPlanResponse{Message: "Recipe added to meal plan", MealPlan: entry})
}

func (h *RecipeHandler) GetProgress(c *gin.Context) {
	ref, err := recipeRef(c, "")
	if err != nil {
		c.Error(err)
		return
	}

	progress, err := h.cooking.Progress(c.Request.Context(), middleware.SessionID(c), ref)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *RecipeHandler) SaveProgress(c *gin.Context) {
	var req types.SaveProgressRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	ref, err := recipeRef(c, req.Source)
	if err != nil {
		c.Error(err)
		return
	}

	progress, err := h.cooking.SaveProgress(c.Request.Context(), middleware.SessionID(c), ref, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ProgressResponse{Message: "Progress saved", Progress: progress})
}

func (h *RecipeHandler) ResetProgress(c *gin.Context) {
	ref, err := recipeRef(c, "")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.cooking.ResetProgress(c.Request.Context(), middleware.SessionID(c), ref); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Progress cleared", Success: true})
}
