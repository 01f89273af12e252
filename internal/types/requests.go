package types

// CreateRecipeRequest is the body of POST /recipes.
type CreateRecipeRequest struct {
	Title          string            `json:"title" binding:"required,notblank"`
	Image          string            `json:"image"`
	ReadyInMinutes int               `json:"readyInMinutes" binding:"required,gt=0"`
	Vegan          bool              `json:"vegan"`
	Vegetarian     bool              `json:"vegetarian"`
	GlutenFree     bool              `json:"glutenFree"`
	Servings       int               `json:"servings" binding:"required,gt=0"`
	Instructions   []string          `json:"instructions" binding:"required,min=1,dive,notblank"`
	Ingredients    []IngredientInput `json:"ingredients" binding:"required,min=1"`
	IsFamilyRecipe bool              `json:"isFamilyRecipe"`
	FamilyStory    *FamilyStory      `json:"familyStory"`
}

// ToggleFavoriteRequest is the body of POST /users/favorites. IsExternal has
// no default: callers must say which source they mean.
type ToggleFavoriteRequest struct {
	RecipeID   FlexibleID `json:"recipeId"`
	IsExternal *bool      `json:"isExternal"`
}

// MealPlanRequest is the body of POST /recipes/:recipeId/meal-plan.
type MealPlanRequest struct {
	Date     string `json:"date"`
	MealType string `json:"mealType"`
	Servings int    `json:"servings"`
	Source   string `json:"source"`
}

// SaveProgressRequest is the body of POST /recipes/:recipeId/cooking-progress.
type SaveProgressRequest struct {
	Source             string          `json:"source"`
	CurrentStep        *int            `json:"currentStep"`
	CompletedSteps     map[string]bool `json:"completedSteps"`
	CheckedIngredients map[string]bool `json:"checkedIngredients"`
	ServingMultiplier  float64         `json:"servingMultiplier"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Country   string `json:"country"`
	Password  string `json:"password"`
	Email     string `json:"email"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
