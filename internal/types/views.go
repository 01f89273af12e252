package types

import (
	"encoding/json"
	"time"
)

// AnnotatedSummary is a preview with the caller's favorite state. IsFavorite
// is omitted for anonymous callers.
type AnnotatedSummary struct {
	RecipeSummary
	IsFavorite *bool `json:"isFavorite,omitempty"`
}

// LoginPrompt replaces personalized sections for anonymous callers.
type LoginPrompt struct {
	LoginRequired bool   `json:"loginRequired"`
	LoginURL      string `json:"loginUrl"`
}

// DefaultLoginPrompt points anonymous callers at the login page.
var DefaultLoginPrompt = LoginPrompt{LoginRequired: true, LoginURL: "/login"}

// HomeFeed is the body of GET /recipes. LastWatched is serialized as the
// login prompt when Login is set.
type HomeFeed struct {
	Random      []AnnotatedSummary
	LastWatched []AnnotatedSummary
	Login       *LoginPrompt
}

func (f HomeFeed) MarshalJSON() ([]byte, error) {
	random := f.Random
	if random == nil {
		random = []AnnotatedSummary{}
	}
	var lastWatched any = f.LastWatched
	switch {
	case f.Login != nil:
		lastWatched = f.Login
	case f.LastWatched == nil:
		lastWatched = []AnnotatedSummary{}
	}
	return json.Marshal(struct {
		Random      []AnnotatedSummary `json:"random"`
		LastWatched any                `json:"lastWatched"`
	}{random, lastWatched})
}

// RecipeDetailView is the body of GET /recipes/:recipeId. The annotation
// fields are absent, not false, for anonymous callers.
type RecipeDetailView struct {
	RecipeDetail
	IsFavorite *bool `json:"isFavorite,omitempty"`
	IsWatched  *bool `json:"isWatched,omitempty"`
}

// CookingModeView is a recipe reshaped for step-by-step cooking.
type CookingModeView struct {
	ID                int64    `json:"id"`
	Title             string   `json:"title"`
	Image             string   `json:"image"`
	Servings          int      `json:"servings"`
	ReadyInMinutes    int      `json:"readyInMinutes"`
	Ingredients       []string `json:"ingredients"`
	Instructions      []string `json:"instructions"`
	CurrentStep       int      `json:"currentStep"`
	TotalSteps        int      `json:"totalSteps"`
	ServingMultiplier float64  `json:"servingMultiplier"`
	OriginalServings  int      `json:"originalServings"`
	IsExternal        bool     `json:"isExternal"`
	Source            string   `json:"source"`
}

// CookingProgress is the per-session state of cooking one recipe.
type CookingProgress struct {
	CurrentStep        int             `json:"currentStep"`
	CompletedSteps     map[string]bool `json:"completedSteps"`
	CheckedIngredients map[string]bool `json:"checkedIngredients"`
	ServingMultiplier  float64         `json:"servingMultiplier"`
	StartTime          time.Time       `json:"startTime"`
	LastUpdated        time.Time       `json:"lastUpdated"`
}

// NewCookingProgress returns the progress of a recipe nobody started yet.
func NewCookingProgress(now time.Time) *CookingProgress {
	return &CookingProgress{
		CompletedSteps:     map[string]bool{},
		CheckedIngredients: map[string]bool{},
		ServingMultiplier:  1,
		StartTime:          now,
		LastUpdated:        now,
	}
}

// MealPlanEntry is a planned meal as returned by the API.
type MealPlanEntry struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	RecipeID   int64     `json:"recipe_id"`
	IsExternal bool      `json:"isExternal"`
	Source     string    `json:"source"`
	Date       string    `json:"date"`
	MealType   string    `json:"mealType"`
	Servings   int       `json:"servings"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserInfo is the public view of a user.
type UserInfo struct {
	ID        int64  `json:"user_id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Country   string `json:"country"`
	Email     string `json:"email"`
}
