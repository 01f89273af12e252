package models

import "time"

// FavoriteRecipe marks a recipe as a user's favorite. The key includes
// IsExternal because catalog and local ids overlap.
type FavoriteRecipe struct {
	UserID     int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User       User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RecipeID   int64     `gorm:"primaryKey;autoIncrement:false" json:"recipe_id"`
	IsExternal bool      `gorm:"primaryKey" json:"isExternal"`
	CreatedAt  time.Time `json:"created_at"`
}

func (FavoriteRecipe) TableName() string {
	return "favorite_recipes"
}

// WatchEvent records the last time a user opened a recipe. There is at most
// one row per (user, recipe, source).
type WatchEvent struct {
	UserID     int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User       User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RecipeID   int64     `gorm:"primaryKey;autoIncrement:false" json:"recipe_id"`
	IsExternal bool      `gorm:"primaryKey" json:"isExternal"`
	WatchedAt  time.Time `gorm:"not null;index" json:"watched_at"`
}

func (WatchEvent) TableName() string {
	return "watch_events"
}

// MealPlanEntry is a recipe scheduled for a meal.
type MealPlanEntry struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RecipeID   int64     `gorm:"not null" json:"recipe_id"`
	IsExternal bool      `gorm:"not null" json:"isExternal"`
	Date       string    `gorm:"size:10;not null;index" json:"date"`
	MealType   string    `gorm:"size:20;not null" json:"mealType"`
	Servings   int       `gorm:"not null;default:1" json:"servings"`
	CreatedAt  time.Time `json:"created_at"`
}

func (MealPlanEntry) TableName() string {
	return "meal_plan_entries"
}

// AllModels lists the tables in dependency order for migrations.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Recipe{},
		&Ingredient{},
		&FavoriteRecipe{},
		&WatchEvent{},
		&MealPlanEntry{},
	}
}
