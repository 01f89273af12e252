package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/models"
	"github.com/familyrecipes/backend/internal/types"
)

var mealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// MealPlanService stores planned meals.
type MealPlanService struct {
	db *gorm.DB
}

func NewMealPlanService(db *gorm.DB) *MealPlanService {
	return &MealPlanService{db: db}
}

// Add schedules ref for a meal. Servings default to 1.
func (s *MealPlanService) Add(ctx context.Context, userID int64, ref types.RecipeRef, req *types.MealPlanRequest) (*types.MealPlanEntry, error) {
	if req.Date == "" || req.MealType == "" {
		return nil, apperror.Validation("", "Date and meal type are required")
	}
	if !mealTypes[req.MealType] {
		return nil, apperror.Validation("mealType", "Invalid meal type")
	}
	if _, err := time.Parse(time.DateOnly, req.Date); err != nil {
		return nil, apperror.Validation("date", "Date must be formatted as YYYY-MM-DD")
	}
	if req.Servings < 0 {
		return nil, apperror.Validation("servings", "servings must be a positive number")
	}
	servings := req.Servings
	if servings == 0 {
		servings = 1
	}

	entry := models.MealPlanEntry{
		UserID:     userID,
		RecipeID:   ref.ID,
		IsExternal: ref.Source.IsExternal(),
		Date:       req.Date,
		MealType:   req.MealType,
		Servings:   servings,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	view := toMealPlanView(&entry)
	return &view, nil
}

// List returns the user's meal plan ordered by date.
func (s *MealPlanService) List(ctx context.Context, userID int64) ([]types.MealPlanEntry, error) {
	var entries []models.MealPlanEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	out := make([]types.MealPlanEntry, 0, len(entries))
	for i := range entries {
		out = append(out, toMealPlanView(&entries[i]))
	}
	return out, nil
}

func toMealPlanView(e *models.MealPlanEntry) types.MealPlanEntry {
	return types.MealPlanEntry{
		ID:         e.ID,
		UserID:     e.UserID,
		RecipeID:   e.RecipeID,
		IsExternal: e.IsExternal,
		Source:     types.SourceOf(e.IsExternal).String(),
		Date:       e.Date,
		MealType:   e.MealType,
		Servings:   e.Servings,
		CreatedAt:  e.CreatedAt,
	}
}
