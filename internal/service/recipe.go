package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/models"
	"github.com/familyrecipes/backend/internal/types"
)

// RecipeStore handles user-authored recipes in the relational store
type RecipeStore struct {
	db *gorm.DB
}

// NewRecipeStore creates a new RecipeStore instance
func NewRecipeStore(db *gorm.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// ValidateRecipe checks a new recipe before anything is written.
func ValidateRecipe(req *types.CreateRecipeRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return apperror.Validation("title", "Title is required")
	}
	if req.ReadyInMinutes <= 0 {
		return apperror.Validation("readyInMinutes", "readyInMinutes must be a positive number")
	}
	if req.Servings <= 0 {
		return apperror.Validation("servings", "servings must be a positive number")
	}
	if len(req.Instructions) == 0 {
		return apperror.Validation("instructions", "Instructions must be a non-empty list")
	}
	for _, step := range req.Instructions {
		if strings.TrimSpace(step) == "" {
			return apperror.Validation("instructions", "Instructions must not contain empty steps")
		}
	}
	if len(req.Ingredients) == 0 {
		return apperror.Validation("ingredients", "Ingredients must be a non-empty list")
	}
	for _, ing := range req.Ingredients {
		if !ing.Valid() {
			return apperror.Validation("ingredients", "Ingredients must be valid strings or objects with name and quantity")
		}
	}
	return nil
}

// Create stores the recipe and its ingredients in one transaction and returns
// the new recipe id.
func (s *RecipeStore) Create(ctx context.Context, ownerID int64, req *types.CreateRecipeRequest) (int64, error) {
	if err := ValidateRecipe(req); err != nil {
		return 0, err
	}

	recipe := models.Recipe{
		UserID:         ownerID,
		Title:          strings.TrimSpace(req.Title),
		Image:          req.Image,
		ReadyInMinutes: req.ReadyInMinutes,
		Vegan:          req.Vegan,
		Vegetarian:     req.Vegetarian,
		GlutenFree:     req.GlutenFree,
		Servings:       req.Servings,
		Instructions:   models.StepList(req.Instructions),
		IsFamilyRecipe: req.IsFamilyRecipe,
	}
	if req.IsFamilyRecipe && req.FamilyStory != nil {
		recipe.FamilyWho = req.FamilyStory.Who
		recipe.FamilyWhen = req.FamilyStory.When
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}

		rows := make([]models.Ingredient, 0, len(req.Ingredients))
		for i, ing := range req.Ingredients {
			quantity, name := ing.Split()
			rows = append(rows, models.Ingredient{
				RecipeID: recipe.ID,
				Position: i,
				Name:     name,
				Quantity: quantity,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return 0, apperror.Unauthorized("User no longer exists")
		}
		return 0, err
	}
	return recipe.ID, nil
}

// Get loads a recipe with its ingredients in insertion order.
func (s *RecipeStore) Get(ctx context.Context, id int64) (*types.RecipeDetail, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Recipe not found")
		}
		return nil, err
	}
	detail := toDetail(&recipe)
	return &detail, nil
}

// Preview loads the summary columns only.
func (s *RecipeStore) Preview(ctx context.Context, id int64) (*types.RecipeSummary, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Recipe not found")
		}
		return nil, err
	}
	summary := toSummary(&recipe)
	return &summary, nil
}

// Exists reports whether a local recipe with id exists.
func (s *RecipeStore) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByOwner returns the owner's recipes, newest first.
func (s *RecipeStore) ListByOwner(ctx context.Context, ownerID int64) ([]types.RecipeSummary, error) {
	return s.list(ctx, s.db.Where("user_id = ?", ownerID))
}

// ListFamilyByOwner returns the owner's family recipes, newest first.
func (s *RecipeStore) ListFamilyByOwner(ctx context.Context, ownerID int64) ([]types.RecipeSummary, error) {
	return s.list(ctx, s.db.Where("user_id = ? AND is_family_recipe = ?", ownerID, true))
}

func (s *RecipeStore) list(ctx context.Context, query *gorm.DB) ([]types.RecipeSummary, error) {
	var recipes []models.Recipe
	if err := query.WithContext(ctx).Order("created_at DESC, id DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	out := make([]types.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		out = append(out, toSummary(&recipes[i]))
	}
	return out, nil
}

func toSummary(r *models.Recipe) types.RecipeSummary {
	return types.RecipeSummary{
		ID:             r.ID,
		Title:          r.Title,
		ReadyInMinutes: r.ReadyInMinutes,
		Image:          r.Image,
		Vegan:          r.Vegan,
		Vegetarian:     r.Vegetarian,
		GlutenFree:     r.GlutenFree,
		IsExternal:     false,
		Source:         types.SourceLocal.String(),
	}
}

func toDetail(r *models.Recipe) types.RecipeDetail {
	ingredients := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, ing.Text())
	}
	instructions := []string(r.Instructions)
	if instructions == nil {
		instructions = []string{}
	}

	detail := types.RecipeDetail{
		RecipeSummary:  toSummary(r),
		Servings:       r.Servings,
		Ingredients:    ingredients,
		Instructions:   instructions,
		IsFamilyRecipe: r.IsFamilyRecipe,
		OwnerID:        r.UserID,
	}
	if r.IsFamilyRecipe && (r.FamilyWho != "" || r.FamilyWhen != "") {
		detail.FamilyStory = &types.FamilyStory{Who: r.FamilyWho, When: r.FamilyWhen}
	}
	return detail
}
