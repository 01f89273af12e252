package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/models"
	"github.com/familyrecipes/backend/internal/testhelpers"
	"github.com/familyrecipes/backend/internal/types"
)

func TestCreateAndGetRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelpers.CreateUser(t, f.db, "ann")

	req := flourAndSalt()
	req.Ingredients = append(req.Ingredients, types.PairIngredient("Water", "300 ml"))
	req.IsFamilyRecipe = true
	req.FamilyStory = &types.FamilyStory{Who: "Grandma", When: "Passover"}

	id, err := f.store.Create(ctx, owner.ID, req)
	require.NoError(t, err)

	detail, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bread", detail.Title)
	assert.False(t, detail.IsExternal)
	assert.Equal(t, "db", detail.Source)
	assert.Nil(t, detail.Popularity)
	assert.Equal(t, []string{"2 cups Flour", "1 tsp Salt", "300 ml Water"}, detail.Ingredients)
	assert.Equal(t, []string{"Mix", "Bake"}, detail.Instructions)
	assert.True(t, detail.IsFamilyRecipe)
	require.NotNil(t, detail.FamilyStory)
	assert.Equal(t, "Grandma", detail.FamilyStory.Who)
	assert.Equal(t, owner.ID, detail.OwnerID)

	var rows []models.Ingredient
	require.NoError(t, f.db.Order("position").Find(&rows, "recipe_id = ?", id).Error)
	require.Len(t, rows, 3)
	assert.Equal(t, "2", rows[0].Quantity)
	assert.Equal(t, "cups Flour", rows[0].Name)
}

func TestFamilyStoryOnlyForFamilyRecipes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelpers.CreateUser(t, f.db, "ann")

	req := flourAndSalt()
	req.FamilyStory = &types.FamilyStory{Who: "Grandma", When: "1950"}
	id, err := f.store.Create(ctx, owner.ID, req)
	require.NoError(t, err)

	detail, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, detail.FamilyStory)
}

func TestCreateRecipeValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(r *types.CreateRecipeRequest)
		field string
	}{
		{"blank title", func(r *types.CreateRecipeRequest) { r.Title = "  " }, "title"},
		{"zero minutes", func(r *types.CreateRecipeRequest) { r.ReadyInMinutes = 0 }, "readyInMinutes"},
		{"negative servings", func(r *types.CreateRecipeRequest) { r.Servings = -1 }, "servings"},
		{"no instructions", func(r *types.CreateRecipeRequest) { r.Instructions = nil }, "instructions"},
		{"blank step", func(r *types.CreateRecipeRequest) { r.Instructions = []string{"Mix", " "} }, "instructions"},
		{"no ingredients", func(r *types.CreateRecipeRequest) { r.Ingredients = nil }, "ingredients"},
		{"blank ingredient", func(r *types.CreateRecipeRequest) {
			r.Ingredients = []types.IngredientInput{types.TextIngredient("")}
		}, "ingredients"},
		{"pair without quantity", func(r *types.CreateRecipeRequest) {
			r.Ingredients = []types.IngredientInput{types.PairIngredient("Flour", "")}
		}, "ingredients"},
	}

	f := newFixture(t)
	owner := testhelpers.CreateUser(t, f.db, "ann")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := flourAndSalt()
			tt.edit(req)

			_, err := f.store.Create(context.Background(), owner.ID, req)
			require.ErrorIs(t, err, apperror.ErrValidation)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}

	var count int64
	f.db.Model(&models.Recipe{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateRecipeRollsBack(t *testing.T) {
	f := newFixture(t)
	owner := testhelpers.CreateUser(t, f.db, "ann")

	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_ingredients", func(tx *gorm.DB) {
		if tx.Statement.Table == "ingredients" {
			tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	_, err = f.store.Create(context.Background(), owner.ID, flourAndSalt())
	require.Error(t, err)

	var count int64
	f.db.Model(&models.Recipe{}).Count(&count)
	assert.Zero(t, count)
}

func TestGetMissingRecipe(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.Get(context.Background(), 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	ok, err := f.store.Exists(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := testhelpers.CreateUser(t, f.db, "ann")
	ben := testhelpers.CreateUser(t, f.db, "ben")

	_, err := f.store.Create(ctx, ann.ID, flourAndSalt())
	require.NoError(t, err)
	family := flourAndSalt()
	family.Title = "Challah"
	family.IsFamilyRecipe = true
	_, err = f.store.Create(ctx, ann.ID, family)
	require.NoError(t, err)
	_, err = f.store.Create(ctx, ben.ID, flourAndSalt())
	require.NoError(t, err)

	owned, err := f.store.ListByOwner(ctx, ann.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	fam, err := f.store.ListFamilyByOwner(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, fam, 1)
	assert.Equal(t, "Challah", fam[0].Title)
}
