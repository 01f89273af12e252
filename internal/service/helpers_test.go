package service_test

import (
	"testing"

	"gorm.io/gorm"

	"github.com/familyrecipes/backend/internal/service"
	"github.com/familyrecipes/backend/internal/testhelpers"
	"github.com/familyrecipes/backend/internal/types"
)

type fixture struct {
	db       *gorm.DB
	catalog  *testhelpers.MockCatalog
	store    *service.RecipeStore
	resolver *service.Resolver
	tracker  *service.Tracker
	composer *service.Composer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	cat := &testhelpers.MockCatalog{}
	store := service.NewRecipeStore(db)
	resolver := service.NewResolver(cat, store)
	tracker := service.NewTracker(db)
	composer := service.NewComposer(cat, resolver, store, tracker, service.ComposerConfig{RandomCount: 3, WatchedLimit: 3})
	t.Cleanup(func() { cat.AssertExpectations(t) })

	return &fixture{
		db:       db,
		catalog:  cat,
		store:    store,
		resolver: resolver,
		tracker:  tracker,
		composer: composer,
	}
}

func flourAndSalt() *types.CreateRecipeRequest {
	return &types.CreateRecipeRequest{
		Title:          "Bread",
		ReadyInMinutes: 90,
		Servings:       4,
		Instructions:   []string{"Mix", "Bake"},
		Ingredients: []types.IngredientInput{
			types.TextIngredient("2 cups Flour"),
			types.TextIngredient("1 tsp Salt"),
		},
	}
}
