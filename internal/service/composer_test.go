package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/catalog"
	"github.com/familyrecipes/backend/internal/service"
	"github.com/familyrecipes/backend/internal/testhelpers"
	"github.com/familyrecipes/backend/internal/types"
)

func threeRandom() []types.RecipeSummary {
	return []types.RecipeSummary{
		testhelpers.ExternalSummary(1, "One"),
		testhelpers.ExternalSummary(2, "Two"),
		testhelpers.ExternalSummary(3, "Three"),
	}
}

func TestAnonymousHomeFeed(t *testing.T) {
	f := newFixture(t)
	f.catalog.On("Random", mock.Anything, 3).Return(threeRandom(), nil)

	feed, err := f.composer.HomeFeed(context.Background(), service.Anonymous)
	require.NoError(t, err)
	require.Len(t, feed.Random, 3)
	for _, s := range feed.Random {
		assert.Nil(t, s.IsFavorite)
	}

	body, err := json.Marshal(feed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"loginRequired": true, "loginUrl": "/login"}`, extract(t, body, "lastWatched"))
}

func TestHomeFeedForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, f.db, "ann")

	localID, err := f.store.Create(ctx, user.ID, flourAndSalt())
	require.NoError(t, err)

	// External 2 and local <localID> are favorites; the external recipe that
	// shares the local id is not.
	_, err = f.tracker.ToggleFavorite(ctx, user.ID, types.ExternalRef(2))
	require.NoError(t, err)
	_, err = f.tracker.ToggleFavorite(ctx, user.ID, types.LocalRef(localID))
	require.NoError(t, err)

	require.NoError(t, f.tracker.RecordWatch(ctx, user.ID, types.ExternalRef(localID)))
	require.NoError(t, f.tracker.RecordWatch(ctx, user.ID, types.LocalRef(localID)))

	f.catalog.On("Random", mock.Anything, 3).Return(threeRandom(), nil)
	f.catalog.On("Lookup", mock.Anything, localID).
		Return(testhelpers.ExternalDetail(localID, "Catalog twin", 2), nil)

	feed, err := f.composer.HomeFeed(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, feed.Login)

	favs := map[int64]bool{}
	for _, s := range feed.Random {
		require.NotNil(t, s.IsFavorite)
		favs[s.ID] = *s.IsFavorite
	}
	assert.Equal(t, map[int64]bool{1: false, 2: true, 3: false}, favs)

	require.Len(t, feed.LastWatched, 2)
	for _, s := range feed.LastWatched {
		require.NotNil(t, s.IsFavorite)
		if s.IsExternal {
			assert.Equal(t, "Catalog twin", s.Title)
			assert.False(t, *s.IsFavorite)
		} else {
			assert.Equal(t, "Bread", s.Title)
			assert.Equal(t, "db", s.Source)
			assert.True(t, *s.IsFavorite)
		}
	}
}

func TestHomeFeedPropagatesCatalogFailure(t *testing.T) {
	f := newFixture(t)
	user := testhelpers.CreateUser(t, f.db, "ann")
	f.catalog.On("Random", mock.Anything, 3).
		Return(nil, apperror.Upstream("Recipe catalog is unavailable", errors.New("timeout")))

	_, err := f.composer.HomeFeed(context.Background(), user.ID)
	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func TestDetailViewAnonymousOmitsAnnotations(t *testing.T) {
	f := newFixture(t)
	f.catalog.On("Lookup", mock.Anything, int64(99)).
		Return(testhelpers.ExternalDetail(99, "Shakshuka", 2, "4 eggs"), nil)

	view, err := f.composer.RecipeDetailView(context.Background(), types.ExternalRef(99), service.Anonymous)
	require.NoError(t, err)
	assert.Nil(t, view.IsFavorite)
	assert.Nil(t, view.IsWatched)
	assert.Equal(t, "spoon", view.Source)

	body, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "isFavorite")
	assert.NotContains(t, string(body), "isWatched")
}

func TestDetailViewFavoriteAfterToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, f.db, "ann")
	ref := types.ExternalRef(99)
	f.catalog.On("Lookup", mock.Anything, int64(99)).
		Return(testhelpers.ExternalDetail(99, "Shakshuka", 2, "4 eggs"), nil)

	view, err := f.composer.RecipeDetailView(ctx, ref, user.ID)
	require.NoError(t, err)
	require.NotNil(t, view.IsWatched)
	require.NotNil(t, view.IsFavorite)
	assert.True(t, *view.IsWatched)
	assert.False(t, *view.IsFavorite)

	_, err = f.tracker.ToggleFavorite(ctx, user.ID, ref)
	require.NoError(t, err)

	view, err = f.composer.RecipeDetailView(ctx, ref, user.ID)
	require.NoError(t, err)
	assert.True(t, *view.IsFavorite)

	_, watched, err := f.tracker.WatchedAt(ctx, user.ID, ref)
	require.NoError(t, err)
	assert.True(t, watched)
}

func TestDetailViewMissingLocalRecipe(t *testing.T) {
	f := newFixture(t)
	user := testhelpers.CreateUser(t, f.db, "ann")

	_, err := f.composer.RecipeDetailView(context.Background(), types.LocalRef(12345), user.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// Nothing is recorded for a recipe that does not exist.
	_, watched, err := f.tracker.WatchedAt(context.Background(), user.ID, types.LocalRef(12345))
	require.NoError(t, err)
	assert.False(t, watched)
}

func TestCookingModeScalesLocalRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, f.db, "ann")
	id, err := f.store.Create(ctx, user.ID, flourAndSalt())
	require.NoError(t, err)

	view, err := f.composer.CookingModeView(ctx, types.LocalRef(id), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"4.0 cups Flour", "2.0 tsp Salt"}, view.Ingredients)
	assert.Equal(t, 8, view.Servings)
	assert.Equal(t, 4, view.OriginalServings)
	assert.Equal(t, 2, view.TotalSteps)
	assert.Equal(t, 0, view.CurrentStep)
	assert.Equal(t, 2.0, view.ServingMultiplier)
	assert.Equal(t, "db", view.Source)
}

func TestCookingModeMultiplierOneIsIdentity(t *testing.T) {
	f := newFixture(t)
	detail := testhelpers.ExternalDetail(5, "Soup", 3, "1 1/2 cups stock", "Salt to taste", "2 carrots")
	f.catalog.On("Lookup", mock.Anything, int64(5)).Return(detail, nil)

	view, err := f.composer.CookingModeView(context.Background(), types.ExternalRef(5), 1)
	require.NoError(t, err)
	assert.Equal(t, detail.Ingredients, view.Ingredients)
	assert.Equal(t, 3, view.Servings)
}

func TestCookingModeRejectsBadMultiplier(t *testing.T) {
	f := newFixture(t)
	for _, m := range []float64{0, -1} {
		_, err := f.composer.CookingModeView(context.Background(), types.ExternalRef(5), m)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	}
}

func TestSearchAnnotatesExternalFavorites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, f.db, "ann")
	_, err := f.tracker.ToggleFavorite(ctx, user.ID, types.ExternalRef(3))
	require.NoError(t, err)
	_, err = f.tracker.ToggleFavorite(ctx, user.ID, types.LocalRef(1))
	require.NoError(t, err)

	params := catalog.SearchParams{Query: "soup", Number: 7}
	f.catalog.On("Search", mock.Anything, params).Return(threeRandom(), nil)

	results, err := f.composer.Search(ctx, params, user.ID)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.False(t, *results[0].IsFavorite, "local favorite 1 must not mark external 1")
	assert.True(t, *results[2].IsFavorite)
}

func TestSearchRequiresQuery(t *testing.T) {
	f := newFixture(t)
	_, err := f.composer.Search(context.Background(), catalog.SearchParams{}, service.Anonymous)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestFavoritePreviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, f.db, "ann")
	localID, err := f.store.Create(ctx, user.ID, flourAndSalt())
	require.NoError(t, err)

	_, err = f.tracker.ToggleFavorite(ctx, user.ID, types.LocalRef(localID))
	require.NoError(t, err)
	_, err = f.tracker.ToggleFavorite(ctx, user.ID, types.ExternalRef(99))
	require.NoError(t, err)
	f.catalog.On("Lookup", mock.Anything, int64(99)).
		Return(testhelpers.ExternalDetail(99, "Shakshuka", 2), nil)

	previews, err := f.composer.FavoritePreviews(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, previews, 2)

	titles := map[string]bool{}
	for _, p := range previews {
		require.NotNil(t, p.IsFavorite)
		assert.True(t, *p.IsFavorite)
		titles[p.Title] = p.IsExternal
	}
	assert.Equal(t, map[string]bool{"Bread": false, "Shakshuka": true}, titles)
}

func TestOwnedAndFamilyPreviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, f.db, "ann")

	plainID, err := f.store.Create(ctx, user.ID, flourAndSalt())
	require.NoError(t, err)
	family := flourAndSalt()
	family.Title = "Challah"
	family.IsFamilyRecipe = true
	_, err = f.store.Create(ctx, user.ID, family)
	require.NoError(t, err)
	_, err = f.tracker.ToggleFavorite(ctx, user.ID, types.LocalRef(plainID))
	require.NoError(t, err)

	owned, err := f.composer.OwnedRecipePreviews(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	for _, p := range owned {
		assert.Equal(t, p.ID == plainID, *p.IsFavorite)
	}

	fam, err := f.composer.FamilyRecipePreviews(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, fam, 1)
	assert.Equal(t, "Challah", fam[0].Title)
}

func extract(t *testing.T, body []byte, key string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return string(m[key])
}
