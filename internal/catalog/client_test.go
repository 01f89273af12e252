package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/familyrecipes/backend/internal/apperror"
)

const recipeJSON = `{
	"id": 99,
	"title": "Shakshuka",
	"readyInMinutes": 30,
	"image": "https://img.example/99.jpg",
	"aggregateLikes": 12,
	"vegan": false,
	"vegetarian": true,
	"glutenFree": true,
	"servings": 2,
	"extendedIngredients": [{"original": "4 eggs"}, {"original": "1 can tomatoes"}],
	"analyzedInstructions": [
		{"name": "", "steps": [{"number": 1, "step": "Simmer tomatoes."}, {"number": 2, "step": "Add eggs."}]},
		{"name": "Garnish", "steps": [{"number": 1, "step": "Add parsley."}]}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]url.Values) {
	t.Helper()
	var queries []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query())
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "secret", 2*time.Second), &queries
}

func TestLookupNormalizes(t *testing.T) {
	client, queries := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/99/information", r.URL.Path)
		w.Write([]byte(recipeJSON))
	})

	detail, err := client.Lookup(context.Background(), 99)
	require.NoError(t, err)

	assert.Equal(t, int64(99), detail.ID)
	assert.True(t, detail.IsExternal)
	assert.Equal(t, "spoon", detail.Source)
	require.NotNil(t, detail.Popularity)
	assert.Equal(t, 12, *detail.Popularity)
	assert.Equal(t, []string{"4 eggs", "1 can tomatoes"}, detail.Ingredients)
	assert.Equal(t, []string{"Simmer tomatoes.", "Add eggs."}, detail.Instructions)

	q := (*queries)[0]
	assert.Equal(t, "secret", q.Get("apiKey"))
	assert.Equal(t, "false", q.Get("includeNutrition"))
}

func TestLookupMissingListsDefaultEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 5, "title": "Toast", "servings": 1}`))
	})

	detail, err := client.Lookup(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, detail.Ingredients)
	assert.Empty(t, detail.Ingredients)
	assert.NotNil(t, detail.Instructions)
	assert.Empty(t, detail.Instructions)
}

func TestLookupNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Lookup(context.Background(), 1)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	ok, err := client.Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpstreamFailures(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"message": "quota"}`))
	})

	_, err := client.Lookup(context.Background(), 1)
	assert.ErrorIs(t, err, apperror.ErrUpstream)

	_, err = client.Exists(context.Background(), 1)
	assert.ErrorIs(t, err, apperror.ErrUpstream)

	_, err = client.Random(context.Background(), 3)
	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func TestUnreachableCatalog(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(srv.URL, "k", time.Second)

	_, err := client.Search(context.Background(), SearchParams{Query: "soup"})
	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func TestSearchParams(t *testing.T) {
	client, queries := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/complexSearch", r.URL.Path)
		w.Write([]byte(`{"results": [` + recipeJSON + `]}`))
	})

	results, err := client.Search(context.Background(), SearchParams{
		Query:   "eggs",
		Number:  7,
		Cuisine: []string{"Italian", "Greek"},
		Diet:    []string{"vegetarian"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Shakshuka", results[0].Title)

	q := (*queries)[0]
	assert.Equal(t, "eggs", q.Get("query"))
	assert.Equal(t, "5", q.Get("number"))
	assert.Equal(t, "true", q.Get("addRecipeInformation"))
	assert.Equal(t, "Italian,Greek", q.Get("cuisine"))
	assert.Equal(t, "vegetarian", q.Get("diet"))
	assert.False(t, q.Has("intolerances"))
}

func TestRandom(t *testing.T) {
	client, queries := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/random", r.URL.Path)
		w.Write([]byte(`{"recipes": [` + recipeJSON + `,` + recipeJSON + `]}`))
	})

	results, err := client.Random(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "2", (*queries)[0].Get("number"))
}

func TestClampNumber(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 5}, {5, 5}, {7, 5}, {10, 10}, {15, 15}, {20, 5}, {-1, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampNumber(tt.in), "input %d", tt.in)
	}
}
