package testhelpers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/familyrecipes/backend/internal/catalog"
	"github.com/familyrecipes/backend/internal/types"
)

// MockCatalog is a mock implementation of the recipe catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Lookup(ctx context.Context, id int64) (*types.RecipeDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

func (m *MockCatalog) Search(ctx context.Context, params catalog.SearchParams) ([]types.RecipeSummary, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeSummary), args.Error(1)
}

func (m *MockCatalog) Random(ctx context.Context, count int) ([]types.RecipeSummary, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeSummary), args.Error(1)
}

func (m *MockCatalog) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockImageStore is a mock implementation of the image store
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, userID int64, filename, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, userID, filename, contentType, body, size)
	return args.String(0), args.Error(1)
}

// ExternalSummary builds a catalog summary for tests.
func ExternalSummary(id int64, title string) types.RecipeSummary {
	return types.RecipeSummary{
		ID:             id,
		Title:          title,
		ReadyInMinutes: 20,
		IsExternal:     true,
		Source:         types.SourceExternal.String(),
	}
}

// ExternalDetail builds a catalog recipe for tests.
func ExternalDetail(id int64, title string, servings int, ingredients ...string) *types.RecipeDetail {
	return &types.RecipeDetail{
		RecipeSummary: ExternalSummary(id, title),
		Servings:      servings,
		Ingredients:   ingredients,
		Instructions:  []string{"Mix.", "Cook."},
	}
}
