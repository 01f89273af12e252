package service

import (
	"context"
	"io"

	"github.com/familyrecipes/backend/internal/catalog"
	"github.com/familyrecipes/backend/internal/models"
	"github.com/familyrecipes/backend/internal/types"
)

// Anonymous is the user id of a caller without a session.
const Anonymous int64 = 0

// Catalog is the external recipe catalog.
type Catalog interface {
	Lookup(ctx context.Context, id int64) (*types.RecipeDetail, error)
	Search(ctx context.Context, params catalog.SearchParams) ([]types.RecipeSummary, error)
	Random(ctx context.Context, count int) ([]types.RecipeSummary, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// ProgressStore keeps cooking progress for the lifetime of a session. Get
// returns nil without error when nothing was saved.
type ProgressStore interface {
	Get(ctx context.Context, sessionID string, ref types.RecipeRef) (*types.CookingProgress, error)
	Save(ctx context.Context, sessionID string, ref types.RecipeRef, progress *types.CookingProgress) error
	Delete(ctx context.Context, sessionID string, ref types.RecipeRef) error
	Clear(ctx context.Context, sessionID string) error
}

// ImageStore persists uploaded recipe images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, userID int64, filename, contentType string, body io.Reader, size int64) (string, error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	Countries(ctx context.Context) ([]string, error)
}
