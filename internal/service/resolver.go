package service

import (
	"context"

	"github.com/familyrecipes/backend/internal/types"
)

// Resolver dispatches a RecipeRef to the catalog or the local store. The
// source tag is the only thing it branches on.
type Resolver struct {
	catalog Catalog
	store   *RecipeStore
}

func NewResolver(catalog Catalog, store *RecipeStore) *Resolver {
	return &Resolver{catalog: catalog, store: store}
}

// Resolve returns the full recipe.
func (r *Resolver) Resolve(ctx context.Context, ref types.RecipeRef) (*types.RecipeDetail, error) {
	if ref.Source.IsExternal() {
		return r.catalog.Lookup(ctx, ref.ID)
	}
	return r.store.Get(ctx, ref.ID)
}

// Preview returns the summary of the recipe.
func (r *Resolver) Preview(ctx context.Context, ref types.RecipeRef) (*types.RecipeSummary, error) {
	if ref.Source.IsExternal() {
		detail, err := r.catalog.Lookup(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &detail.RecipeSummary, nil
	}
	return r.store.Preview(ctx, ref.ID)
}

// Exists reports whether the referenced recipe exists in its source.
func (r *Resolver) Exists(ctx context.Context, ref types.RecipeRef) (bool, error) {
	if ref.Source.IsExternal() {
		return r.catalog.Exists(ctx, ref.ID)
	}
	return r.store.Exists(ctx, ref.ID)
}
