package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/catalog"
	"github.com/familyrecipes/backend/internal/types"
)

// ComposerConfig sizes the home feed.
type ComposerConfig struct {
	RandomCount  int
	WatchedLimit int
}

// Composer assembles the user-facing recipe views from the resolver and the
// tracker. A userID of Anonymous skips all personalization.
type Composer struct {
	catalog  Catalog
	resolver *Resolver
	store    *RecipeStore
	tracker  *Tracker
	cfg      ComposerConfig
}

func NewComposer(catalog Catalog, resolver *Resolver, store *RecipeStore, tracker *Tracker, cfg ComposerConfig) *Composer {
	if cfg.RandomCount <= 0 {
		cfg.RandomCount = 3
	}
	if cfg.WatchedLimit <= 0 {
		cfg.WatchedLimit = 3
	}
	return &Composer{
		catalog:  catalog,
		resolver: resolver,
		store:    store,
		tracker:  tracker,
		cfg:      cfg,
	}
}

// HomeFeed returns random catalog recipes and, for a signed-in user, the most
// recently watched recipes. Each watched recipe keeps the source it was
// watched from and is checked against favorites of that source only.
func (c *Composer) HomeFeed(ctx context.Context, userID int64) (*types.HomeFeed, error) {
	if userID == Anonymous {
		random, err := c.catalog.Random(ctx, c.cfg.RandomCount)
		if err != nil {
			return nil, err
		}
		return &types.HomeFeed{
			Random: annotate(random, nil),
			Login:  &types.DefaultLoginPrompt,
		}, nil
	}

	var (
		random   []types.RecipeSummary
		watched  []types.RecipeSummary
		external map[int64]struct{}
		local    map[int64]struct{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		random, err = c.catalog.Random(gctx, c.cfg.RandomCount)
		return err
	})
	g.Go(func() error {
		var err error
		external, err = c.tracker.FavoriteIDs(gctx, userID, types.SourceExternal)
		return err
	})
	g.Go(func() error {
		var err error
		local, err = c.tracker.FavoriteIDs(gctx, userID, types.SourceLocal)
		return err
	})
	g.Go(func() error {
		refs, err := c.tracker.ListRecentlyWatched(gctx, userID, c.cfg.WatchedLimit)
		if err != nil {
			return err
		}
		watched, err = c.previews(gctx, refs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lastWatched := make([]types.AnnotatedSummary, 0, len(watched))
	for _, s := range watched {
		set := local
		if s.IsExternal {
			set = external
		}
		lastWatched = append(lastWatched, annotateOne(s, set))
	}

	return &types.HomeFeed{
		Random:      annotate(random, external),
		LastWatched: lastWatched,
	}, nil
}

// RecipeDetailView resolves ref and, for a signed-in user, records the watch
// and adds favorite and watched flags.
func (c *Composer) RecipeDetailView(ctx context.Context, ref types.RecipeRef, userID int64) (*types.RecipeDetailView, error) {
	detail, err := c.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	view := &types.RecipeDetailView{RecipeDetail: *detail}
	view.IsExternal = ref.Source.IsExternal()
	view.Source = ref.Source.String()

	if userID == Anonymous {
		return view, nil
	}

	if err := c.tracker.RecordWatch(ctx, userID, ref); err != nil {
		return nil, err
	}
	fav, err := c.tracker.IsFavorite(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	watched := true
	view.IsFavorite = &fav
	view.IsWatched = &watched
	return view, nil
}

// CookingModeView reshapes the recipe for step-by-step cooking with
// ingredient quantities scaled by multiplier.
func (c *Composer) CookingModeView(ctx context.Context, ref types.RecipeRef, multiplier float64) (*types.CookingModeView, error) {
	if multiplier <= 0 {
		return nil, apperror.Validation("servings", "Invalid servings multiplier")
	}

	detail, err := c.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	ingredients := detail.Ingredients
	servings := detail.Servings
	if multiplier != 1 {
		ingredients = make([]string, len(detail.Ingredients))
		for i, line := range detail.Ingredients {
			ingredients[i] = ScaleIngredient(line, multiplier)
		}
		servings = ScaleServings(detail.Servings, multiplier)
	}

	return &types.CookingModeView{
		ID:                detail.ID,
		Title:             detail.Title,
		Image:             detail.Image,
		Servings:          servings,
		ReadyInMinutes:    detail.ReadyInMinutes,
		Ingredients:       ingredients,
		Instructions:      detail.Instructions,
		CurrentStep:       0,
		TotalSteps:        len(detail.Instructions),
		ServingMultiplier: multiplier,
		OriginalServings:  detail.Servings,
		IsExternal:        ref.Source.IsExternal(),
		Source:            ref.Source.String(),
	}, nil
}

// Search runs a catalog search and marks external favorites.
func (c *Composer) Search(ctx context.Context, params catalog.SearchParams, userID int64) ([]types.AnnotatedSummary, error) {
	if params.Query == "" {
		return nil, apperror.Validation("query", "Query is required")
	}
	results, err := c.catalog.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if userID == Anonymous {
		return annotate(results, nil), nil
	}
	favs, err := c.tracker.FavoriteIDs(ctx, userID, types.SourceExternal)
	if err != nil {
		return nil, err
	}
	return annotate(results, favs), nil
}

// FavoritePreviews resolves every favorite of the user to a preview.
func (c *Composer) FavoritePreviews(ctx context.Context, userID int64) ([]types.AnnotatedSummary, error) {
	refs, err := c.tracker.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries, err := c.previews(ctx, refs)
	if err != nil {
		return nil, err
	}
	out := make([]types.AnnotatedSummary, 0, len(summaries))
	for _, s := range summaries {
		fav := true
		out = append(out, types.AnnotatedSummary{RecipeSummary: s, IsFavorite: &fav})
	}
	return out, nil
}

// OwnedRecipePreviews lists the recipes the user authored.
func (c *Composer) OwnedRecipePreviews(ctx context.Context, userID int64) ([]types.AnnotatedSummary, error) {
	recipes, err := c.store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.annotateLocal(ctx, userID, recipes)
}

// FamilyRecipePreviews lists the user's family recipes.
func (c *Composer) FamilyRecipePreviews(ctx context.Context, userID int64) ([]types.AnnotatedSummary, error) {
	recipes, err := c.store.ListFamilyByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.annotateLocal(ctx, userID, recipes)
}

func (c *Composer) annotateLocal(ctx context.Context, userID int64, recipes []types.RecipeSummary) ([]types.AnnotatedSummary, error) {
	favs, err := c.tracker.FavoriteIDs(ctx, userID, types.SourceLocal)
	if err != nil {
		return nil, err
	}
	return annotate(recipes, favs), nil
}

// previews resolves refs concurrently, keeping their order. The first failure
// cancels the rest.
func (c *Composer) previews(ctx context.Context, refs []types.RecipeRef) ([]types.RecipeSummary, error) {
	out := make([]types.RecipeSummary, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			s, err := c.resolver.Preview(gctx, ref)
			if err != nil {
				return err
			}
			// The stored source wins over whatever the resolver reports.
			s.IsExternal = ref.Source.IsExternal()
			s.Source = ref.Source.String()
			out[i] = *s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// annotate marks each summary's favorite state. A nil set leaves the flag
// absent.
func annotate(summaries []types.RecipeSummary, favs map[int64]struct{}) []types.AnnotatedSummary {
	out := make([]types.AnnotatedSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, annotateOne(s, favs))
	}
	return out
}

func annotateOne(s types.RecipeSummary, favs map[int64]struct{}) types.AnnotatedSummary {
	a := types.AnnotatedSummary{RecipeSummary: s}
	if favs != nil {
		_, ok := favs[s.ID]
		a.IsFavorite = &ok
	}
	return a
}
