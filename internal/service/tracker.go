package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/familyrecipes/backend/internal/models"
	"github.com/familyrecipes/backend/internal/types"
)

// Tracker records favorites and watch history. Every row is keyed by the
// full RecipeRef.
type Tracker struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{db: db, now: time.Now}
}

// WithClock replaces the time source used for watch timestamps.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// ToggleFavorite flips the favorite state and returns the new state. Two
// concurrent toggles of the same key may race; the primary key keeps the table
// consistent and the loser gets an error.
func (t *Tracker) ToggleFavorite(ctx context.Context, userID int64, ref types.RecipeRef) (bool, error) {
	var favorited bool
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND recipe_id = ? AND is_external = ?", userID, ref.ID, ref.Source.IsExternal()).
			Delete(&models.FavoriteRecipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			favorited = false
			return nil
		}

		fav := models.FavoriteRecipe{
			UserID:     userID,
			RecipeID:   ref.ID,
			IsExternal: ref.Source.IsExternal(),
			CreatedAt:  t.now(),
		}
		if err := tx.Create(&fav).Error; err != nil {
			return err
		}
		favorited = true
		return nil
	})
	return favorited, err
}

// IsFavorite checks the favorite state of exactly ref.
func (t *Tracker) IsFavorite(ctx context.Context, userID int64, ref types.RecipeRef) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).Model(&models.FavoriteRecipe{}).
		Where("user_id = ? AND recipe_id = ? AND is_external = ?", userID, ref.ID, ref.Source.IsExternal()).
		Count(&count).Error
	return count > 0, err
}

// ListFavorites returns the user's favorites, newest first.
func (t *Tracker) ListFavorites(ctx context.Context, userID int64) ([]types.RecipeRef, error) {
	var favs []models.FavoriteRecipe
	err := t.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favs).Error
	if err != nil {
		return nil, err
	}
	refs := make([]types.RecipeRef, 0, len(favs))
	for _, f := range favs {
		refs = append(refs, types.RecipeRef{ID: f.RecipeID, Source: types.SourceOf(f.IsExternal)})
	}
	return refs, nil
}

// FavoriteIDs returns the set of favorite ids within one source.
func (t *Tracker) FavoriteIDs(ctx context.Context, userID int64, source types.Source) (map[int64]struct{}, error) {
	var ids []int64
	err := t.db.WithContext(ctx).Model(&models.FavoriteRecipe{}).
		Where("user_id = ? AND is_external = ?", userID, source.IsExternal()).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// RecordWatch stamps the watch time of ref, inserting or updating the single
// row for the key.
func (t *Tracker) RecordWatch(ctx context.Context, userID int64, ref types.RecipeRef) error {
	event := models.WatchEvent{
		UserID:     userID,
		RecipeID:   ref.ID,
		IsExternal: ref.Source.IsExternal(),
		WatchedAt:  t.now(),
	}
	return t.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}, {Name: "is_external"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
	}).Create(&event).Error
}

// ListRecentlyWatched returns up to limit refs, most recent first.
func (t *Tracker) ListRecentlyWatched(ctx context.Context, userID int64, limit int) ([]types.RecipeRef, error) {
	var events []models.WatchEvent
	err := t.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	refs := make([]types.RecipeRef, 0, len(events))
	for _, e := range events {
		refs = append(refs, types.RecipeRef{ID: e.RecipeID, Source: types.SourceOf(e.IsExternal)})
	}
	return refs, nil
}

// WatchedAt returns when ref was last watched, or false if never.
func (t *Tracker) WatchedAt(ctx context.Context, userID int64, ref types.RecipeRef) (time.Time, bool, error) {
	var event models.WatchEvent
	err := t.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND is_external = ?", userID, ref.ID, ref.Source.IsExternal()).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return event.WatchedAt, true, nil
}
