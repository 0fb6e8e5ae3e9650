package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/foodgram/internal/models"
	"github.com/Skotchmaster/foodgram/internal/shoppinglist"
)

func (r *GormRepo) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Favorite, error) {
	return AddMember[models.Favorite](ctx, r.DB, FavoriteRelation, userID, recipeID)
}

func (r *GormRepo) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return RemoveMember[models.Favorite](ctx, r.DB, FavoriteRelation, userID, recipeID)
}

func (r *GormRepo) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.CartEntry, error) {
	return AddMember[models.CartEntry](ctx, r.DB, CartRelation, userID, recipeID)
}

func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return RemoveMember[models.CartEntry](ctx, r.DB, CartRelation, userID, recipeID)
}

// ListCartEntries returns the user's cart oldest first.
func (r *GormRepo) ListCartEntries(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error) {
	var items []models.CartEntry
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("recipe_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListLineItems returns the recipe's ingredients in submission order.
func (r *GormRepo) ListLineItems(ctx context.Context, recipeID uuid.UUID) ([]shoppinglist.LineItem, error) {
	rows, err := r.RecipeIngredients(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	out := make([]shoppinglist.LineItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, shoppinglist.LineItem{
			Name:     row.Name,
			Unit:     row.MeasurementUnit,
			Quantity: row.Amount,
		})
	}
	return out, nil
}

// CartRecipeIDs adapts ListCartEntries to the aggregator's reader.
func (r *GormRepo) CartRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	entries, err := r.ListCartEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.RecipeID)
	}
	return ids, nil
}
