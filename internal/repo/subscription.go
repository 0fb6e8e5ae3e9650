package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/foodgram/internal/models"
)

func (r *GormRepo) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.Subscription, error) {
	return AddMember[models.Subscription](ctx, r.DB, SubscriptionRelation, userID, authorID)
}

func (r *GormRepo) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	return RemoveMember[models.Subscription](ctx, r.DB, SubscriptionRelation, userID, authorID)
}

// ListSubscriptions returns the authors the user follows, ordered by username.
func (r *GormRepo) ListSubscriptions(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.User, error) {
	sub := func() any {
		return r.DB.WithContext(ctx).Model(&models.Subscription{}).Select("author_id").Where("user_id = ?", userID)
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("id IN (?)", sub()).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var authors []models.User
	if err := r.DB.WithContext(ctx).
		Where("id IN (?)", sub()).
		Order("username ASC").
		Scopes(paginate(offset, limit)).
		Find(&authors).Error; err != nil {
		return 0, nil, err
	}
	return total, authors, nil
}

func (r *GormRepo) SubscribedTo(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return MemberTargets[models.Subscription](ctx, r.DB, SubscriptionRelation, userID, authorIDs)
}

func (r *GormRepo) FavoritedAmong(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return MemberTargets[models.Favorite](ctx, r.DB, FavoriteRelation, userID, recipeIDs)
}

func (r *GormRepo) InCartAmong(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return MemberTargets[models.CartEntry](ctx, r.DB, CartRelation, userID, recipeIDs)
}
