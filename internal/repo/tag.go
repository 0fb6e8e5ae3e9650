package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/foodgram/internal/models"
)

func (r *GormRepo) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *GormRepo) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// CreateTag fails with gorm.ErrDuplicatedKey when the name, color or slug is taken.
func (r *GormRepo) CreateTag(ctx context.Context, tag *models.Tag) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Tag{}).
			Where("name = ? OR color = ? OR slug = ?", tag.Name, tag.Color, tag.Slug).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Create(tag).Error
	})
}

// TagsForRecipes returns the tags of every given recipe keyed by recipe id.
func (r *GormRepo) TagsForRecipes(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID][]models.Tag, error) {
	out := make(map[uuid.UUID][]models.Tag, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RecipeID uuid.UUID
		models.Tag
	}
	if err := r.DB.WithContext(ctx).
		Table("recipe_tags AS rt").
		Select("rt.recipe_id, t.id, t.name, t.color, t.slug").
		Joins("JOIN tags t ON t.id = rt.tag_id").
		Where("rt.recipe_id IN ?", recipeIDs).
		Order("t.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], row.Tag)
	}
	return out, nil
}
