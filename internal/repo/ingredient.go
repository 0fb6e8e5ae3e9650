package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/foodgram/internal/models"
)

func (r *GormRepo) ListIngredients(ctx context.Context, name string) ([]models.Ingredient, error) {
	q := r.DB.WithContext(ctx).Model(&models.Ingredient{})
	if name = strings.TrimSpace(name); name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var items []models.Ingredient
	if err := q.Order("name ASC").Order("measurement_unit ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *GormRepo) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Ingredient{}).
			Where("name = ? AND measurement_unit = ?", ing.Name, ing.MeasurementUnit).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Create(ing).Error
	})
}
