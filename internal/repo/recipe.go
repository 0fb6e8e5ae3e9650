package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/foodgram/internal/models"
)

type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Offset      int
	Limit       int
}

// IngredientAmount is a recipe line item joined with its ingredient.
type IngredientAmount struct {
	IngredientID    uuid.UUID
	Name            string
	MeasurementUnit string
	Amount          float64
	Position        int
}

func (f RecipeFilter) apply(db *gorm.DB) *gorm.DB {
	if f.AuthorID != nil {
		db = db.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		db = db.Where("recipes.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.FavoritedBy != nil {
		db = db.Where("recipes.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&models.Favorite{}).
				Select("recipe_id").
				Where("user_id = ?", *f.FavoritedBy))
	}
	if f.InCartOf != nil {
		db = db.Where("recipes.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&models.CartEntry{}).
				Select("recipe_id").
				Where("user_id = ?", *f.InCartOf))
	}
	return db
}

func (r *GormRepo) ListRecipes(ctx context.Context, f RecipeFilter) (int64, []models.Recipe, error) {
	var total int64
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Recipe{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Recipe
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Recipe{})).
		Order("recipes.pub_date DESC").
		Order("recipes.id ASC").
		Scopes(paginate(f.Offset, f.Limit)).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetRecipesByIDs keeps the order of ids and skips ids that no longer exist.
func (r *GormRepo) GetRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.Recipe
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Recipe, len(found))
	for _, rec := range found {
		byID[rec.ID] = rec
	}
	out := make([]models.Recipe, 0, len(found))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *GormRepo) RecipeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) SearchRecipesByName(ctx context.Context, q string, offset, limit int) (int64, []models.Recipe, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	base := func() *gorm.DB {
		return r.DB.WithContext(ctx).Model(&models.Recipe{}).Where("LOWER(name) LIKE ?", pattern)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var items []models.Recipe
	if err := base().Order("name ASC").Order("id ASC").Scopes(paginate(offset, limit)).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) ListRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error) {
	var items []models.Recipe
	if err := r.DB.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC").
		Order("id ASC").
		Scopes(paginate(0, limit)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormRepo) RecipeIngredients(ctx context.Context, recipeID uuid.UUID) ([]IngredientAmount, error) {
	var rows []IngredientAmount
	if err := r.DB.WithContext(ctx).
		Table("recipe_ingredients AS ri").
		Select("ri.ingredient_id, i.name, i.measurement_unit, ri.amount, ri.position").
		Joins("JOIN ingredients i ON i.id = ri.ingredient_id").
		Where("ri.recipe_id = ?", recipeID).
		Order("ri.position ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func checkReferences(tx *gorm.DB, tagIDs []uuid.UUID, items []models.RecipeIngredient) error {
	var n int64
	if err := tx.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(tagIDs) {
		return ErrUnknownTag
	}

	ingIDs := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ingIDs = append(ingIDs, it.IngredientID)
	}
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingIDs).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ingIDs) {
		return ErrUnknownIngredient
	}
	return nil
}

func writeRelations(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID, items []models.RecipeIngredient) error {
	tags := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tags = append(tags, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := tx.Omit("Recipe", "Tag").Create(&tags).Error; err != nil {
		return fmt.Errorf("recipe tags: %w", err)
	}

	for i := range items {
		items[i].ID = uuid.Nil
		items[i].RecipeID = recipeID
		items[i].Position = i
	}
	if err := tx.Omit("Recipe", "Ingredient").Create(&items).Error; err != nil {
		return fmt.Errorf("recipe ingredients: %w", err)
	}
	return nil
}

// CreateRecipe stores the recipe with its tags and line items in one transaction.
// Tag and ingredient ids must be distinct; the caller validates that.
func (r *GormRepo) CreateRecipe(ctx context.Context, recipe *models.Recipe, tagIDs []uuid.UUID, items []models.RecipeIngredient) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, tagIDs, items); err != nil {
			return err
		}
		if err := tx.Omit("Author").Create(recipe).Error; err != nil {
			return err
		}
		return writeRelations(tx, recipe.ID, tagIDs, items)
	})
}

// UpdateRecipe overwrites the recipe fields and replaces its tags and line items.
func (r *GormRepo) UpdateRecipe(ctx context.Context, recipe *models.Recipe, tagIDs []uuid.UUID, items []models.RecipeIngredient) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, tagIDs, items); err != nil {
			return err
		}
		res := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]any{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return writeRelations(tx, recipe.ID, tagIDs, items)
	})
}

// DeleteRecipe removes the recipe and every row pointing at it.
func (r *GormRepo) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dep := range []any{&models.Favorite{}, &models.CartEntry{}, &models.RecipeTag{}, &models.RecipeIngredient{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(dep).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&models.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
