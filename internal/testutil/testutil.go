// Package testutil builds in-memory databases and fixture rows for tests.
package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/foodgram/internal/models"
	"github.com/Skotchmaster/foodgram/pkg/db"
	pkg_hash "github.com/Skotchmaster/foodgram/pkg/hash"
)

const Password = "correct-horse-1"

var (
	hashOnce sync.Once
	hashed   string
)

func passwordHash(t testing.TB) string {
	hashOnce.Do(func() {
		h, err := pkg_hash.HashPassword(Password)
		require.NoError(t, err)
		hashed = h
	})
	return hashed
}

// NewDB opens a migrated in-memory SQLite database closed at test cleanup.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func NewUser(t testing.TB, gdb *gorm.DB, role string) models.User {
	t.Helper()

	u := models.User{
		Email:        strings.ToLower(gofakeit.Email()),
		Username:     gofakeit.Username() + strings.ReplaceAll(uuid.NewString()[:8], "-", ""),
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
		PasswordHash: passwordHash(t),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func NewTag(t testing.TB, gdb *gorm.DB) models.Tag {
	t.Helper()

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	tag := models.Tag{
		Name:  "tag " + suffix[:12],
		Color: "#" + strings.ToUpper(suffix[:6]),
		Slug:  "tag-" + suffix[:12],
	}
	require.NoError(t, gdb.Create(&tag).Error)
	return tag
}

func NewIngredient(t testing.TB, gdb *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()

	ing := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, gdb.Create(&ing).Error)
	return ing
}

// Line is a fixture recipe line item.
type Line struct {
	Ingredient models.Ingredient
	Amount     float64
}

func NewRecipe(t testing.TB, gdb *gorm.DB, author models.User, tags []models.Tag, lines ...Line) models.Recipe {
	t.Helper()

	r := models.Recipe{
		AuthorID:    author.ID,
		Name:        gofakeit.Dessert(),
		Image:       "data:image/png;base64,iVBORw0KGgo=",
		Text:        "Mix the " + gofakeit.Word() + " with " + gofakeit.Word() + ".",
		CookingTime: gofakeit.Number(1, 180),
	}
	require.NoError(t, gdb.Omit("Author").Create(&r).Error)

	for _, tag := range tags {
		require.NoError(t, gdb.Omit("Recipe", "Tag").Create(&models.RecipeTag{RecipeID: r.ID, TagID: tag.ID}).Error)
	}
	for i, ln := range lines {
		require.NoError(t, gdb.Omit("Recipe", "Ingredient").Create(&models.RecipeIngredient{
			RecipeID:     r.ID,
			IngredientID: ln.Ingredient.ID,
			Amount:       ln.Amount,
			Position:     i,
		}).Error)
	}
	return r
}
