package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/foodgram/internal/models"
	"github.com/Skotchmaster/foodgram/internal/shoppinglist"
	"github.com/Skotchmaster/foodgram/internal/testutil"
)

func TestCartService_ExportAggregatesCart(t *testing.T) {
	f := newFixture(t)
	svc := &CartService{Repo: f.repo, Events: f.events}
	ctx := context.Background()

	user := testutil.NewUser(t, f.db, "user")
	flour := testutil.NewIngredient(t, f.db, "flour", "g")
	sugar := testutil.NewIngredient(t, f.db, "sugar", "g")
	saltG := testutil.NewIngredient(t, f.db, "salt", "g")
	saltTsp := testutil.NewIngredient(t, f.db, "salt", "tsp")

	r1 := testutil.NewRecipe(t, f.db, user, nil,
		testutil.Line{Ingredient: flour, Amount: 200},
		testutil.Line{Ingredient: saltG, Amount: 5},
	)
	r2 := testutil.NewRecipe(t, f.db, user, nil,
		testutil.Line{Ingredient: flour, Amount: 100},
		testutil.Line{Ingredient: sugar, Amount: 50},
		testutil.Line{Ingredient: saltTsp, Amount: 1},
	)

	_, err := svc.AddToCart(ctx, user.ID, r1.ID)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, user.ID, r2.ID)
	require.NoError(t, err)

	doc, err := svc.ExportShoppingList(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "ingredients.txt", doc.Filename)

	body := string(doc.Body)
	assert.Contains(t, body, "flour: 300 g\n")
	assert.Contains(t, body, "sugar: 50 g\n")
	assert.Contains(t, body, "salt: 5 g\n")
	assert.Contains(t, body, "salt: 1 tsp\n")
	assert.NotContains(t, body, "flour: 200 g")

	again, err := svc.ExportShoppingList(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, doc.Body, again.Body)

	pdf1, err := svc.ExportShoppingList(ctx, user.ID, shoppinglist.FormatPDF)
	require.NoError(t, err)
	pdf2, err := svc.ExportShoppingList(ctx, user.ID, shoppinglist.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, pdf1.Body, pdf2.Body)

	assert.Equal(t, []string{"cart_added", "cart_added"}, f.events.types(), "export publishes nothing")
}

func TestCartService_ExportEmptyCart(t *testing.T) {
	f := newFixture(t)
	svc := &CartService{Repo: f.repo}

	user := testutil.NewUser(t, f.db, "user")
	doc, err := svc.ExportShoppingList(context.Background(), user.ID, "txt")
	require.NoError(t, err)
	assert.Empty(t, doc.Body)
	assert.Equal(t, "text/plain; charset=utf-8", doc.ContentType)
}

func TestCartService_ExportUnknownFormat(t *testing.T) {
	f := newFixture(t)
	svc := &CartService{Repo: f.repo}

	_, err := svc.ExportShoppingList(context.Background(), uuid.New(), "xls")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartService_Membership(t *testing.T) {
	f := newFixture(t)
	svc := &CartService{Repo: f.repo, Events: f.events}
	ctx := context.Background()

	user := testutil.NewUser(t, f.db, "user")
	recipe := testutil.NewRecipe(t, f.db, user, nil)

	short, err := svc.AddToCart(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, short.ID)
	assert.Equal(t, recipe.Name, short.Name)

	_, err = svc.AddToCart(ctx, user.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	var n int64
	require.NoError(t, f.db.Model(&models.CartEntry{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	_, err = svc.AddToCart(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.RemoveFromCart(ctx, user.ID, recipe.ID))
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, user.ID, recipe.ID), ErrNotMember)
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, user.ID, uuid.New()), ErrNotFound)

	assert.Equal(t, []string{"cart_added", "cart_removed"}, f.events.types())
}

type failingPublisher struct{}

func (failingPublisher) PublishEvent(context.Context, string, string, any) error {
	return errors.New("broker down")
}

func TestCartService_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	svc := &CartService{Repo: f.repo, Events: failingPublisher{}}

	user := testutil.NewUser(t, f.db, "user")
	recipe := testutil.NewRecipe(t, f.db, user, nil)

	_, err := svc.AddToCart(context.Background(), user.ID, recipe.ID)
	assert.NoError(t, err)
}
