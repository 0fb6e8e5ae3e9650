package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/foodgram/internal/transport"
)

func TestCatalogService_Tags(t *testing.T) {
	f := newFixture(t)
	svc := &CatalogService{Repo: f.repo}
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, transport.TagRequest{Name: "Breakfast", Color: "#e26c2d", Slug: "breakfast"})
	require.NoError(t, err)
	assert.Equal(t, "#E26C2D", tag.Color)

	_, err = svc.CreateTag(ctx, transport.TagRequest{Name: "Brunch", Color: "#E26C2D", Slug: "brunch"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.CreateTag(ctx, transport.TagRequest{Name: "Lunch", Color: "green", Slug: "lunch"})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := svc.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", got.Slug)

	_, err = svc.GetTag(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCatalogService_Ingredients(t *testing.T) {
	f := newFixture(t)
	svc := &CatalogService{Repo: f.repo}
	ctx := context.Background()

	for _, in := range []transport.IngredientRequest{
		{Name: "Sugar", MeasurementUnit: "g"},
		{Name: "brown sugar", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "tsp"},
	} {
		_, err := svc.CreateIngredient(ctx, in)
		require.NoError(t, err)
	}

	_, err := svc.CreateIngredient(ctx, transport.IngredientRequest{Name: "salt", MeasurementUnit: "g"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	found, err := svc.ListIngredients(ctx, "SUG")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Sugar", found[0].Name)
	assert.Equal(t, "brown sugar", found[1].Name)

	all, err := svc.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
