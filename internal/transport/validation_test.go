package transport

import (
	"regexp"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecipe() RecipeWriteRequest {
	return RecipeWriteRequest{
		Ingredients: []IngredientAmountRequest{{ID: uuid.New(), Amount: 10}},
		Tags:        []uuid.UUID{uuid.New()},
		Image:       "data:image/png;base64,AAAA",
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 15,
	}
}

func TestValidate_Recipe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(r *RecipeWriteRequest)
		wantErr string
	}{
		{name: "ok", mutate: func(*RecipeWriteRequest) {}},
		{name: "no tags", mutate: func(r *RecipeWriteRequest) { r.Tags = nil }, wantErr: "tags is required"},
		{name: "no ingredients", mutate: func(r *RecipeWriteRequest) { r.Ingredients = []IngredientAmountRequest{} }, wantErr: "ingredients must be at least 1"},
		{name: "zero amount", mutate: func(r *RecipeWriteRequest) { r.Ingredients[0].Amount = 0 }, wantErr: "amount must be greater than 0"},
		{name: "negative amount", mutate: func(r *RecipeWriteRequest) { r.Ingredients[0].Amount = -1 }, wantErr: "amount must be greater than 0"},
		{name: "zero cooking time", mutate: func(r *RecipeWriteRequest) { r.CookingTime = 0 }, wantErr: "cooking_time is required"},
		{name: "long name", mutate: func(r *RecipeWriteRequest) { r.Name = string(make([]byte, 201)) }, wantErr: "name must be at most 200"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := validRecipe()
			tt.mutate(&r)
			err := Validate(&r)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Register(t *testing.T) {
	t.Parallel()

	ok := RegisterRequest{Email: "a@b.io", Username: "chef.anna+1", FirstName: "Anna", LastName: "K", Password: "secret123"}
	require.NoError(t, Validate(&ok))

	bad := ok
	bad.Username = "has space"
	assert.ErrorContains(t, Validate(&bad), "username")

	bad = ok
	bad.Email = "nope"
	assert.ErrorContains(t, Validate(&bad), "email must be a valid email")

	bad = ok
	bad.Password = "short"
	assert.ErrorContains(t, Validate(&bad), "password must be at least 8")
}

func TestValidate_Tag(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(&TagRequest{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}))
	assert.Error(t, Validate(&TagRequest{Name: "Breakfast", Color: "red", Slug: "breakfast"}))
	assert.Error(t, Validate(&TagRequest{Name: "Breakfast", Color: "#E26C2D", Slug: "bad slug"}))
}

func TestMustRegister(t *testing.T) {
	re := regexp.MustCompile(`^x+$`)

	assert.Panics(t, func() { mustRegister(validator.New(), "", re) })

	v := validator.New()
	require.NotPanics(t, func() { mustRegister(v, "xs", re) })
	assert.NoError(t, v.Var("xxx", "xs"))
	assert.Error(t, v.Var("xy", "xs"))
}
