package shoppinglist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCart struct {
	recipes []uuid.UUID
	items   map[uuid.UUID][]LineItem
	err     error
}

func (f *fakeCart) CartRecipeIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return f.recipes, f.err
}

func (f *fakeCart) ListLineItems(_ context.Context, id uuid.UUID) ([]LineItem, error) {
	return f.items[id], nil
}

func newFakeCart(recipes ...[]LineItem) *fakeCart {
	f := &fakeCart{items: map[uuid.UUID][]LineItem{}}
	for _, items := range recipes {
		id := uuid.New()
		f.recipes = append(f.recipes, id)
		f.items[id] = items
	}
	return f
}

func TestAggregate_SumsSameIngredientAcrossRecipes(t *testing.T) {
	t.Parallel()

	cart := newFakeCart(
		[]LineItem{{Name: "flour", Unit: "g", Quantity: 200}},
		[]LineItem{{Name: "flour", Unit: "g", Quantity: 100}, {Name: "sugar", Unit: "g", Quantity: 50}},
	)

	lines, err := Aggregate(context.Background(), cart, uuid.New())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "flour: 300 g", lines[0].String())
	assert.Equal(t, "sugar: 50 g", lines[1].String())
}

func TestAggregate_UnitSensitive(t *testing.T) {
	t.Parallel()

	cart := newFakeCart(
		[]LineItem{{Name: "salt", Unit: "g", Quantity: 5}},
		[]LineItem{{Name: "salt", Unit: "tsp", Quantity: 1}},
	)

	lines, err := Aggregate(context.Background(), cart, uuid.New())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "salt: 5 g", lines[0].String())
	assert.Equal(t, "salt: 1 tsp", lines[1].String())
}

func TestAggregate_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	cart := newFakeCart(
		[]LineItem{{Name: "milk", Unit: "ml", Quantity: 250}, {Name: "egg", Unit: "pcs", Quantity: 2}},
		[]LineItem{{Name: "butter", Unit: "g", Quantity: 10}, {Name: "milk", Unit: "ml", Quantity: 0.5}},
	)

	lines, err := Aggregate(context.Background(), cart, uuid.New())
	require.NoError(t, err)

	var got []string
	for _, l := range lines {
		got = append(got, l.String())
	}
	assert.Equal(t, []string{"milk: 250.5 ml", "egg: 2 pcs", "butter: 10 g"}, got)
}

func TestAggregate_EmptyCart(t *testing.T) {
	t.Parallel()

	lines, err := Aggregate(context.Background(), newFakeCart(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, lines)

	doc, err := Render(FormatTXT, lines)
	require.NoError(t, err)
	assert.Empty(t, doc.Body)
}

func TestAggregate_ReaderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Aggregate(context.Background(), &fakeCart{err: boom}, uuid.New())
	assert.ErrorIs(t, err, boom)
}

func TestFormatQuantity(t *testing.T) {
	t.Parallel()

	tests := map[float64]string{
		300:  "300",
		2.5:  "2.5",
		0.25: "0.25",
		1e6:  "1000000",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatQuantity(in))
	}
}
