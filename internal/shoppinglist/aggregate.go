// Package shoppinglist sums the ingredients of every recipe in a user's cart
// and renders the result as a downloadable document.
package shoppinglist

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// LineItem is one ingredient line of a recipe.
type LineItem struct {
	Name     string
	Unit     string
	Quantity float64
}

// AggregatedLine is a bucket keyed by (Name, Unit) with its running total.
type AggregatedLine struct {
	Name  string
	Unit  string
	Total float64
}

// String formats the line as "name: total unit".
func (l AggregatedLine) String() string {
	return fmt.Sprintf("%s: %s %s", l.Name, FormatQuantity(l.Total), l.Unit)
}

// FormatQuantity prints the shortest representation: 300, 2.5.
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type CartReader interface {
	CartRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListLineItems(ctx context.Context, recipeID uuid.UUID) ([]LineItem, error)
}

type bucketKey struct {
	name string
	unit string
}

// Aggregator accumulates line items in first-seen order.
type Aggregator struct {
	totals map[bucketKey]float64
	order  []bucketKey
}

func NewAggregator() *Aggregator {
	return &Aggregator{totals: make(map[bucketKey]float64)}
}

func (a *Aggregator) Add(items ...LineItem) {
	for _, it := range items {
		k := bucketKey{name: it.Name, unit: it.Unit}
		if _, ok := a.totals[k]; !ok {
			a.order = append(a.order, k)
		}
		a.totals[k] += it.Quantity
	}
}

func (a *Aggregator) Lines() []AggregatedLine {
	out := make([]AggregatedLine, 0, len(a.order))
	for _, k := range a.order {
		out = append(out, AggregatedLine{Name: k.name, Unit: k.unit, Total: a.totals[k]})
	}
	return out
}

// Aggregate builds the shopping list for the user's cart. An empty cart yields no lines.
func Aggregate(ctx context.Context, r CartReader, userID uuid.UUID) ([]AggregatedLine, error) {
	recipeIDs, err := r.CartRecipeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart entries: %w", err)
	}

	agg := NewAggregator()
	for _, id := range recipeIDs {
		items, err := r.ListLineItems(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("list line items of recipe %s: %w", id, err)
		}
		agg.Add(items...)
	}
	return agg.Lines(), nil
}
