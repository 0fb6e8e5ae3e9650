package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/foodgram/internal/mykafka"
	"github.com/Skotchmaster/foodgram/internal/repo"
	"github.com/Skotchmaster/foodgram/internal/shoppinglist"
	"github.com/Skotchmaster/foodgram/internal/transport"
	"github.com/Skotchmaster/foodgram/pkg/logging"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

func (s *CartService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*transport.RecipeShortResponse, error) {
	recipe, err := s.Repo.GetRecipe(ctx, recipeID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.Repo.AddToCart(ctx, userID, recipeID); err != nil {
		return nil, membershipErr(err, "cart entry")
	}
	publish(ctx, s.Events, mykafka.TopicCartEvents, "cart_added", userID, recipeID)
	short := toRecipeShort(*recipe)
	return &short, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	ok, err := s.Repo.RecipeExists(ctx, recipeID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
	}
	if err := s.Repo.RemoveFromCart(ctx, userID, recipeID); err != nil {
		return membershipErr(err, "cart entry")
	}
	publish(ctx, s.Events, mykafka.TopicCartEvents, "cart_removed", userID, recipeID)
	return nil
}

// ExportShoppingList aggregates the user's cart into a document. It has no side effects.
func (s *CartService) ExportShoppingList(ctx context.Context, userID uuid.UUID, format string) (*shoppinglist.Document, error) {
	l := logging.FromContext(ctx).With("svc", "cart.export")

	lines, err := shoppinglist.Aggregate(ctx, s.Repo, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}

	doc, err := shoppinglist.Render(format, lines)
	if err != nil {
		if errors.Is(err, shoppinglist.ErrUnknownFormat) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, err
	}

	l.Debug("shopping_list_rendered", "format", format, "lines", len(lines), "bytes", len(doc.Body))
	return doc, nil
}
