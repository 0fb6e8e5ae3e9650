package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/foodgram/internal/models"
	"github.com/Skotchmaster/foodgram/internal/mykafka"
	"github.com/Skotchmaster/foodgram/internal/repo"
	"github.com/Skotchmaster/foodgram/internal/search"
	"github.com/Skotchmaster/foodgram/internal/transport"
	"github.com/Skotchmaster/foodgram/pkg/logging"
)

// SearchIndex is the optional full-text index kept in sync with recipe writes.
type SearchIndex interface {
	IndexRecipe(ctx context.Context, doc search.RecipeDocument) error
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	SearchRecipes(ctx context.Context, q string, offset, limit int) (search.Results, error)
}

type RecipeService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
	Search SearchIndex
}

type ListParams struct {
	Viewer      uuid.UUID
	IsFavorited bool
	IsInCart    bool
	AuthorID    *uuid.UUID
	Tags        []string
	Offset      int
	Limit       int
}

func toRecipeShort(r models.Recipe) transport.RecipeShortResponse {
	return transport.RecipeShortResponse{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

func (s *RecipeService) List(ctx context.Context, p ListParams) (int64, []transport.RecipeResponse, error) {
	if (p.IsFavorited || p.IsInCart) && p.Viewer == uuid.Nil {
		return 0, []transport.RecipeResponse{}, nil
	}

	f := repo.RecipeFilter{AuthorID: p.AuthorID, TagSlugs: p.Tags, Offset: p.Offset, Limit: p.Limit}
	if p.IsFavorited {
		f.FavoritedBy = &p.Viewer
	}
	if p.IsInCart {
		f.InCartOf = &p.Viewer
	}

	total, recipes, err := s.Repo.ListRecipes(ctx, f)
	if err != nil {
		return 0, nil, fmt.Errorf("list recipes: %w", err)
	}
	out, err := s.represent(ctx, p.Viewer, recipes)
	if err != nil {
		return 0, nil, err
	}
	return total, out, nil
}

func (s *RecipeService) Get(ctx context.Context, viewer, id uuid.UUID) (*transport.RecipeResponse, error) {
	recipe, err := s.Repo.GetRecipe(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	out, err := s.represent(ctx, viewer, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// SearchRecipes uses the index when configured and falls back to a name match in the database.
func (s *RecipeService) SearchRecipes(ctx context.Context, viewer uuid.UUID, q string, offset, limit int) (int64, []transport.RecipeResponse, error) {
	l := logging.FromContext(ctx).With("svc", "recipes.search")

	var (
		total   int64
		recipes []models.Recipe
		err     error
	)
	if s.Search != nil {
		var res search.Results
		res, err = s.Search.SearchRecipes(ctx, q, offset, limit)
		if err == nil {
			total = res.Total
			recipes, err = s.Repo.GetRecipesByIDs(ctx, res.IDs)
		}
		if err != nil {
			l.Warn("search_index_failed", "reason", "falling back to database", "error", err)
		}
	}
	if s.Search == nil || err != nil {
		total, recipes, err = s.Repo.SearchRecipesByName(ctx, q, offset, limit)
		if err != nil {
			return 0, nil, fmt.Errorf("search recipes: %w", err)
		}
	}

	out, err := s.represent(ctx, viewer, recipes)
	if err != nil {
		return 0, nil, err
	}
	return total, out, nil
}

func validateRecipe(req *transport.RecipeWriteRequest, create bool) ([]uuid.UUID, []models.RecipeIngredient, error) {
	if err := transport.Validate(req); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if create && req.Image == "" {
		return nil, nil, fmt.Errorf("%w: image is required", ErrValidation)
	}

	seenTags := make(map[uuid.UUID]struct{}, len(req.Tags))
	for _, id := range req.Tags {
		if _, dup := seenTags[id]; dup {
			return nil, nil, fmt.Errorf("%w: tags must be unique", ErrValidation)
		}
		seenTags[id] = struct{}{}
	}

	seenIngs := make(map[uuid.UUID]struct{}, len(req.Ingredients))
	items := make([]models.RecipeIngredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if _, dup := seenIngs[ing.ID]; dup {
			return nil, nil, fmt.Errorf("%w: ingredients must be unique", ErrValidation)
		}
		if ing.Amount <= 0 {
			return nil, nil, fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
		}
		seenIngs[ing.ID] = struct{}{}
		items = append(items, models.RecipeIngredient{IngredientID: ing.ID, Amount: ing.Amount})
	}
	return req.Tags, items, nil
}

func writeErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrUnknownTag):
		return fmt.Errorf("tag: %w", ErrNotFound)
	case errors.Is(err, repo.ErrUnknownIngredient):
		return fmt.Errorf("ingredient: %w", ErrNotFound)
	case repo.IsNotFound(err):
		return fmt.Errorf("recipe: %w", ErrNotFound)
	default:
		return err
	}
}

func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req transport.RecipeWriteRequest) (*transport.RecipeResponse, error) {
	l := logging.FromContext(ctx).With("svc", "recipes.create")

	tagIDs, items, err := validateRecipe(&req, true)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       req.Image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if err := s.Repo.CreateRecipe(ctx, &recipe, tagIDs, items); err != nil {
		return nil, writeErr(err)
	}

	l.Info("recipe_created", "recipe_id", recipe.ID)
	publish(ctx, s.Events, mykafka.TopicRecipeEvents, "recipe_created", authorID, recipe.ID)
	return s.afterWrite(ctx, authorID, recipe.ID)
}

// authorize loads the recipe and checks the actor may modify it.
func (s *RecipeService) authorize(ctx context.Context, actor uuid.UUID, isAdmin bool, id uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.Repo.GetRecipe(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if recipe.AuthorID != actor && !isAdmin {
		return nil, fmt.Errorf("recipe %s belongs to another user: %w", id, ErrForbidden)
	}
	return recipe, nil
}

func (s *RecipeService) Update(ctx context.Context, actor uuid.UUID, isAdmin bool, id uuid.UUID, req transport.RecipeWriteRequest) (*transport.RecipeResponse, error) {
	recipe, err := s.authorize(ctx, actor, isAdmin, id)
	if err != nil {
		return nil, err
	}
	tagIDs, items, err := validateRecipe(&req, false)
	if err != nil {
		return nil, err
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	if req.Image != "" {
		recipe.Image = req.Image
	}
	if err := s.Repo.UpdateRecipe(ctx, recipe, tagIDs, items); err != nil {
		return nil, writeErr(err)
	}

	publish(ctx, s.Events, mykafka.TopicRecipeEvents, "recipe_updated", actor, recipe.ID)
	return s.afterWrite(ctx, actor, recipe.ID)
}

func (s *RecipeService) Delete(ctx context.Context, actor uuid.UUID, isAdmin bool, id uuid.UUID) error {
	if _, err := s.authorize(ctx, actor, isAdmin, id); err != nil {
		return err
	}
	if err := s.Repo.DeleteRecipe(ctx, id); err != nil {
		return writeErr(err)
	}

	if s.Search != nil {
		if err := s.Search.DeleteRecipe(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "recipe_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, mykafka.TopicRecipeEvents, "recipe_deleted", actor, id)
	return nil
}

// afterWrite re-reads the recipe and pushes it to the search index.
func (s *RecipeService) afterWrite(ctx context.Context, viewer, id uuid.UUID) (*transport.RecipeResponse, error) {
	resp, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if s.Search != nil {
		if err := s.Search.IndexRecipe(ctx, toSearchDocument(resp)); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "recipe_id", id, "error", err)
		}
	}
	return resp, nil
}

func toSearchDocument(r *transport.RecipeResponse) search.RecipeDocument {
	doc := search.RecipeDocument{
		ID:       r.ID.String(),
		Name:     r.Name,
		Text:     r.Text,
		AuthorID: r.Author.ID.String(),
	}
	for _, t := range r.Tags {
		doc.Tags = append(doc.Tags, t.Name)
	}
	for _, i := range r.Ingredients {
		doc.Ingredients = append(doc.Ingredients, i.Name)
	}
	return doc
}

func (s *RecipeService) recipeExists(ctx context.Context, id uuid.UUID) error {
	ok, err := s.Repo.RecipeExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*transport.RecipeShortResponse, error) {
	recipe, err := s.Repo.GetRecipe(ctx, recipeID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.Repo.AddFavorite(ctx, userID, recipeID); err != nil {
		return nil, membershipErr(err, "favorite")
	}
	publish(ctx, s.Events, mykafka.TopicUserEvents, "favorite_added", userID, recipeID)
	short := toRecipeShort(*recipe)
	return &short, nil
}

func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if err := s.recipeExists(ctx, recipeID); err != nil {
		return err
	}
	if err := s.Repo.RemoveFavorite(ctx, userID, recipeID); err != nil {
		return membershipErr(err, "favorite")
	}
	publish(ctx, s.Events, mykafka.TopicUserEvents, "favorite_removed", userID, recipeID)
	return nil
}

// represent expands recipes with tags, author, ingredients and viewer flags.
func (s *RecipeService) represent(ctx context.Context, viewer uuid.UUID, recipes []models.Recipe) ([]transport.RecipeResponse, error) {
	out := make([]transport.RecipeResponse, 0, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	tags, err := s.Repo.TagsForRecipes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	authors, err := s.Repo.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	subscribed := map[uuid.UUID]bool{}
	if viewer != uuid.Nil {
		if favorited, err = s.Repo.FavoritedAmong(ctx, viewer, ids); err != nil {
			return nil, err
		}
		if inCart, err = s.Repo.InCartAmong(ctx, viewer, ids); err != nil {
			return nil, err
		}
		if subscribed, err = s.Repo.SubscribedTo(ctx, viewer, authorIDs); err != nil {
			return nil, err
		}
	}

	for _, r := range recipes {
		lines, err := s.Repo.RecipeIngredients(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("load ingredients: %w", err)
		}
		ings := make([]transport.RecipeIngredientResponse, 0, len(lines))
		for _, ln := range lines {
			ings = append(ings, transport.RecipeIngredientResponse{
				ID:              ln.IngredientID,
				Name:            ln.Name,
				MeasurementUnit: ln.MeasurementUnit,
				Amount:          ln.Amount,
			})
		}
		tagResp := make([]transport.TagResponse, 0, len(tags[r.ID]))
		for _, t := range tags[r.ID] {
			tagResp = append(tagResp, toTagResponse(t))
		}

		out = append(out, transport.RecipeResponse{
			ID:               r.ID,
			Tags:             tagResp,
			Author:           toUserResponse(authors[r.AuthorID], subscribed[r.AuthorID]),
			Ingredients:      ings,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		})
	}
	return out, nil
}
