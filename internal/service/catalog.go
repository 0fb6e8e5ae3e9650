package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/foodgram/internal/models"
	"github.com/Skotchmaster/foodgram/internal/repo"
	"github.com/Skotchmaster/foodgram/internal/transport"
)

// CatalogService serves tags and ingredients.
type CatalogService struct {
	Repo *repo.GormRepo
}

func toTagResponse(t models.Tag) transport.TagResponse {
	return transport.TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func toIngredientResponse(i models.Ingredient) transport.IngredientResponse {
	return transport.IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]transport.TagResponse, error) {
	tags, err := s.Repo.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTagResponse(t))
	}
	return out, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*transport.TagResponse, error) {
	tag, err := s.Repo.GetTag(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("tag %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	resp := toTagResponse(*tag)
	return &resp, nil
}

func (s *CatalogService) CreateTag(ctx context.Context, req transport.TagRequest) (*transport.TagResponse, error) {
	req.Color = strings.ToUpper(req.Color)
	if err := transport.Validate(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	tag := models.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := s.Repo.CreateTag(ctx, &tag); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fmt.Errorf("tag: %w", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	resp := toTagResponse(tag)
	return &resp, nil
}

func (s *CatalogService) ListIngredients(ctx context.Context, name string) ([]transport.IngredientResponse, error) {
	items, err := s.Repo.ListIngredients(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]transport.IngredientResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toIngredientResponse(i))
	}
	return out, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*transport.IngredientResponse, error) {
	ing, err := s.Repo.GetIngredient(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	resp := toIngredientResponse(*ing)
	return &resp, nil
}

func (s *CatalogService) CreateIngredient(ctx context.Context, req transport.IngredientRequest) (*transport.IngredientResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.MeasurementUnit = strings.TrimSpace(req.MeasurementUnit)
	if err := transport.Validate(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	ing := models.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := s.Repo.CreateIngredient(ctx, &ing); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fmt.Errorf("ingredient: %w", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	resp := toIngredientResponse(ing)
	return &resp, nil
}
