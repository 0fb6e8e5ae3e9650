package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodgram/internal/service"
	"github.com/Skotchmaster/foodgram/internal/transport"
	"github.com/Skotchmaster/foodgram/pkg/logging"
)

// CatalogHTTP serves tags and ingredients.
type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListTags(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tags.list")

	tags, err := h.Svc.ListTags(ctx)
	if err != nil {
		return fail(l, "list_tags_error", err)
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *CatalogHTTP) GetTag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tags.get")

	id, err := parseID(c, l, "get_tag_error", "id")
	if err != nil {
		return err
	}
	tag, err := h.Svc.GetTag(ctx, id)
	if err != nil {
		return fail(l, "get_tag_error", err)
	}
	return c.JSON(http.StatusOK, tag)
}

func (h *CatalogHTTP) CreateTag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tags.create")

	var req transport.TagRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_tag_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	tag, err := h.Svc.CreateTag(ctx, req)
	if err != nil {
		return fail(l, "create_tag_error", err)
	}
	l.Info("create_tag_success", "tag_id", tag.ID)
	return c.JSON(http.StatusCreated, tag)
}

func (h *CatalogHTTP) ListIngredients(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredients.list")

	items, err := h.Svc.ListIngredients(ctx, c.QueryParam("name"))
	if err != nil {
		return fail(l, "list_ingredients_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetIngredient(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredients.get")

	id, err := parseID(c, l, "get_ingredient_error", "id")
	if err != nil {
		return err
	}
	ing, err := h.Svc.GetIngredient(ctx, id)
	if err != nil {
		return fail(l, "get_ingredient_error", err)
	}
	return c.JSON(http.StatusOK, ing)
}

func (h *CatalogHTTP) CreateIngredient(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredients.create")

	var req transport.IngredientRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_ingredient_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	ing, err := h.Svc.CreateIngredient(ctx, req)
	if err != nil {
		return fail(l, "create_ingredient_error", err)
	}
	return c.JSON(http.StatusCreated, ing)
}
