package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodgram/internal/service"
	"github.com/Skotchmaster/foodgram/internal/transport"
	"github.com/Skotchmaster/foodgram/internal/util"
	"github.com/Skotchmaster/foodgram/pkg/logging"
	middleware "github.com/Skotchmaster/foodgram/pkg/middleware/auth"
)

type RecipesHTTP struct {
	Svc  *service.RecipeService
	Cart *service.CartService
}

func (h *RecipesHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recipes.list")

	page, offset, limit := pageParams(c)
	p := service.ListParams{
		Viewer:      viewer(c),
		IsFavorited: truthy(c.QueryParam("is_favorited")),
		IsInCart:    truthy(c.QueryParam("is_in_shopping_cart")),
		Tags:        c.QueryParams()["tags"],
		Offset:      offset,
		Limit:       limit,
	}
	if raw := c.QueryParam("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			l.Warn("list_recipes_error", "status", 400, "reason", "author is not a uuid", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "author is not a uuid")
		}
		p.AuthorID = &id
	}

	total, items, err := h.Svc.List(ctx, p)
	if err != nil {
		return fail(l, "list_recipes_error", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(items, page, offset, limit, total))
}

func (h *RecipesHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recipes.get")

	id, err := parseID(c, l, "get_recipe_error", "id")
	if err != nil {
		return err
	}
	recipe, err := h.Svc.Get(ctx, viewer(c), id)
	if err != nil {
		return fail(l, "get_recipe_error", err)
	}
	return c.JSON(http.StatusOK, recipe)
}

func (h *RecipesHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recipes.search")

	page, offset, limit := pageParams(c)
	total, items, err := h.Svc.SearchRecipes(ctx, viewer(c), c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_recipes_error", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(items, page, offset, limit, total))
}

func (h *RecipesHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recipes.create")

	me, err := requireUser(c, l, "create_recipe_error")
	if err != nil {
		return err
	}
	var req transport.RecipeWriteRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_recipe_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	recipe, err := h.Svc.Create(ctx, me, req)
	if err != nil {
		return fail(l, "create_recipe_error", err)
	}
	l.Info("create_recipe_success", "recipe_id", recipe.ID)
	return c.JSON(http.StatusCreated, recipe)
}

func (h *RecipesHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recipes.update")

	me, err := requireUser(c, l, "update_recipe_error")
	if err != nil {
		return err
	}
	id, err := parseID(c, l, "update_recipe_error", "id")
	if err != nil {
		return err
	}
	var req transport.RecipeWriteRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_recipe_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	recipe, err := h.Svc.Update(ctx, me, middleware.IsAdmin(c), id, req)
	if err != nil {
		return fail(l, "update_recipe_error", err)
	}
	return c.JSON(http.StatusOK, recipe)
}

func (h *RecipesHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recipes.delete")

	me, err := requireUser(c, l, "delete_recipe_error")
	if err != nil {
		return err
	}
	id, err := parseID(c, l, "delete_recipe_error", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, me, middleware.IsAdmin(c), id); err != nil {
		return fail(l, "delete_recipe_error", err)
	}
	l.Info("delete_recipe_success", "recipe_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *RecipesHTTP) AddFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recipes.favorite_add")

	me, err := requireUser(c, l, "add_favorite_error")
	if err != nil {
		return err
	}
	id, err := parseID(c, l, "add_favorite_error", "id")
	if err != nil {
		return err
	}
	short, err := h.Svc.AddFavorite(ctx, me, id)
	if err != nil {
		return fail(l, "add_favorite_error", err)
	}
	return c.JSON(http.StatusCreated, short)
}

func (h *RecipesHTTP) RemoveFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recipes.favorite_remove")

	me, err := requireUser(c, l, "remove_favorite_error")
	if err != nil {
		return err
	}
	id, err := parseID(c, l, "remove_favorite_error", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.RemoveFavorite(ctx, me, id); err != nil {
		return fail(l, "remove_favorite_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RecipesHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recipes.cart_add")

	me, err := requireUser(c, l, "add_to_cart_error")
	if err != nil {
		return err
	}
	id, err := parseID(c, l, "add_to_cart_error", "id")
	if err != nil {
		return err
	}
	short, err := h.Cart.AddToCart(ctx, me, id)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}
	l.Info("add_to_cart_success", "recipe_id", id)
	return c.JSON(http.StatusCreated, short)
}

func (h *RecipesHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recipes.cart_remove")

	me, err := requireUser(c, l, "remove_from_cart_error")
	if err != nil {
		return err
	}
	id, err := parseID(c, l, "remove_from_cart_error", "id")
	if err != nil {
		return err
	}
	if err := h.Cart.RemoveFromCart(ctx, me, id); err != nil {
		return fail(l, "remove_from_cart_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RecipesHTTP) DownloadShoppingCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recipes.download_shopping_cart")

	me, err := requireUser(c, l, "download_shopping_cart_error")
	if err != nil {
		return err
	}
	doc, err := h.Cart.ExportShoppingList(ctx, me, c.QueryParam("format"))
	if err != nil {
		return fail(l, "download_shopping_cart_error", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, doc.ContentDisposition())
	return c.Blob(http.StatusOK, doc.ContentType, doc.Body)
}
