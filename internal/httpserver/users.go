package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodgram/internal/service"
	"github.com/Skotchmaster/foodgram/internal/transport"
	"github.com/Skotchmaster/foodgram/internal/util"
	"github.com/Skotchmaster/foodgram/pkg/logging"
)

type UsersHTTP struct {
	Svc *service.UserService
}

func (h *UsersHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_error", err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UsersHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.list")

	page, offset, limit := pageParams(c)
	total, users, err := h.Svc.List(ctx, viewer(c), offset, limit)
	if err != nil {
		return fail(l, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(users, page, offset, limit, total))
}

func (h *UsersHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get")

	id, err := parseID(c, l, "get_user_error", "id")
	if err != nil {
		return err
	}
	user, err := h.Svc.Get(ctx, viewer(c), id)
	if err != nil {
		return fail(l, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UsersHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.me")

	me, err := requireUser(c, l, "get_me_error")
	if err != nil {
		return err
	}
	user, err := h.Svc.Get(ctx, me, me)
	if err != nil {
		return fail(l, "get_me_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UsersHTTP) SetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.set_password")

	me, err := requireUser(c, l, "set_password_error")
	if err != nil {
		return err
	}
	var req transport.SetPasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_password_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Svc.SetPassword(ctx, me, req); err != nil {
		return fail(l, "set_password_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UsersHTTP) Subscribe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.subscribe")

	me, err := requireUser(c, l, "subscribe_error")
	if err != nil {
		return err
	}
	authorID, err := parseID(c, l, "subscribe_error", "id")
	if err != nil {
		return err
	}

	sub, err := h.Svc.Subscribe(ctx, me, authorID, util.ParseIntDefault(c.QueryParam("recipes_limit"), 0))
	if err != nil {
		return fail(l, "subscribe_error", err)
	}
	l.Info("subscribe_success", "author_id", authorID)
	return c.JSON(http.StatusCreated, sub)
}

func (h *UsersHTTP) Unsubscribe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.unsubscribe")

	me, err := requireUser(c, l, "unsubscribe_error")
	if err != nil {
		return err
	}
	authorID, err := parseID(c, l, "unsubscribe_error", "id")
	if err != nil {
		return err
	}

	if err := h.Svc.Unsubscribe(ctx, me, authorID); err != nil {
		return fail(l, "unsubscribe_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UsersHTTP) Subscriptions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.subscriptions")

	me, err := requireUser(c, l, "subscriptions_error")
	if err != nil {
		return err
	}
	page, offset, limit := pageParams(c)
	total, subs, err := h.Svc.Subscriptions(ctx, me, offset, limit, util.ParseIntDefault(c.QueryParam("recipes_limit"), 0))
	if err != nil {
		return fail(l, "subscriptions_error", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(subs, page, offset, limit, total))
}
