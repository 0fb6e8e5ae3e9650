package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodgram/internal/service"
	"github.com/Skotchmaster/foodgram/internal/transport"
	jwthelp "github.com/Skotchmaster/foodgram/pkg/jwt"
	"github.com/Skotchmaster/foodgram/pkg/logging"
)

type AuthHTTP struct {
	Svc     *service.AuthService
	Cookies jwthelp.CookiePolicy
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := transport.Validate(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	h.Cookies.SetPair(c, pair)
	l.Info("login_successful")
	return c.JSON(http.StatusOK, transport.LoginResponse{
		AuthToken: pair.AccessToken,
		IsAdmin:   pair.Role == "admin",
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	ck, err := c.Cookie(jwthelp.RefreshCookie)
	if err != nil || ck.Value == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "refresh token missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	pair, err := h.Svc.Refresh(ctx, ck.Value)
	if err != nil {
		h.Cookies.Clear(c)
		return fail(l, "refresh_failed", err)
	}

	h.Cookies.SetPair(c, pair)
	l.Info("refresh_successful")
	return c.JSON(http.StatusOK, transport.LoginResponse{
		AuthToken: pair.AccessToken,
		IsAdmin:   pair.Role == "admin",
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(jwthelp.RefreshCookie); err == nil {
		if err := h.Svc.Logout(ctx, ck.Value); err != nil {
			h.Cookies.Clear(c)
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	h.Cookies.Clear(c)
	l.Info("logout_successful")
	return c.NoContent(http.StatusNoContent)
}
