package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodgram/internal/util"
	middleware "github.com/Skotchmaster/foodgram/pkg/middleware/auth"
)

func parseID(c echo.Context, l *slog.Logger, event, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		l.Warn(event, "status", 400, "reason", param+" is not a uuid", "error", err)
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, param+" is not a uuid")
	}
	return id, nil
}

// viewer returns the caller or uuid.Nil for anonymous requests.
func viewer(c echo.Context) uuid.UUID {
	id, _ := middleware.UserID(c)
	return id
}

func requireUser(c echo.Context, l *slog.Logger, event string) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		l.Warn(event, "status", 401, "reason", "unauthorized")
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

func pageParams(c echo.Context) (page, offset, limit int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	offset, limit = util.Calculate(page, util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize))
	return page, offset, limit
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
