package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(cfg Config) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(cfg))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/api/recipes", ok)
	e.POST("/api/recipes", ok)
	e.POST("/api/auth/token/login", ok)
	return e
}

func TestCSRF_IssuesTokenOnSafeRequest(t *testing.T) {
	e := newServer(DefaultConfig())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "XSRF-TOKEN", cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.False(t, cookies[0].HttpOnly)
}

func TestCSRF_UnsafeRequest(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{
			name: "matching token",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
				r.Header.Set("X-CSRF-Token", "tok")
				r.Header.Set("Origin", "http://example.com")
			},
			status: http.StatusNoContent,
		},
		{
			name: "missing header",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
				r.Header.Set("Origin", "http://example.com")
			},
			status: http.StatusForbidden,
		},
		{
			name: "foreign origin",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
				r.Header.Set("X-CSRF-Token", "tok")
				r.Header.Set("Origin", "http://evil.test")
			},
			status: http.StatusForbidden,
		},
		{
			name: "token auth is exempt",
			setup: func(r *http.Request) {
				r.Header.Set(echo.HeaderAuthorization, "Token abc")
			},
			status: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newServer(DefaultConfig())
			req := httptest.NewRequest(http.MethodPost, "/api/recipes", nil)
			tt.setup(req)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestCSRF_SkipPrefixes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipPrefixes = []string{"/api/auth/"}
	e := newServer(cfg)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/token/login", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
