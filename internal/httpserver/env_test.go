package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/foodgram/internal/models"
	"github.com/Skotchmaster/foodgram/internal/mykafka"
	"github.com/Skotchmaster/foodgram/internal/repo"
	"github.com/Skotchmaster/foodgram/internal/service"
	"github.com/Skotchmaster/foodgram/internal/testutil"
	"github.com/Skotchmaster/foodgram/internal/transport"
	jwthelp "github.com/Skotchmaster/foodgram/pkg/jwt"
)

type testEnv struct {
	E  *echo.Echo
	DB *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	r := repo.New(db)
	events := mykafka.Nop{}
	authSvc := &service.AuthService{
		Repo:          r,
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Events:        events,
	}

	cookies := jwthelp.DefaultCookiePolicy()
	e := echo.New()
	Register(e, &Deps{
		Auth:    &AuthHTTP{Svc: authSvc, Cookies: cookies},
		Users:   &UsersHTTP{Svc: &service.UserService{Repo: r, Events: events}},
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		Recipes: &RecipesHTTP{
			Svc:  &service.RecipeService{Repo: r, Events: events},
			Cart: &service.CartService{Repo: r, Events: events},
		},
		DB:        db,
		JWTSecret: authSvc.AccessSecret,
		Refresher: authSvc,
		Cookies:   cookies,
	})
	return &testEnv{E: e, DB: db}
}

// do sends body as JSON and authenticates with token when it is set.
func (env *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Token "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) login(t *testing.T, u models.User) string {
	t.Helper()

	rec := env.do(http.MethodPost, "/api/auth/token/login",
		transport.LoginRequest{Email: u.Email, Password: testutil.Password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AuthToken)
	return resp.AuthToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
