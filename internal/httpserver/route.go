package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	jwthelp "github.com/Skotchmaster/foodgram/pkg/jwt"
	"github.com/Skotchmaster/foodgram/pkg/logging"
	middleware "github.com/Skotchmaster/foodgram/pkg/middleware/auth"
)

type Deps struct {
	Auth      *AuthHTTP
	Users     *UsersHTTP
	Catalog   *CatalogHTTP
	Recipes   *RecipesHTTP
	DB        *gorm.DB
	JWTSecret []byte
	Refresher middleware.Refresher
	Cookies   jwthelp.CookiePolicy
}

func ready(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			logging.FromContext(ctx).Error("readiness_failed", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", ready(d.DB))

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.Refresher)
	authMW.Cookies = d.Cookies
	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/token/login", d.Auth.Login)
	auth.POST("/token/logout", d.Auth.Logout)
	auth.POST("/refresh", d.Auth.Refresh)

	users := api.Group("/users")
	users.POST("", d.Users.Register)
	users.GET("", d.Users.List, authMW.OptionalAuth)
	users.GET("/me", d.Users.Me, authMW.RequireAuth)
	users.POST("/set_password", d.Users.SetPassword, authMW.RequireAuth)
	users.GET("/subscriptions", d.Users.Subscriptions, authMW.RequireAuth)
	users.GET("/:id", d.Users.Get, authMW.OptionalAuth)
	users.POST("/:id/subscribe", d.Users.Subscribe, authMW.RequireAuth)
	users.DELETE("/:id/subscribe", d.Users.Unsubscribe, authMW.RequireAuth)

	tags := api.Group("/tags")
	tags.GET("", d.Catalog.ListTags)
	tags.GET("/:id", d.Catalog.GetTag)
	tags.POST("", d.Catalog.CreateTag, authMW.RequireAdmin)

	ingredients := api.Group("/ingredients")
	ingredients.GET("", d.Catalog.ListIngredients)
	ingredients.GET("/:id", d.Catalog.GetIngredient)
	ingredients.POST("", d.Catalog.CreateIngredient, authMW.RequireAdmin)

	recipes := api.Group("/recipes")
	recipes.GET("", d.Recipes.List, authMW.OptionalAuth)
	recipes.GET("/search", d.Recipes.Search, authMW.OptionalAuth)
	recipes.GET("/shopping-cart/download", d.Recipes.DownloadShoppingCart, authMW.RequireAuth)
	recipes.GET("/download_shopping_cart", d.Recipes.DownloadShoppingCart, authMW.RequireAuth)
	recipes.GET("/:id", d.Recipes.Get, authMW.OptionalAuth)
	recipes.POST("", d.Recipes.Create, authMW.RequireAuth)
	recipes.PATCH("/:id", d.Recipes.Update, authMW.RequireAuth)
	recipes.DELETE("/:id", d.Recipes.Delete, authMW.RequireAuth)
	recipes.POST("/:id/favorite", d.Recipes.AddFavorite, authMW.RequireAuth)
	recipes.DELETE("/:id/favorite", d.Recipes.RemoveFavorite, authMW.RequireAuth)
	recipes.POST("/:id/shopping_cart", d.Recipes.AddToCart, authMW.RequireAuth)
	recipes.DELETE("/:id/shopping_cart", d.Recipes.RemoveFromCart, authMW.RequireAuth)
}
