package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/foodgram/internal/httpserver"
	"github.com/Skotchmaster/foodgram/internal/models"
	"github.com/Skotchmaster/foodgram/internal/mykafka"
	"github.com/Skotchmaster/foodgram/internal/repo"
	"github.com/Skotchmaster/foodgram/internal/search"
	"github.com/Skotchmaster/foodgram/internal/service"
	"github.com/Skotchmaster/foodgram/pkg/config"
	pkgdb "github.com/Skotchmaster/foodgram/pkg/db"
	jwthelp "github.com/Skotchmaster/foodgram/pkg/jwt"
	"github.com/Skotchmaster/foodgram/pkg/logging"
	"github.com/Skotchmaster/foodgram/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/foodgram/pkg/middleware/logging"
)

type eventSink interface {
	service.EventPublisher
	Close() error
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewFormat(os.Stdout, cfg.LogFormat, cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var events eventSink = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		events = prod
	} else {
		logger.Info("kafka disabled, events are dropped")
	}

	var index service.SearchIndex
	if cfg.ESURL != "" {
		idx, err := search.NewIndex(search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			log.Fatalf("elasticsearch client: %v", err)
		}
		esCtx, esCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := idx.EnsureIndex(esCtx); err != nil {
			logger.Warn("elasticsearch unavailable, search falls back to the database", "error", err)
		} else {
			index = idx
		}
		esCancel()
	}

	r := repo.New(db)
	authSvc := &service.AuthService{
		Repo:          r,
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		Events:        events,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	// recipe images arrive inline as base64 data URLs
	e.Use(echomw.BodyLimit("10M"))
	e.Use(loggingmw.RequestLogger(logger))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins, AllowCredentials: true}))
	} else {
		e.Use(echomw.CORS())
	}
	if cfg.CSRFEnabled {
		csrfCfg := csrf.DefaultConfig()
		csrfCfg.Secure = cfg.CookieSecure
		csrfCfg.SkipPrefixes = []string{"/health/", "/api/auth/token/login"}
		e.Use(csrf.Middleware(csrfCfg))
	}

	cookies := jwthelp.DefaultCookiePolicy()
	cookies.Secure = cfg.CookieSecure

	httpserver.Register(e, &httpserver.Deps{
		Auth:    &httpserver.AuthHTTP{Svc: authSvc, Cookies: cookies},
		Users:   &httpserver.UsersHTTP{Svc: &service.UserService{Repo: r, Events: events}},
		Catalog: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		Recipes: &httpserver.RecipesHTTP{
			Svc:  &service.RecipeService{Repo: r, Events: events, Search: index},
			Cart: &service.CartService{Repo: r, Events: events},
		},
		DB:        db,
		JWTSecret: cfg.JWTAccessSecret,
		Refresher: authSvc,
		Cookies:   cookies,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("foodgram listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db close", "error", err)
	}

	logger.Info("foodgram stopped")
}
