package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dredninja/Subtitle-Translator/internal/config"
	"github.com/dredninja/Subtitle-Translator/internal/database"
	"github.com/dredninja/Subtitle-Translator/internal/middleware"
	"github.com/dredninja/Subtitle-Translator/internal/pkg/jwt"
	pkgredis "github.com/dredninja/Subtitle-Translator/internal/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *database.Database
	rc     *pkgredis.Client
	tokens *jwt.Manager
	logger *zap.Logger
}

// New initializes the application: config → token manager → DB → Redis →
// routes.
func New(logger *zap.Logger, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	tokens := jwt.NewManager(cfg.JWTSecret)

	db, err := database.Connect(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	// Redis only backs the anonymous rate limiter; run without it when no
	// URL is configured.
	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		rc, err = pkgredis.Connect(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 50 << 20
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return originAllowed(patterns, originHost(origin))
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	app := &App{cfg: cfg, router: router, db: db, rc: rc, tokens: tokens, logger: logger}
	if err := app.registerRoutes(); err != nil {
		return nil, err
	}

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases the database and redis connections.
func (a *App) Shutdown(ctx context.Context) {
	if a.rc != nil {
		if err := a.rc.Close(); err != nil {
			a.logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if err := a.db.Close(ctx); err != nil {
		a.logger.Warn("database close failed", zap.Error(err))
	}
}
