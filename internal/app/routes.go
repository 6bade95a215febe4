package app

import (
	"fmt"
	"time"

	"github.com/dredninja/Subtitle-Translator/internal/middleware"
	"github.com/dredninja/Subtitle-Translator/internal/modules/analysis"
	"github.com/dredninja/Subtitle-Translator/internal/modules/auth/user"
	"github.com/dredninja/Subtitle-Translator/internal/modules/pipeline/similarity"
	"github.com/dredninja/Subtitle-Translator/internal/modules/pipeline/translate"
	"github.com/dredninja/Subtitle-Translator/internal/modules/pipeline/worker"
	"github.com/dredninja/Subtitle-Translator/internal/modules/storage/download"
	"github.com/dredninja/Subtitle-Translator/internal/modules/storage/upload"
	"github.com/dredninja/Subtitle-Translator/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes() error {
	r := a.router
	cfg := a.cfg
	log := a.logger
	authMW := middleware.Auth(a.tokens)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	uploads, err := upload.NewStore(cfg.UploadDir())
	if err != nil {
		return fmt.Errorf("upload store: %w", err)
	}
	invoker := worker.NewInvoker(time.Duration(cfg.Worker.TimeoutSeconds) * time.Second)

	root := r.Group("")
	download.NewHandler(cfg.DownloadDir()).RegisterRoutes(root)

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(a.tokens))
	if a.rc != nil {
		api.Use(middleware.RateLimit(a.rc.Raw()))
	}

	userSvc := user.NewService(a.db, a.tokens)
	user.NewHandler(userSvc, log).RegisterRoutes(api, authMW)

	translateSvc := translate.NewService(invoker, a.db, cfg.Worker.Interpreter, cfg.TranslateScriptPath(), cfg.DownloadDir())
	translate.NewHandler(translateSvc, uploads, log).RegisterRoutes(api, authMW)

	similaritySvc := similarity.NewService(invoker, a.db, cfg.Worker.Interpreter, cfg.SimilarityScriptPath(), cfg.DownloadDir())
	similarity.NewHandler(similaritySvc, uploads, log).RegisterRoutes(api, authMW)

	analysisSvc := analysis.NewService(a.db)
	analysis.NewHandler(analysisSvc, log).RegisterRoutes(api, authMW)

	return nil
}
