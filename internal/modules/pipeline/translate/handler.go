package translate

import (
	"errors"
	"strings"

	"github.com/dredninja/Subtitle-Translator/internal/middleware"
	"github.com/dredninja/Subtitle-Translator/internal/modules/pipeline/worker"
	"github.com/dredninja/Subtitle-Translator/internal/modules/storage/download"
	"github.com/dredninja/Subtitle-Translator/internal/modules/storage/upload"
	"github.com/dredninja/Subtitle-Translator/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultSrcLang = "en"
	defaultTgtLang = "es"
)

// Handler exposes the translation endpoint.
type Handler struct {
	svc     *Service
	uploads *upload.Store
	log     *zap.Logger
}

func NewHandler(svc *Service, uploads *upload.Store, log *zap.Logger) *Handler {
	return &Handler{svc: svc, uploads: uploads, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/translate", authMW, h.translate)
}

// POST /translate
func (h *Handler) translate(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(middleware.CurrentUserID(c))
	if err != nil {
		response.Unauthorized(c)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "no file uploaded")
		return
	}

	srcLang := strings.TrimSpace(c.PostForm("srcLang"))
	if srcLang == "" {
		srcLang = defaultSrcLang
	}
	tgtLang := strings.TrimSpace(c.PostForm("tgtLang"))
	if tgtLang == "" {
		tgtLang = defaultTgtLang
	}

	inputPath, err := h.uploads.Save(c, fileHeader)
	if err != nil {
		h.log.Error("store upload failed", zap.Error(err))
		response.InternalError(c, errors.New("failed to store upload"))
		return
	}

	outcome, err := h.svc.Translate(c.Request.Context(), userID, inputPath, srcLang, tgtLang)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, gin.H{
		"message":   "Translation complete",
		"progress":  outcome.Job.Progress,
		"srt_file":  download.PublicPath(outcome.Result.SRTFile),
		"json_file": download.PublicPath(outcome.Result.JSONFile),
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		execErr    *worker.ExecutionError
		launchErr  *worker.LaunchError
		timeoutErr *worker.TimeoutError
		parseErr   *worker.ParseError
	)
	switch {
	case errors.As(err, &execErr):
		h.log.Error("translation worker failed", zap.Int("exit_code", execErr.ExitCode), zap.String("stderr", execErr.Stderr))
		response.InternalErrorDetails(c, "translation failed", execErr.Stderr)
	case errors.As(err, &launchErr):
		h.log.Error("translation worker could not start", zap.Error(launchErr))
		response.InternalErrorDetails(c, "translation worker unavailable", "")
	case errors.As(err, &timeoutErr):
		h.log.Error("translation worker timed out", zap.Duration("timeout", timeoutErr.Timeout))
		response.InternalErrorDetails(c, "translation timed out", "")
	case errors.As(err, &parseErr):
		h.log.Error("translation output unparseable", zap.Error(parseErr))
		response.InternalErrorDetails(c, "failed to parse worker output", "")
	default:
		h.log.Error("translation persistence failed", zap.Error(err))
		response.InternalErrorDetails(c, "failed to record translation", "")
	}
}
