package similarity

import (
	"errors"
	"strconv"
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

const defaultThreshold = 0.7

// Handler exposes the similarity endpoint.
type Handler struct {
	svc     *Service
	uploads *upload.Store
	log     *zap.Logger
}

func NewHandler(svc *Service, uploads *upload.Store, log *zap.Logger) *Handler {
	return &Handler{svc: svc, uploads: uploads, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/similarity", authMW, h.compare)
}

// POST /similarity
func (h *Handler) compare(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(middleware.CurrentUserID(c))
	if err != nil {
		response.Unauthorized(c)
		return
	}

	originalHeader, err := c.FormFile("original")
	if err != nil {
		response.BadRequest(c, "upload both files")
		return
	}
	translatedHeader, err := c.FormFile("translated")
	if err != nil {
		response.BadRequest(c, "upload both files")
		return
	}

	threshold := defaultThreshold
	if raw := strings.TrimSpace(c.PostForm("threshold")); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			threshold = parsed
		}
	}

	originalPath, err := h.uploads.Save(c, originalHeader)
	if err != nil {
		h.log.Error("store upload failed", zap.Error(err))
		response.InternalError(c, errors.New("failed to store upload"))
		return
	}
	translatedPath, err := h.uploads.Save(c, translatedHeader)
	if err != nil {
		h.log.Error("store upload failed", zap.Error(err))
		response.InternalError(c, errors.New("failed to store upload"))
		return
	}

	outcome, err := h.svc.Compare(c.Request.Context(), userID, originalPath, translatedPath, threshold)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, gin.H{
		"summary":        outcome.Report.Summary,
		"report":         outcome.Report.Lines,
		"low_similarity": outcome.Report.LowSimilarity(threshold),
		"json_file":      download.PublicPath(outcome.ReportPath),
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
		h.log.Error("similarity worker failed", zap.Int("exit_code", execErr.ExitCode), zap.String("stderr", execErr.Stderr))
		response.InternalErrorDetails(c, "similarity scoring failed", execErr.Stderr)
	case errors.As(err, &launchErr):
		h.log.Error("similarity worker could not start", zap.Error(launchErr))
		response.InternalErrorDetails(c, "similarity worker unavailable", "")
	case errors.As(err, &timeoutErr):
		h.log.Error("similarity worker timed out", zap.Duration("timeout", timeoutErr.Timeout))
		response.InternalErrorDetails(c, "similarity scoring timed out", "")
	case errors.As(err, &parseErr):
		h.log.Error("similarity report unparseable", zap.Error(parseErr))
		response.InternalErrorDetails(c, "failed to parse worker output", "")
	default:
		h.log.Error("similarity persistence failed", zap.Error(err))
		response.InternalErrorDetails(c, "failed to record similarity run", "")
	}
}
