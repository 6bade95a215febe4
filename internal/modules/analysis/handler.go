package analysis

import (
	"errors"

	"github.com/dredninja/Subtitle-Translator/internal/middleware"
	"github.com/dredninja/Subtitle-Translator/internal/modules/pipeline/worker"
	"github.com/dredninja/Subtitle-Translator/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/analysis", authMW, h.analysis)
	rg.GET("/status", h.status)
}

// GET /analysis
func (h *Handler) analysis(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(middleware.CurrentUserID(c))
	if err != nil {
		response.Unauthorized(c)
		return
	}

	stats, err := h.svc.Latest(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errNoReport) {
			response.NotFoundMsg(c, "no similarity report found for analysis")
			return
		}
		var parseErr *worker.ParseError
		if errors.As(err, &parseErr) {
			h.log.Error("similarity report unreadable", zap.Error(err))
			response.InternalError(c, errors.New("similarity report could not be read"))
			return
		}
		h.log.Error("analysis failed", zap.Error(err))
		response.InternalError(c, errors.New("failed to compute analysis"))
		return
	}

	response.OK(c, stats)
}

// GET /status
func (h *Handler) status(c *gin.Context) {
	response.OK(c, gin.H{
		"project": "Subtitle Analyzer",
		"version": "1.0",
		"status":  "ok",
		"message": "Data analysis working fine!",
	})
}
