package user

import (
	"errors"

	"github.com/dredninja/Subtitle-Translator/internal/database"
	"github.com/dredninja/Subtitle-Translator/internal/middleware"
	"github.com/dredninja/Subtitle-Translator/internal/pkg/response"
	"github.com/gin-gonic/gin"
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
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.GET("/profile", authMW, h.profile)
}

// POST /register
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "all required fields must be filled")
		return
	}

	u, err := h.svc.Register(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateUsername) {
			response.BadRequest(c, "username already exists")
			return
		}
		h.log.Error("registration failed", zap.String("username", dto.Username), zap.Error(err))
		response.InternalError(c, errors.New("registration failed"))
		return
	}

	response.OK(c, gin.H{"message": "User registered", "userId": u.ID.Hex()})
}

// POST /login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}

	token, u, err := h.svc.Login(c.Request.Context(), dto.Username, dto.Password)
	if err != nil {
		if errors.Is(err, errUserNotFound) || errors.Is(err, errWrongPassword) {
			response.UnauthorizedMsg(c, "invalid credentials")
			return
		}
		h.log.Error("login failed", zap.String("username", dto.Username), zap.Error(err))
		response.InternalError(c, errors.New("login failed"))
		return
	}

	response.OK(c, gin.H{"token": token, "username": u.Username, "userId": u.ID.Hex()})
}

// GET /profile
func (h *Handler) profile(c *gin.Context) {
	u, translations, similarities, err := h.svc.Profile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			response.NotFound(c)
			return
		}
		h.log.Error("profile fetch failed", zap.Error(err))
		response.InternalError(c, errors.New("failed to fetch profile data"))
		return
	}

	response.OK(c, gin.H{
		"user":         u,
		"translations": translations,
		"similarities": similarities,
	})
}
