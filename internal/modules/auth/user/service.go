package user

import (
	"context"
	"errors"
	"time"

	"github.com/dredninja/Subtitle-Translator/internal/database"
	"github.com/dredninja/Subtitle-Translator/internal/models"
	"github.com/dredninja/Subtitle-Translator/internal/pkg/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence surface the user service needs.
type Store interface {
	CreateUser(ctx context.Context, u *models.UserModel) error
	FindUserByUsername(ctx context.Context, username string) (*models.UserModel, error)
	FindUserByID(ctx context.Context, id string) (*models.UserModel, error)
	TouchLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	ListTranslations(ctx context.Context, userID primitive.ObjectID) ([]models.TranslationJob, error)
	ListSimilarities(ctx context.Context, userID primitive.ObjectID) ([]models.SimilarityJob, error)
}

type Service struct {
	store  Store
	tokens *jwt.Manager
}

func NewService(store Store, tokens *jwt.Manager) *Service {
	return &Service{store: store, tokens: tokens}
}

// Register creates an account with a bcrypt-hashed password. The plaintext is
// never persisted. Duplicate usernames surface database.ErrDuplicateUsername.
func (s *Service) Register(ctx context.Context, dto *RegisterDTO) (*models.UserModel, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &models.UserModel{
		Username: dto.Username,
		Email:    dto.Email,
		Purpose:  dto.Purpose,
		Password: string(hash),
		FullName: dto.FullName,
		Phone:    dto.Phone,
	}
	if dto.DOB != "" {
		if dob, err := time.Parse("2006-01-02", dto.DOB); err == nil {
			u.DOB = &dob
		}
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials, records the login time, and issues a signed
// token binding user id and username.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.UserModel, error) {
	u, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", nil, errUserNotFound
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, errWrongPassword
	}

	now := time.Now()
	if err := s.store.TouchLastLogin(ctx, u.ID, now); err != nil {
		return "", nil, err
	}
	u.LastLogin = &now

	token, err := s.tokens.Sign(u.ID.Hex(), u.Username, jwt.DefaultTTL)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Profile returns the user record plus all of their job records, most recent
// first. The password hash never leaves the service (the model hides it from
// JSON as well).
func (s *Service) Profile(ctx context.Context, userID string) (*models.UserModel, []models.TranslationJob, []models.SimilarityJob, error) {
	u, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	translations, err := s.store.ListTranslations(ctx, u.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	similarities, err := s.store.ListSimilarities(ctx, u.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return u, translations, similarities, nil
}
