package user

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/dredninja/Subtitle-Translator/internal/database"
	"github.com/dredninja/Subtitle-Translator/internal/models"
	"github.com/dredninja/Subtitle-Translator/internal/pkg/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore is an in-memory Store with the same unique-username semantics as
// the real one.
type fakeStore struct {
	users        map[string]*models.UserModel
	translations []models.TranslationJob
	similarities []models.SimilarityJob
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*models.UserModel{}}
}

func (f *fakeStore) CreateUser(_ context.Context, u *models.UserModel) error {
	if _, exists := f.users[u.Username]; exists {
		return database.ErrDuplicateUsername
	}
	u.ID = primitive.NewObjectID()
	f.users[u.Username] = u
	return nil
}

func (f *fakeStore) FindUserByUsername(_ context.Context, username string) (*models.UserModel, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, database.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) FindUserByID(_ context.Context, id string) (*models.UserModel, error) {
	for _, u := range f.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) TouchLastLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	for _, u := range f.users {
		if u.ID == id {
			u.LastLogin = &at
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *fakeStore) ListTranslations(_ context.Context, userID primitive.ObjectID) ([]models.TranslationJob, error) {
	jobs := []models.TranslationJob{}
	for _, job := range f.translations {
		if job.UserID == userID {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs, nil
}

func (f *fakeStore) ListSimilarities(_ context.Context, userID primitive.ObjectID) ([]models.SimilarityJob, error) {
	jobs := []models.SimilarityJob{}
	for _, job := range f.similarities {
		if job.UserID == userID {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs, nil
}

func registerDTO() *RegisterDTO {
	return &RegisterDTO{
		Username: "alice",
		Email:    "alice@example.com",
		Purpose:  "research",
		Password: "s3cret-pw",
	}
}

func TestRegisterThenLoginRoundTrip(t *testing.T) {
	store := newFakeStore()
	tokens := jwt.NewManager("")
	svc := NewService(store, tokens)

	u, err := svc.Register(context.Background(), registerDTO())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if u.Password == "s3cret-pw" {
		t.Fatal("plaintext password must not be stored")
	}

	token, logged, err := svc.Login(context.Background(), "alice", "s3cret-pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if logged.LastLogin == nil {
		t.Fatal("expected lastLogin to be set on successful login")
	}

	claims, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("token did not verify: %v", err)
	}
	if claims.UserID != u.ID.Hex() {
		t.Fatalf("token user id %q does not match registered user %q", claims.UserID, u.ID.Hex())
	}
	if claims.Username != "alice" {
		t.Fatalf("token username %q does not match", claims.Username)
	}
}

func TestRegisterDuplicateUsernameFails(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, jwt.NewManager(""))

	if _, err := svc.Register(context.Background(), registerDTO()); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	_, err := svc.Register(context.Background(), registerDTO())
	if !errors.Is(err, database.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected a single stored user, got %d", len(store.users))
	}
}

func TestLoginUnknownUserFails(t *testing.T) {
	svc := NewService(newFakeStore(), jwt.NewManager(""))
	_, _, err := svc.Login(context.Background(), "nobody", "pw")
	if !errors.Is(err, errUserNotFound) {
		t.Fatalf("expected errUserNotFound, got %v", err)
	}
}

func TestLoginWrongPasswordFails(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, jwt.NewManager(""))
	if _, err := svc.Register(context.Background(), registerDTO()); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "alice", "wrong-pw")
	if !errors.Is(err, errWrongPassword) {
		t.Fatalf("expected errWrongPassword, got %v", err)
	}
}

func TestProfileReturnsJobsMostRecentFirst(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, jwt.NewManager(""))

	u, err := svc.Register(context.Background(), registerDTO())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	base := time.Now()
	store.translations = []models.TranslationJob{
		{UserID: u.ID, TranslatedFile: "old.srt", CreatedAt: base.Add(-time.Hour)},
		{UserID: u.ID, TranslatedFile: "new.srt", CreatedAt: base},
		{UserID: primitive.NewObjectID(), TranslatedFile: "other.srt", CreatedAt: base},
	}

	got, translations, similarities, err := svc.Profile(context.Background(), u.ID.Hex())
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("unexpected profile user %q", got.Username)
	}
	if len(translations) != 2 {
		t.Fatalf("expected 2 owned translations, got %d", len(translations))
	}
	if translations[0].TranslatedFile != "new.srt" {
		t.Fatalf("expected most recent job first, got %q", translations[0].TranslatedFile)
	}
	if len(similarities) != 0 {
		t.Fatalf("expected no similarities, got %d", len(similarities))
	}
}
