package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dredninja/Subtitle-Translator/internal/pkg/jwt"
	"github.com/gin-gonic/gin"
)

func newAuthRouter(tokens *jwt.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": CurrentUserID(c), "username": CurrentUsername(c)})
	})
	return r
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r := newAuthRouter(jwt.NewManager(""))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	tokens := jwt.NewManager("")
	token, err := tokens.Sign("65f0c0ffee0ddba11caffe42", "alice", -time.Minute)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	r := newAuthRouter(tokens)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestAuthRejectsTokenSignedElsewhere(t *testing.T) {
	foreign := jwt.NewManager("some-other-deployment")
	token, err := foreign.Sign("65f0c0ffee0ddba11caffe42", "alice", time.Minute)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	r := newAuthRouter(jwt.NewManager("this-deployment"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for foreign-signed token, got %d", w.Code)
	}
}

func TestAuthAcceptsValidBearerToken(t *testing.T) {
	tokens := jwt.NewManager("")
	token, err := tokens.Sign("65f0c0ffee0ddba11caffe42", "alice", time.Minute)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	r := newAuthRouter(tokens)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestNormalizeToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"  Bearer   abc  ", "abc"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeToken(tc.in); got != tc.want {
			t.Fatalf("NormalizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
