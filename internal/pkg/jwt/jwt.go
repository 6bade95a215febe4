package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const defaultSecret = "subtitle-translator-secret-change-me"

// DefaultTTL matches the session lifetime of the login token.
const DefaultTTL = 4 * time.Hour

// Claims is the JWT payload. It binds the user identifier and username so a
// token can be verified without a store round-trip.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwtlib.RegisteredClaims
}

// Manager signs and verifies tokens with an instance-scoped secret. One
// Manager is constructed at startup and handed to everything that touches
// tokens; there is no package-level signing state.
type Manager struct {
	secret []byte
}

// NewManager builds a Manager. An empty secret falls back to the built-in
// development default.
func NewManager(secret string) *Manager {
	if secret == "" {
		secret = defaultSecret
	}
	return &Manager{secret: []byte(secret)}
}

// Sign creates a signed token for the given user.
func (m *Manager) Sign(userID, username string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a token string and returns the claims.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
