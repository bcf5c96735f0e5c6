// Package token issues and validates the HS256 session tokens used by the
// HTTP layer. Kept deliberately small: subject is the user ID, a single
// custom claim carries the role.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "campusconnect/pkg/domain"
)

// Claims is the validated content of a session token.
type Claims struct {
	UserID id.UserID
	Role   string
}

// Manager signs and validates session tokens with a shared HMAC key.
type Manager struct {
	key []byte
	ttl time.Duration
}

// NewManager builds a Manager from the configured signing key and token TTL.
func NewManager(signingKey string, ttl time.Duration) *Manager {
	return &Manager{key: []byte(signingKey), ttl: ttl}
}

// Issue returns a signed token for the given user.
func (m *Manager) Issue(userID id.UserID, role string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token string, returning its claims.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}
	userID, err := id.ParseUserID(sub)
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}
	role, _ := claims["role"].(string)

	return &Claims{UserID: userID, Role: role}, nil
}
