package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCredential = apperror.Unauthorized("invalid_credential", "missing or invalid credentials")

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 token whose subject is userID.
func (m *TokenManager) Issue(userID string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Authenticate verifies signature and expiry and returns the user id.
func (m *TokenManager) Authenticate(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidCredential
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidCredential.Wrap(err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidCredential.Wrap(errors.New("token has no subject"))
	}
	return claims.Subject, nil
}
