package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.Issue("user-1")
	require.NoError(t, err)

	userID, err := tm.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	valid, err := tm.Issue("user-1")
	require.NoError(t, err)

	expiredTM := NewTokenManager("secret", time.Hour)
	expiredTM.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredTM.Issue("user-1")
	require.NoError(t, err)

	otherKey, err := NewTokenManager("other", time.Hour).Issue("user-1")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"empty":     "",
		"malformed": "not.a.token",
		"expired":   expired,
		"wrong key": otherKey,
		"alg none":  none,
		"truncated": valid[:len(valid)-4],
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tm.Authenticate(token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCredential)
			assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
		})
	}
}

func TestNewResetToken(t *testing.T) {
	token, hash, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Equal(t, HashResetToken(token), hash)
	assert.NotEqual(t, token, hash)

	other, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, err := tm.Issue("user-42")
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperror.KindOf(err).HTTPStatus()).SendString(err.Error())
		},
	})
	app.Use(Middleware(tm))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(UserID(c) + "|" + GetUserID(c.UserContext()))
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid", "Bearer " + token, fiber.StatusOK},
		{"lower case scheme", "bearer " + token, fiber.StatusOK},
		{"missing", "", fiber.StatusUnauthorized},
		{"basic scheme", "Basic abc", fiber.StatusUnauthorized},
		{"garbage", "Bearer garbage", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestGetUserID_Empty(t *testing.T) {
	assert.Equal(t, "", GetUserID(context.Background()))
	assert.Equal(t, "u", GetUserID(WithUserID(context.Background(), "u")))
}
