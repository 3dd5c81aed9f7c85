package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-dashboard/config"
	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/fekuna/omnipos-dashboard/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer points at a closed port so every query fails fast.
func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	db, err := sqlx.Open("postgres", "postgres://u:p@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.LoadEnv()
	if mutate != nil {
		mutate(cfg)
	}
	s, err := New(cfg, Deps{DB: db}, logger.NewNop())
	require.NoError(t, err)
	return s
}

func TestHealth_Unhealthy(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/health", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"unhealthy"}`, string(raw))
}

func TestGatedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/api/products", "/api/sales", "/api/categories", "/api/analytics", "/api/subscriptions/check"} {
		resp, err := s.App().Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)

		raw, _ := io.ReadAll(resp.Body)
		var body middleware.ErrorBody
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "invalid_credential", body.Error.Code)
	}
}

func TestPublicRoutesSkipAuth(t *testing.T) {
	s := newTestServer(t, nil)

	// validation runs before any store access
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(`{"name":"","email":"a@b.c","password":"longenough"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = s.App().Test(httptest.NewRequest("GET", "/api/handle-subscription?status=failure&user_id=u-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasSuffix(resp.Header.Get("Location"), "/subscription?status=error"))
}

func TestTestSubscriptionRouteIsOptIn(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Issue("5b6f0c6e-7d1a-4a43-9c55-0d4c1f2b7a11")
	require.NoError(t, err)

	s := newTestServer(t, func(cfg *config.Config) {
		cfg.JWT.SecretKey = "test-secret"
		cfg.Subscription.Required = false
		cfg.Subscription.EnableTestCreate = false
	})
	req := httptest.NewRequest("POST", "/api/subscriptions/create-test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListenAddr(t *testing.T) {
	assert.Equal(t, ":8080", listenAddr("8080"))
	assert.Equal(t, ":8080", listenAddr(":8080"))
	assert.Equal(t, "0.0.0.0:9090", listenAddr("0.0.0.0:9090"))
}
