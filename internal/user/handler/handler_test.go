package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/user"
	"github.com/fekuna/omnipos-dashboard/internal/user/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/i18n"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/fekuna/omnipos-dashboard/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	user.UseCase
	users       map[string]*model.User
	forgotEmail string
}

func (s *stubUseCase) Register(_ context.Context, in *dto.RegisterInput) (*model.User, error) {
	if in.Email == "taken@example.com" {
		return nil, user.ErrEmailTaken
	}
	return &model.User{BaseModel: model.BaseModel{ID: "u-new"}, Email: in.Email, Name: in.Name, BusinessName: in.BusinessName}, nil
}

func (s *stubUseCase) Login(_ context.Context, in *dto.LoginInput) (*dto.LoginResult, error) {
	if in.Password != "password123" {
		return nil, user.ErrInvalidLogin
	}
	return &dto.LoginResult{Token: "tok", User: s.users["u-1"]}, nil
}

func (s *stubUseCase) GetProfile(_ context.Context, userID string) (*model.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUseCase) ForgotPassword(_ context.Context, email string) error {
	if email != "ana@example.com" {
		return user.ErrUserNotFound
	}
	s.forgotEmail = email
	return nil
}

func (s *stubUseCase) ResetPassword(_ context.Context, in *dto.ResetPasswordInput) error {
	if in.Token != "good" {
		return user.ErrInvalidResetToken
	}
	return nil
}

func newTestApp(t *testing.T, uc user.UseCase) (*fiber.App, *auth.TokenManager) {
	t.Helper()
	tr, err := i18n.New()
	require.NoError(t, err)
	log := logger.NewNop()
	tm := auth.NewTokenManager("secret", time.Hour)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(log, tr)})
	NewUserHandler(uc, tr, log).RegisterRoutes(app.Group("/api/auth"), auth.Middleware(tm))
	return app, tm
}

func do(t *testing.T, app *fiber.App, method, path, body, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestAuthRoutes(t *testing.T) {
	stub := &stubUseCase{users: map[string]*model.User{
		"u-1": {BaseModel: model.BaseModel{ID: "u-1"}, Email: "ana@example.com", Name: "Ana", PasswordHash: "hash"},
	}}
	app, _ := newTestApp(t, stub)

	status, body := do(t, app, "POST", "/api/auth/register", `{"name":"Bo","email":"bo@example.com","password":"password123","businessName":"Bo's"}`, "")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Bo's", body["user"].(map[string]interface{})["businessName"])

	status, body = do(t, app, "POST", "/api/auth/register", `{"name":"Bo","email":"taken@example.com","password":"password123"}`, "")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "email_taken", body["error"].(map[string]interface{})["code"])

	status, body = do(t, app, "POST", "/api/auth/login", `{"email":"ana@example.com","password":"password123"}`, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "tok", body["token"])
	_, leaked := body["user"].(map[string]interface{})["passwordHash"]
	assert.False(t, leaked)

	status, _ = do(t, app, "POST", "/api/auth/login", `{"email":"ana@example.com","password":"nope"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "POST", "/api/auth/login", `{not json`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestMe(t *testing.T) {
	stub := &stubUseCase{users: map[string]*model.User{
		"u-1": {BaseModel: model.BaseModel{ID: "u-1"}, Email: "ana@example.com", Name: "Ana"},
	}}
	app, tm := newTestApp(t, stub)

	status, _ := do(t, app, "GET", "/api/auth/me", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	token, err := tm.Issue("u-1")
	require.NoError(t, err)
	status, body := do(t, app, "GET", "/api/auth/me", "", token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ana@example.com", body["user"].(map[string]interface{})["email"])
}

func TestPasswordReset(t *testing.T) {
	stub := &stubUseCase{}
	app, _ := newTestApp(t, stub)

	status, body := do(t, app, "POST", "/api/auth/forgot-password", `{"email":"ana@example.com"}`, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, "ana@example.com", stub.forgotEmail)

	status, _ = do(t, app, "POST", "/api/auth/forgot-password", `{"email":"nobody@example.com"}`, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, app, "POST", "/api/auth/reset-password", `{"token":"good","password":"new-password"}`, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, body = do(t, app, "POST", "/api/auth/reset-password", `{"token":"bad","password":"new-password"}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid_reset_token", body["error"].(map[string]interface{})["code"])
}
