package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/fekuna/omnipos-dashboard/pkg/i18n"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, handler fiber.Handler) *fiber.App {
	t.Helper()
	tr, err := i18n.New()
	require.NoError(t, err)

	log := logger.NewNop()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log, tr)})
	app.Use(RequestLogger(log))
	app.Get("/", handler)
	return app
}

func decodeError(t *testing.T, body []byte) ErrorDetail {
	t.Helper()
	var out ErrorBody
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Error
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		lang       string
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "app error localized",
			err:        apperror.NotFound("product_not_found", "product not found"),
			lang:       "es",
			wantStatus: 404,
			wantCode:   "product_not_found",
			wantMsg:    "Producto no encontrado.",
		},
		{
			name: "insufficient stock with data",
			err: apperror.InsufficientStock("insufficient_stock", "insufficient stock").
				WithData(map[string]interface{}{"Name": "Coffee", "Available": 2}),
			wantStatus: 409,
			wantCode:   "insufficient_stock",
			wantMsg:    "Not enough stock for Coffee (available 2).",
		},
		{
			name:       "unknown error hidden",
			err:        errors.New("pq: connection refused"),
			wantStatus: 500,
			wantCode:   "internal_error",
			wantMsg:    "Something went wrong, please try again later.",
		},
		{
			name:       "fiber error",
			err:        fiber.NewError(fiber.StatusBadRequest, "bad json"),
			wantStatus: 400,
			wantCode:   "bad_request",
			wantMsg:    "The request could not be read.",
		},
		{
			name:       "external error",
			err:        apperror.External("payment_provider_failed", "provider down"),
			wantStatus: 502,
			wantCode:   "payment_provider_failed",
			wantMsg:    "The payment provider is unavailable, please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, func(c *fiber.Ctx) error { return tt.err })

			req := httptest.NewRequest("GET", "/", nil)
			if tt.lang != "" {
				req.Header.Set("Accept-Language", tt.lang)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			detail := decodeError(t, body)
			assert.Equal(t, tt.wantCode, detail.Code)
			assert.Equal(t, tt.wantMsg, detail.Message)
		})
	}
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	app := newTestApp(t, func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "fixed-id")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", resp.Header.Get(HeaderRequestID))

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
}
