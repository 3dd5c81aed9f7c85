package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/fekuna/omnipos-dashboard/internal/memstore"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/product/usecase"
	"github.com/fekuna/omnipos-dashboard/pkg/i18n"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/fekuna/omnipos-dashboard/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *memstore.Store) {
	t.Helper()
	tr, err := i18n.New()
	require.NoError(t, err)
	log := logger.NewNop()

	store := memstore.New()
	uc := usecase.NewProductUseCase(store.Products(), store.Stock(), store, nil, log)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(log, tr)})
	app.Use(func(c *fiber.Ctx) error {
		auth.SetUserID(c, "u-1")
		return c.Next()
	})
	NewProductHandler(uc, log).RegisterRoutes(app)
	return app, store
}

func call(t *testing.T, app *fiber.App, method, path, body string, out interface{}) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func TestProductLifecycle(t *testing.T) {
	app, store := newTestApp(t)

	var created model.Product
	status := call(t, app, "POST", "/products", `{"name":"Coffee","code":"COF","price":"10.50","category":"drinks","stock":4}`, &created)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, 4, created.Stock)
	assert.Equal(t, model.UnitCount, created.Unit)

	var errBody middleware.ErrorBody
	status = call(t, app, "POST", "/products", `{"name":"Other","code":"COF","price":1}`, &errBody)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "product_code_taken", errBody.Error.Code)
	assert.Equal(t, "Another active product already uses code COF.", errBody.Error.Message)

	var listed []model.Product
	status = call(t, app, "GET", "/products?userId=u-1&q=cof", "", &listed)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, listed, 1)

	var updated model.Product
	status = call(t, app, "PUT", "/products", `{"id":"`+created.ID+`","userId":"u-1","price":12}`, &updated)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, decimal.NewFromInt(12).Equal(updated.Price))
	assert.Equal(t, "Coffee", updated.Name)

	status = call(t, app, "POST", "/updatePrices", `[{"id":"`+created.ID+`","price":9},{"id":"ghost","price":1}]`, &errBody)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "price_batch_rejected", errBody.Error.Code)
	assert.Equal(t, "Price update rejected for product ghost, no prices were changed.", errBody.Error.Message)
	stored, _ := store.Product(created.ID)
	assert.True(t, decimal.NewFromInt(12).Equal(stored.Price))

	status = call(t, app, "DELETE", "/products?id="+created.ID, "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	stored, _ = store.Product(created.ID)
	assert.False(t, stored.IsActive)

	status = call(t, app, "POST", "/updateProductStatus", `{"productId":"`+created.ID+`","isActive":true}`, nil)
	assert.Equal(t, fiber.StatusOK, status)
	stored, _ = store.Product(created.ID)
	assert.True(t, stored.IsActive)
}

func TestProductHandler_Rejections(t *testing.T) {
	app, _ := newTestApp(t)

	var errBody middleware.ErrorBody
	status := call(t, app, "GET", "/products?userId=someone-else", "", &errBody)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "id_mismatch", errBody.Error.Code)

	status = call(t, app, "POST", "/updateProductStatus", `{"productId":"x"}`, &errBody)
	assert.Equal(t, fiber.StatusBadRequest, status)

	for _, path := range []string{"/products?id=ghost", "/products?id=9d2e4b1a-6c3f-4e85-b7a0-1f2e3d4c5b6a"} {
		status = call(t, app, "DELETE", path, "", &errBody)
		assert.Equal(t, fiber.StatusNotFound, status, path)
		assert.Equal(t, "product_not_found", errBody.Error.Code, path)
	}

	status = call(t, app, "PUT", "/products", `{"id":"ghost","name":"x"}`, &errBody)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "product_not_found", errBody.Error.Code)

	status = call(t, app, "POST", "/updateProductStatus", `{"productId":"ghost","isActive":false}`, &errBody)
	assert.Equal(t, fiber.StatusNotFound, status)

	status = call(t, app, "POST", "/products", `{"name":`, &errBody)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
