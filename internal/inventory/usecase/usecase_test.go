package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-dashboard/internal/inventory"
	"github.com/fekuna/omnipos-dashboard/internal/inventory/dto"
	"github.com/fekuna/omnipos-dashboard/internal/memstore"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/product"
	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "user-1"

// productID gives each fixture name a stable uuid.
func productID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func seed(store *memstore.Store, name string, stock int, active bool) {
	store.AddProduct(model.Product{
		BaseModel: model.BaseModel{ID: productID(name)},
		UserID:    userID,
		Name:      "Product " + name,
		Code:      name,
		Price:     decimal.NewFromInt(5),
		Unit:      model.UnitCount,
		Stock:     stock,
		IsActive:  active,
	})
}

func newTestUseCase() (inventory.UseCase, *memstore.Store) {
	store := memstore.New()
	return NewInventoryUseCase(store.Stock(), nil, logger.NewNop()), store
}

func TestAdjustStock(t *testing.T) {
	uc, store := newTestUseCase()
	seed(store, "p1", 5, true)

	p, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{UserID: userID, ProductID: productID("p1"), Change: 3})
	require.NoError(t, err)
	assert.Equal(t, 8, p.Stock)

	p, err = uc.AdjustStock(context.Background(), &dto.AdjustStockInput{UserID: userID, ProductID: productID("p1"), Change: -8})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	movements := store.Movements()
	require.Len(t, movements, 2)
	assert.Equal(t, model.MovementManual, movements[1].Reason)
	assert.Equal(t, -8, movements[1].QuantityChange)
	assert.Equal(t, 0, movements[1].QuantityAfter)
}

func TestAdjustStock_BelowZero(t *testing.T) {
	uc, store := newTestUseCase()
	seed(store, "p1", 2, true)

	_, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{UserID: userID, ProductID: productID("p1"), Change: -3})
	require.Error(t, err)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 2, appErr.Data["Available"])

	stored, _ := store.Product(productID("p1"))
	assert.Equal(t, 2, stored.Stock)
	assert.Empty(t, store.Movements())
}

func TestAdjustStock_NotFound(t *testing.T) {
	uc, store := newTestUseCase()
	seed(store, "inactive", 2, false)

	tests := []struct {
		name  string
		input dto.AdjustStockInput
	}{
		{"missing", dto.AdjustStockInput{UserID: userID, ProductID: productID("nope"), Change: 1}},
		{"inactive", dto.AdjustStockInput{UserID: userID, ProductID: productID("inactive"), Change: 1}},
		{"other user", dto.AdjustStockInput{UserID: "user-2", ProductID: productID("inactive"), Change: 1}},
		{"malformed id", dto.AdjustStockInput{UserID: userID, ProductID: "p1", Change: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.AdjustStock(context.Background(), &tt.input)
			assert.ErrorIs(t, err, product.ErrProductNotFound)
		})
	}

	_, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{UserID: userID})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestAdjustStock_ZeroChangeIsNoop(t *testing.T) {
	uc, store := newTestUseCase()
	seed(store, "p1", 4, true)

	p, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{UserID: userID, ProductID: productID("p1")})
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)
	assert.Empty(t, store.Movements())
}

func TestListMovements_Paging(t *testing.T) {
	uc, store := newTestUseCase()
	seed(store, "p1", 0, true)
	for i := 1; i <= 5; i++ {
		_, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{UserID: userID, ProductID: productID("p1"), Change: i})
		require.NoError(t, err)
	}

	filters := &dto.MovementFilters{UserID: userID, ProductID: productID("p1"), PageSize: 2}
	movements, total, err := uc.ListMovements(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, 1, filters.Page)
	require.Len(t, movements, 2)
	assert.Equal(t, 5, movements[0].QuantityChange)
	assert.Equal(t, 15, movements[0].QuantityAfter)

	filters = &dto.MovementFilters{UserID: userID, ProductID: productID("p1"), PageSize: 1000}
	_, _, err = uc.ListMovements(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, filters.PageSize)

	_, _, err = uc.ListMovements(context.Background(), &dto.MovementFilters{UserID: "user-2", ProductID: productID("p1")})
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	_, _, err = uc.ListMovements(context.Background(), &dto.MovementFilters{UserID: userID, ProductID: "p1"})
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	_, _, err = uc.ListMovements(context.Background(), &dto.MovementFilters{UserID: userID})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
