package inventory

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/inventory/dto"
	"github.com/fekuna/omnipos-dashboard/internal/model"
)

// Repository is the stock guard. Every stock write is conditional and
// records a stock movement in the same statement.
type Repository interface {
	// TryAdjustStock adds adj.Delta to the stock unless the result would be
	// negative. ok is false when the guard failed or the product does not
	// belong to adj.UserID.
	TryAdjustStock(ctx context.Context, adj *dto.StockAdjustment) (stock int, ok bool, err error)
	// CompareAndSetStock sets the stock to next only if it still equals expected.
	CompareAndSetStock(ctx context.Context, adj *dto.StockAdjustment, expected, next int) (bool, error)
	// LockStock reads the stock under a row lock held until the surrounding
	// transaction ends.
	LockStock(ctx context.Context, userID, productID string) (stock int, found bool, err error)

	FindProduct(ctx context.Context, userID, productID string) (*model.Product, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
