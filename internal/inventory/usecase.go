package inventory

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/inventory/dto"
	"github.com/fekuna/omnipos-dashboard/internal/model"
)

type UseCase interface {
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Product, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
