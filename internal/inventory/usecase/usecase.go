package usecase

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/inventory"
	"github.com/fekuna/omnipos-dashboard/internal/inventory/dto"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/product"
	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type inventoryUseCase struct {
	repo   inventory.Repository
	cache  product.Cache
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, cache product.Cache, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Product, error) {
	if input.ProductID == "" {
		return nil, apperror.Invalid("productId is required")
	}
	if !model.ValidID(input.ProductID) {
		return nil, product.ErrProductNotFound
	}

	p, err := uc.repo.FindProduct(ctx, input.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, product.ErrProductNotFound
	}
	if input.Change == 0 {
		return p, nil
	}

	stock, ok, err := uc.repo.TryAdjustStock(ctx, &dto.StockAdjustment{
		ProductID: p.ID,
		UserID:    input.UserID,
		Delta:     input.Change,
		Reason:    model.MovementManual,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		// The stock read above may be stale; report the current value.
		if current, err := uc.repo.FindProduct(ctx, input.UserID, p.ID); err == nil && current != nil {
			return nil, inventory.InsufficientStock(current.Name, current.Stock)
		}
		return nil, inventory.InsufficientStock(p.Name, p.Stock)
	}

	p.Stock = stock
	uc.invalidate(ctx, input.UserID)

	uc.logger.Info("stock adjusted",
		zap.String("product_id", p.ID),
		zap.Int("change", input.Change),
		zap.Int("stock", stock),
	)
	return p, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	if filters.ProductID == "" {
		return nil, 0, apperror.Invalid("productId is required")
	}
	if !model.ValidID(filters.ProductID) {
		return nil, 0, product.ErrProductNotFound
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = defaultPageSize
	}
	if filters.PageSize > maxPageSize {
		filters.PageSize = maxPageSize
	}

	p, err := uc.repo.FindProduct(ctx, filters.UserID, filters.ProductID)
	if err != nil {
		return nil, 0, err
	}
	if p == nil {
		return nil, 0, product.ErrProductNotFound
	}
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *inventoryUseCase) invalidate(ctx context.Context, userID string) {
	if err := product.InvalidateListCache(ctx, uc.cache, userID); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.String("user_id", userID), zap.Error(err))
	}
}
