package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-dashboard/internal/inventory"
	invdto "github.com/fekuna/omnipos-dashboard/internal/inventory/dto"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/product"
	"github.com/fekuna/omnipos-dashboard/internal/product/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/fekuna/omnipos-dashboard/pkg/database"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo   product.Repository
	stock  inventory.Repository
	tx     database.Transactor
	cache  product.Cache
	logger logger.ZapLogger
	now    func() time.Time
}

func NewProductUseCase(repo product.Repository, stock inventory.Repository, tx database.Transactor, cache product.Cache, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		stock:  stock,
		tx:     tx,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	code := strings.TrimSpace(input.Code)
	switch {
	case name == "":
		return nil, apperror.Invalid("name is required")
	case code == "":
		return nil, apperror.Invalid("code is required")
	case input.Price == nil:
		return nil, apperror.Invalid("price is required")
	case input.Price.IsNegative():
		return nil, apperror.Invalid("price must not be negative")
	}

	unit := input.Unit
	if unit == "" {
		unit = model.UnitCount
	}
	if !model.IsValidUnit(unit) {
		return nil, apperror.Invalid("unit must be unit or weight")
	}

	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
	}
	if stock < 0 {
		return nil, apperror.Invalid("stock must not be negative")
	}

	now := uc.now()
	p := &model.Product{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:    input.UserID,
		Name:      name,
		Code:      code,
		Price:     input.Price.Round(2),
		Unit:      unit,
		Category:  strings.TrimSpace(input.Category),
		IsActive:  true,
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		unique, err := uc.repo.IsCodeUnique(ctx, p.UserID, p.Code, "")
		if err != nil {
			return err
		}
		if !unique {
			return product.CodeTaken(p.Code)
		}

		if err := uc.repo.Create(ctx, p); err != nil {
			return err
		}
		if stock == 0 {
			return nil
		}

		// Opening stock goes through the guard so it is recorded as a movement.
		ok, err := uc.stock.CompareAndSetStock(ctx, &invdto.StockAdjustment{
			ProductID: p.ID,
			UserID:    p.UserID,
			Reason:    model.MovementCatalog,
		}, 0, stock)
		if err != nil {
			return err
		}
		if !ok {
			return inventory.ErrStockConflict
		}
		p.Stock = stock
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, p.UserID)
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, userID, id string) (*model.Product, error) {
	if !model.ValidID(id) {
		return nil, product.ErrProductNotFound
	}
	p, err := uc.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	cacheKey := uc.cacheKey(ctx, filters)
	if cacheKey != "" {
		val, found, err := uc.cache.Get(ctx, cacheKey)
		if err != nil {
			uc.logger.Warn("product cache read failed", zap.Error(err))
		}
		if found {
			var cached []model.Product
			if err := json.Unmarshal(val, &cached); err == nil {
				return cached, nil
			}
		}
	}

	products, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(products); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, product.ListCacheTTL); err != nil {
				uc.logger.Warn("product cache write failed", zap.Error(err))
			}
		}
	}

	return products, nil
}

// cacheKey returns "" when listings of this request bypass the cache. The
// generation is read before the rows are loaded.
func (uc *productUseCase) cacheKey(ctx context.Context, filters *dto.ProductFilters) string {
	if uc.cache == nil {
		return ""
	}
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	gen, err := product.ListCacheGeneration(ctx, uc.cache, filters.UserID)
	if err != nil {
		uc.logger.Warn("product cache generation read failed", zap.Error(err))
		return ""
	}
	return product.ListCacheKey(filters.UserID, gen, fmt.Sprintf("%x", md5.Sum(data)))
}

func (uc *productUseCase) invalidate(ctx context.Context, userID string) {
	if err := product.InvalidateListCache(ctx, uc.cache, userID); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.String("user_id", userID), zap.Error(err))
	}
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if input.ID == "" {
		return nil, apperror.Invalid("id is required")
	}
	if !model.ValidID(input.ID) {
		return nil, product.ErrProductNotFound
	}

	var updated *model.Product
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := uc.repo.FindByID(ctx, input.UserID, input.ID)
		if err != nil {
			return err
		}
		if p == nil {
			return product.ErrProductNotFound
		}

		if err := applyUpdate(p, input); err != nil {
			return err
		}

		if p.IsActive {
			unique, err := uc.repo.IsCodeUnique(ctx, p.UserID, p.Code, p.ID)
			if err != nil {
				return err
			}
			if !unique {
				return product.CodeTaken(p.Code)
			}
		}

		p.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, p); err != nil {
			return err
		}

		if input.Stock != nil && *input.Stock != p.Stock {
			ok, err := uc.stock.CompareAndSetStock(ctx, &invdto.StockAdjustment{
				ProductID: p.ID,
				UserID:    p.UserID,
				Reason:    model.MovementCatalog,
			}, p.Stock, *input.Stock)
			if err != nil {
				return err
			}
			if !ok {
				return inventory.ErrStockConflict
			}
			p.Stock = *input.Stock
		}

		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, updated.UserID)
	return updated, nil
}

func applyUpdate(p *model.Product, input *dto.UpdateProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return apperror.Invalid("name is required")
		}
		p.Name = name
	}
	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return apperror.Invalid("code is required")
		}
		p.Code = code
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return apperror.Invalid("price must not be negative")
		}
		p.Price = input.Price.Round(2)
	}
	if input.Unit != nil {
		if !model.IsValidUnit(*input.Unit) {
			return apperror.Invalid("unit must be unit or weight")
		}
		p.Unit = *input.Unit
	}
	if input.Category != nil {
		p.Category = strings.TrimSpace(*input.Category)
	}
	if input.Stock != nil && *input.Stock < 0 {
		return apperror.Invalid("stock must not be negative")
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	return nil
}

func (uc *productUseCase) DeactivateProduct(ctx context.Context, userID, id string) error {
	return uc.SetProductStatus(ctx, userID, id, false)
}

func (uc *productUseCase) SetProductStatus(ctx context.Context, userID, id string, active bool) error {
	if id == "" {
		return apperror.Invalid("id is required")
	}
	if !model.ValidID(id) {
		return product.ErrProductNotFound
	}

	ok, err := uc.repo.SetActive(ctx, userID, id, active)
	if errors.Is(err, product.ErrCodeTaken) {
		if p, findErr := uc.repo.FindByID(ctx, userID, id); findErr == nil && p != nil {
			return product.CodeTaken(p.Code)
		}
	}
	if err != nil {
		return err
	}
	if !ok {
		return product.ErrProductNotFound
	}

	uc.invalidate(ctx, userID)
	uc.logger.Info("product status changed", zap.String("product_id", id), zap.Bool("active", active))
	return nil
}

func (uc *productUseCase) UpdatePrices(ctx context.Context, userID string, changes []dto.PriceChange) error {
	if len(changes) == 0 {
		return apperror.Invalid("at least one price change is required")
	}
	for _, c := range changes {
		if !model.ValidID(c.ID) || c.Price.IsNegative() {
			return product.PriceBatchRejected(c.ID)
		}
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, c := range changes {
			ok, err := uc.repo.UpdatePrice(ctx, userID, dto.PriceChange{ID: c.ID, Price: c.Price.Round(2)})
			if err != nil {
				return fmt.Errorf("update price of %s: %w", c.ID, err)
			}
			if !ok {
				return product.PriceBatchRejected(c.ID)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.invalidate(ctx, userID)
	return nil
}
