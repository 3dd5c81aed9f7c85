package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/fekuna/omnipos-dashboard/internal/inventory"
	invdto "github.com/fekuna/omnipos-dashboard/internal/inventory/dto"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/product"
	"github.com/fekuna/omnipos-dashboard/internal/sale"
	"github.com/fekuna/omnipos-dashboard/internal/sale/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/fekuna/omnipos-dashboard/pkg/database"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type saleUseCase struct {
	repo     sale.Repository
	products product.Repository
	stock    inventory.Repository
	tx       database.Transactor
	events   sale.Publisher
	cache    product.Cache
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewSaleUseCase(
	repo sale.Repository,
	products product.Repository,
	stock inventory.Repository,
	tx database.Transactor,
	events sale.Publisher,
	cache product.Cache,
	log logger.ZapLogger,
) sale.UseCase {
	return &saleUseCase{
		repo:     repo,
		products: products,
		stock:    stock,
		tx:       tx,
		events:   events,
		cache:    cache,
		logger:   log,
		now:      time.Now,
	}
}

func (uc *saleUseCase) CreateSale(ctx context.Context, input *dto.CreateSaleInput) (*model.Sale, error) {
	if len(input.Items) == 0 {
		return nil, apperror.Invalid("a sale needs at least one item")
	}

	requested := map[string]int{}
	for _, item := range input.Items {
		if item.ProductID == "" {
			return nil, apperror.Invalid("productId is required")
		}
		if !model.ValidID(item.ProductID) {
			return nil, product.ErrProductNotFound
		}
		if item.Quantity < 1 {
			return nil, apperror.Invalid("quantity must be at least 1")
		}
		requested[item.ProductID] += item.Quantity
	}

	now := uc.now()
	s := &model.Sale{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:    input.UserID,
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		// 1. Validate against the current catalog
		found, err := uc.products.FindActiveByIDs(ctx, input.UserID, sortedKeys(requested))
		if err != nil {
			return err
		}
		byID := make(map[string]model.Product, len(found))
		for _, p := range found {
			byID[p.ID] = p
		}
		for _, id := range sortedKeys(requested) {
			p, ok := byID[id]
			if !ok {
				return product.ErrProductNotFound
			}
			if requested[id] > p.Stock {
				return inventory.InsufficientStock(p.Name, p.Stock)
			}
		}

		// 2. Price
		s.Items = make([]model.SaleItem, 0, len(input.Items))
		for _, item := range input.Items {
			p := byID[item.ProductID]
			s.Items = append(s.Items, model.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    s.ID,
				ProductID: p.ID,
				Quantity:  item.Quantity,
				UnitPrice: p.Price,
				Product:   summaryOf(p),
			})
		}
		s.RecomputeTotal()
		if !input.Total.IsZero() && !input.Total.Equal(s.Total) {
			return sale.ErrTotalMismatch
		}

		// 3-4. Header and items
		if err := uc.repo.Create(ctx, s); err != nil {
			return err
		}

		// 5. Guarded decrement, in id order so concurrent sales lock rows alike
		for _, id := range sortedKeys(requested) {
			if err := uc.adjust(ctx, s, id, -requested[id], model.MovementSale); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("sale created",
		zap.String("sale_id", s.ID),
		zap.String("total", s.Total.StringFixed(2)),
		zap.Int("items", len(s.Items)),
	)
	uc.afterCommit(ctx, sale.EventCreated, s)
	return s, nil
}

// adjust applies delta to one product's stock through the guard.
func (uc *saleUseCase) adjust(ctx context.Context, s *model.Sale, productID string, delta int, reason string) error {
	if delta == 0 {
		return nil
	}
	ref := s.ID
	_, ok, err := uc.stock.TryAdjustStock(ctx, &invdto.StockAdjustment{
		ProductID:   productID,
		UserID:      s.UserID,
		Delta:       delta,
		Reason:      reason,
		ReferenceID: &ref,
	})
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	p, err := uc.stock.FindProduct(ctx, s.UserID, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return product.ErrProductNotFound
	}
	return inventory.InsufficientStock(p.Name, p.Stock)
}

func (uc *saleUseCase) GetSale(ctx context.Context, userID, id string) (*model.Sale, error) {
	if !model.ValidID(id) {
		return nil, sale.ErrSaleNotFound
	}
	s, err := uc.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, sale.ErrSaleNotFound
	}
	return s, nil
}

func (uc *saleUseCase) ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = defaultPageSize
	}
	if filters.PageSize > maxPageSize {
		filters.PageSize = maxPageSize
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *saleUseCase) UpdateSale(ctx context.Context, input *dto.UpdateSaleInput) (*model.Sale, error) {
	if len(input.Items) == 0 {
		return nil, apperror.Invalid("nothing to update")
	}
	if !model.ValidID(input.ID) {
		return nil, sale.ErrSaleNotFound
	}
	for _, item := range input.Items {
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return nil, apperror.Invalid("unitPrice must not be negative")
		}
	}

	var updated *model.Sale
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		s, err := uc.repo.LockByID(ctx, input.UserID, input.ID)
		if err != nil {
			return err
		}
		if s == nil {
			return sale.ErrSaleNotFound
		}

		index := make(map[string]int, len(s.Items))
		for i, item := range s.Items {
			index[item.ID] = i
		}
		edits := make(map[int]dto.UpdateItemInput, len(input.Items))
		for _, edit := range input.Items {
			i, ok := index[edit.ID]
			if !ok {
				return sale.SaleItemNotFound(edit.ID)
			}
			edits[i] = edit
		}

		// Lock the stock of every touched product before clamping against it.
		remaining := map[string]int{}
		for _, id := range productIDsOf(s.Items, edits) {
			stock, found, err := uc.stock.LockStock(ctx, s.UserID, id)
			if err != nil {
				return err
			}
			if !found {
				return product.ErrProductNotFound
			}
			remaining[id] = stock
		}

		deltas := map[string]int{}
		for i := range s.Items {
			edit, ok := edits[i]
			if !ok {
				continue
			}
			item := &s.Items[i]
			ceiling := remaining[item.ProductID] + item.Quantity
			quantity := item.Quantity
			if edit.Quantity != nil {
				quantity = clamp(*edit.Quantity, 1, ceiling)
			}

			deltas[item.ProductID] += item.Quantity - quantity
			remaining[item.ProductID] = ceiling - quantity
			item.Quantity = quantity
			if edit.UnitPrice != nil {
				item.UnitPrice = edit.UnitPrice.Round(2)
			}
		}

		for _, id := range sortedKeys(deltas) {
			if err := uc.adjust(ctx, s, id, deltas[id], model.MovementSaleEdit); err != nil {
				return err
			}
		}

		s.RecomputeTotal()
		s.UpdatedAt = uc.now()
		if err := uc.repo.UpdateItems(ctx, s); err != nil {
			return err
		}

		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, sale.EventUpdated, updated)
	return updated, nil
}

func (uc *saleUseCase) DeleteSale(ctx context.Context, userID, id string) error {
	if !model.ValidID(id) {
		return sale.ErrSaleNotFound
	}
	var deleted *model.Sale
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		s, err := uc.repo.LockByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if s == nil {
			return sale.ErrSaleNotFound
		}

		restore := map[string]int{}
		for _, item := range s.Items {
			restore[item.ProductID] += item.Quantity
		}
		// Restore first; a failure here aborts before any row is removed.
		for _, pid := range sortedKeys(restore) {
			if err := uc.adjust(ctx, s, pid, restore[pid], model.MovementSaleDelete); err != nil {
				return err
			}
		}

		if err := uc.repo.Delete(ctx, userID, id); err != nil {
			return err
		}
		deleted = s
		return nil
	})
	if err != nil {
		return err
	}

	uc.afterCommit(ctx, sale.EventDeleted, deleted)
	return nil
}

// afterCommit runs the side effects of a committed change. Their failures
// are logged, the change itself already succeeded.
func (uc *saleUseCase) afterCommit(ctx context.Context, eventType string, s *model.Sale) {
	if err := product.InvalidateListCache(ctx, uc.cache, s.UserID); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.String("user_id", s.UserID), zap.Error(err))
	}

	if uc.events == nil {
		return
	}
	event := sale.Event{
		Type:       eventType,
		SaleID:     s.ID,
		UserID:     s.UserID,
		Total:      s.Total,
		OccurredAt: uc.now(),
	}
	for _, item := range s.Items {
		event.Items = append(event.Items, sale.EventItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to encode sale event", zap.Error(err))
		return
	}
	if err := uc.events.Publish(ctx, s.UserID, payload); err != nil {
		uc.logger.Error("failed to publish sale event",
			zap.String("type", eventType),
			zap.String("sale_id", s.ID),
			zap.Error(err),
		)
	}
}

func summaryOf(p model.Product) *model.ProductSummary {
	return &model.ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		Code:     p.Code,
		Price:    p.Price,
		Unit:     p.Unit,
		IsActive: p.IsActive,
	}
}

func productIDsOf(items []model.SaleItem, edits map[int]dto.UpdateItemInput) []string {
	set := map[string]int{}
	for i := range edits {
		set[items[i].ProductID] = 0
	}
	return sortedKeys(set)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
