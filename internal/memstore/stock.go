package memstore

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-dashboard/internal/inventory"
	"github.com/fekuna/omnipos-dashboard/internal/inventory/dto"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/google/uuid"
)

// StockRepo implements inventory.Repository.
type StockRepo struct {
	s *Store
}

var _ inventory.Repository = (*StockRepo)(nil)

func (r *StockRepo) record(adj *dto.StockAdjustment, change, after int) {
	r.s.movements = append(r.s.movements, model.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      adj.ProductID,
		UserID:         adj.UserID,
		QuantityChange: change,
		QuantityAfter:  after,
		Reason:         adj.Reason,
		ReferenceID:    adj.ReferenceID,
		CreatedAt:      time.Now(),
	})
}

func (r *StockRepo) TryAdjustStock(ctx context.Context, adj *dto.StockAdjustment) (int, bool, error) {
	if err := r.s.fail("stock.TryAdjustStock"); err != nil {
		return 0, false, err
	}
	var (
		stock int
		ok    bool
	)
	r.s.write(ctx, func() {
		p, found := r.s.products[adj.ProductID]
		if !found || p.UserID != adj.UserID || p.Stock+adj.Delta < 0 {
			return
		}
		p.Stock += adj.Delta
		r.s.products[p.ID] = p
		r.record(adj, adj.Delta, p.Stock)
		stock, ok = p.Stock, true
	})
	return stock, ok, nil
}

func (r *StockRepo) CompareAndSetStock(ctx context.Context, adj *dto.StockAdjustment, expected, next int) (bool, error) {
	if err := r.s.fail("stock.CompareAndSetStock"); err != nil {
		return false, err
	}
	var ok bool
	r.s.write(ctx, func() {
		p, found := r.s.products[adj.ProductID]
		if !found || p.UserID != adj.UserID || p.Stock != expected {
			return
		}
		p.Stock = next
		r.s.products[p.ID] = p
		r.record(adj, next-expected, next)
		ok = true
	})
	return ok, nil
}

func (r *StockRepo) LockStock(_ context.Context, userID, productID string) (int, bool, error) {
	if err := r.s.fail("stock.LockStock"); err != nil {
		return 0, false, err
	}
	var (
		stock int
		found bool
	)
	r.s.read(func() {
		if p, ok := r.s.products[productID]; ok && p.UserID == userID {
			stock, found = p.Stock, true
		}
	})
	return stock, found, nil
}

func (r *StockRepo) FindProduct(_ context.Context, userID, productID string) (*model.Product, error) {
	if err := r.s.fail("stock.FindProduct"); err != nil {
		return nil, err
	}
	var out *model.Product
	r.s.read(func() {
		if p, ok := r.s.products[productID]; ok && p.UserID == userID {
			out = &p
		}
	})
	return out, nil
}

func (r *StockRepo) ListMovements(_ context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	if err := r.s.fail("stock.ListMovements"); err != nil {
		return nil, 0, err
	}
	all := []model.StockMovement{}
	r.s.read(func() {
		for _, m := range r.s.movements {
			if m.UserID == f.UserID && m.ProductID == f.ProductID {
				all = append(all, m)
			}
		}
	})
	// newest first; movements are appended in order
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return paginate(all, f.Page, f.PageSize), len(all), nil
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
