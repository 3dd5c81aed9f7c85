package memstore

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/sale"
	"github.com/fekuna/omnipos-dashboard/internal/sale/dto"
)

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	s *Store
}

var _ sale.Repository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(ctx context.Context, in *model.Sale) error {
	if err := r.s.fail("sale.Create"); err != nil {
		return err
	}
	r.s.write(ctx, func() {
		r.s.sales[in.ID] = copySale(*in)
	})
	return nil
}

// withProducts returns a copy of stored with product summaries joined in.
// Caller holds the data lock.
func (r *SaleRepo) withProducts(stored model.Sale) model.Sale {
	out := copySale(stored)
	for i := range out.Items {
		if p, ok := r.s.products[out.Items[i].ProductID]; ok {
			out.Items[i].Product = &model.ProductSummary{
				ID:       p.ID,
				Name:     p.Name,
				Code:     p.Code,
				Price:    p.Price,
				Unit:     p.Unit,
				IsActive: p.IsActive,
			}
		}
	}
	return out
}

func (r *SaleRepo) FindByID(_ context.Context, userID, id string) (*model.Sale, error) {
	if err := r.s.fail("sale.FindByID"); err != nil {
		return nil, err
	}
	var out *model.Sale
	r.s.read(func() {
		if stored, ok := r.s.sales[id]; ok && stored.UserID == userID {
			s := r.withProducts(stored)
			out = &s
		}
	})
	return out, nil
}

func (r *SaleRepo) LockByID(ctx context.Context, userID, id string) (*model.Sale, error) {
	if err := r.s.fail("sale.LockByID"); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, userID, id)
}

func (r *SaleRepo) FindAll(_ context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	if err := r.s.fail("sale.FindAll"); err != nil {
		return nil, 0, err
	}
	all := []model.Sale{}
	r.s.read(func() {
		for _, stored := range r.s.sales {
			if stored.UserID == f.UserID {
				all = append(all, r.withProducts(stored))
			}
		}
	})
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return paginate(all, f.Page, f.PageSize), len(all), nil
}

func (r *SaleRepo) UpdateItems(ctx context.Context, in *model.Sale) error {
	if err := r.s.fail("sale.UpdateItems"); err != nil {
		return err
	}
	var err error
	r.s.write(ctx, func() {
		stored, ok := r.s.sales[in.ID]
		if !ok || stored.UserID != in.UserID {
			err = sale.ErrSaleNotFound
			return
		}
		updated := copySale(*in)
		updated.CreatedAt = stored.CreatedAt
		r.s.sales[in.ID] = updated
	})
	return err
}

func (r *SaleRepo) Delete(ctx context.Context, userID, id string) error {
	if err := r.s.fail("sale.Delete"); err != nil {
		return err
	}
	var err error
	r.s.write(ctx, func() {
		stored, ok := r.s.sales[id]
		if !ok || stored.UserID != userID {
			err = sale.ErrSaleNotFound
			return
		}
		delete(r.s.sales, id)
	})
	return err
}
