package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/product"
	"github.com/fekuna/omnipos-dashboard/internal/product/dto"
)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	s *Store
}

var _ product.Repository = (*ProductRepo)(nil)

func (r *ProductRepo) codeTaken(userID, code, excludeID string) bool {
	for _, p := range r.s.products {
		if p.UserID == userID && p.IsActive && p.Code == code && p.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	if err := r.s.fail("product.Create"); err != nil {
		return err
	}
	var err error
	r.s.write(ctx, func() {
		if p.IsActive && r.codeTaken(p.UserID, p.Code, p.ID) {
			err = product.CodeTaken(p.Code)
			return
		}
		r.s.products[p.ID] = *p
	})
	return err
}

func (r *ProductRepo) FindByID(_ context.Context, userID, id string) (*model.Product, error) {
	if err := r.s.fail("product.FindByID"); err != nil {
		return nil, err
	}
	var out *model.Product
	r.s.read(func() {
		if p, ok := r.s.products[id]; ok && p.UserID == userID {
			out = &p
		}
	})
	return out, nil
}

func (r *ProductRepo) FindActiveByIDs(_ context.Context, userID string, ids []string) ([]model.Product, error) {
	if err := r.s.fail("product.FindActiveByIDs"); err != nil {
		return nil, err
	}
	out := []model.Product{}
	r.s.read(func() {
		for _, id := range ids {
			if p, ok := r.s.products[id]; ok && p.UserID == userID && p.IsActive {
				out = append(out, p)
			}
		}
	})
	return out, nil
}

func (r *ProductRepo) FindAll(_ context.Context, f *dto.ProductFilters) ([]model.Product, error) {
	if err := r.s.fail("product.FindAll"); err != nil {
		return nil, err
	}
	q := strings.ToLower(f.SearchQuery)
	out := []model.Product{}
	r.s.read(func() {
		for _, p := range r.s.products {
			if p.UserID != f.UserID || !p.IsActive {
				continue
			}
			if f.Category != "" && p.Category != f.Category {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Code), q) {
				continue
			}
			out = append(out, p)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	if err := r.s.fail("product.Update"); err != nil {
		return err
	}
	var err error
	r.s.write(ctx, func() {
		existing, ok := r.s.products[p.ID]
		if !ok || existing.UserID != p.UserID {
			err = product.ErrProductNotFound
			return
		}
		if p.IsActive && r.codeTaken(p.UserID, p.Code, p.ID) {
			err = product.CodeTaken(p.Code)
			return
		}
		stock := existing.Stock
		existing = *p
		existing.Stock = stock
		r.s.products[p.ID] = existing
	})
	return err
}

func (r *ProductRepo) SetActive(ctx context.Context, userID, id string, active bool) (bool, error) {
	if err := r.s.fail("product.SetActive"); err != nil {
		return false, err
	}
	var (
		ok  bool
		err error
	)
	r.s.write(ctx, func() {
		p, found := r.s.products[id]
		if !found || p.UserID != userID {
			return
		}
		if active && r.codeTaken(userID, p.Code, p.ID) {
			err = product.ErrCodeTaken
			return
		}
		p.IsActive = active
		r.s.products[id] = p
		ok = true
	})
	return ok, err
}

func (r *ProductRepo) UpdatePrice(ctx context.Context, userID string, change dto.PriceChange) (bool, error) {
	if err := r.s.fail("product.UpdatePrice"); err != nil {
		return false, err
	}
	var ok bool
	r.s.write(ctx, func() {
		p, found := r.s.products[change.ID]
		if !found || p.UserID != userID || !p.IsActive {
			return
		}
		p.Price = change.Price
		r.s.products[p.ID] = p
		ok = true
	})
	return ok, nil
}

func (r *ProductRepo) IsCodeUnique(_ context.Context, userID, code, excludeID string) (bool, error) {
	if err := r.s.fail("product.IsCodeUnique"); err != nil {
		return false, err
	}
	var taken bool
	r.s.read(func() { taken = r.codeTaken(userID, code, excludeID) })
	return !taken, nil
}
