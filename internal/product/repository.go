package product

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, p *model.Product) error
	// FindByID returns nil when no product with id belongs to userID,
	// inactive products included.
	FindByID(ctx context.Context, userID, id string) (*model.Product, error)
	FindActiveByIDs(ctx context.Context, userID string, ids []string) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	// Update writes every field except stock.
	Update(ctx context.Context, p *model.Product) error
	SetActive(ctx context.Context, userID, id string, active bool) (bool, error)
	UpdatePrice(ctx context.Context, userID string, change dto.PriceChange) (bool, error)

	IsCodeUnique(ctx context.Context, userID, code, excludeID string) (bool, error)
}
