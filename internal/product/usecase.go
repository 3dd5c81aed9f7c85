package product

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, userID, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeactivateProduct(ctx context.Context, userID, id string) error
	SetProductStatus(ctx context.Context, userID, id string, active bool) error
	UpdatePrices(ctx context.Context, userID string, changes []dto.PriceChange) error
}
