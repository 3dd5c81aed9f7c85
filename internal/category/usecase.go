package category

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/category/dto"
	"github.com/fekuna/omnipos-dashboard/internal/model"
)

type UseCase interface {
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.CategorySummary, error)
}
