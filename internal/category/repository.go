package category

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/category/dto"
	"github.com/fekuna/omnipos-dashboard/internal/model"
)

type Repository interface {
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.CategorySummary, error)
}
