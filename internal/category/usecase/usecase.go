package usecase

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/category"
	"github.com/fekuna/omnipos-dashboard/internal/category/dto"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.CategorySummary, error) {
	return uc.repo.FindAll(ctx, filters)
}
