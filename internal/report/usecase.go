package report

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/report/dto"
)

type UseCase interface {
	DailyReport(ctx context.Context, userID, date string) (*dto.DailyReport, error)
	SalesByDate(ctx context.Context, userID string, rangeDays int) ([]dto.DailyTotal, error)
	TopSellingProducts(ctx context.Context, userID string, limit int) ([]dto.TopProduct, error)
	Analytics(ctx context.Context, filters *dto.AnalyticsFilters) (*dto.Analytics, error)
}
