package report

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-dashboard/internal/report/dto"
)

// Repository aggregates persisted sales. Calendar days are taken in tz.
type Repository interface {
	DailyReport(ctx context.Context, userID, date, tz string) ([]dto.DailyReportRow, error)
	SalesByDate(ctx context.Context, userID string, since time.Time, tz string) ([]dto.DailyTotal, error)
	TopProducts(ctx context.Context, userID string, limit int) ([]dto.TopProduct, error)
	Summary(ctx context.Context, userID string, since time.Time) (*dto.Summary, error)
}
