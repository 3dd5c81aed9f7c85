package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-dashboard/internal/report"
	"github.com/fekuna/omnipos-dashboard/internal/report/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	defaultRangeDays = 30
	maxRangeDays     = 366
	defaultTopLimit  = 5
	maxTopLimit      = 50
)

type reportUseCase struct {
	repo   report.Repository
	loc    *time.Location
	logger logger.ZapLogger
	now    func() time.Time
}

func NewReportUseCase(repo report.Repository, loc *time.Location, log logger.ZapLogger) report.UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &reportUseCase{
		repo:   repo,
		loc:    loc,
		logger: log,
		now:    time.Now,
	}
}

// DailyReport aggregates the given YYYY-MM-DD day, today when empty.
func (uc *reportUseCase) DailyReport(ctx context.Context, userID, date string) (*dto.DailyReport, error) {
	if date == "" {
		date = uc.now().In(uc.loc).Format(dto.DateLayout)
	}
	if _, err := time.ParseInLocation(dto.DateLayout, date, uc.loc); err != nil {
		return nil, apperror.Invalid("date must be YYYY-MM-DD")
	}

	rows, err := uc.repo.DailyReport(ctx, userID, date, uc.loc.String())
	if err != nil {
		return nil, fmt.Errorf("daily report: %w", err)
	}
	return &dto.DailyReport{Date: date, Rows: rows}, nil
}

// SalesByDate returns one entry per day of the range, oldest first; days
// without sales carry a zero total.
func (uc *reportUseCase) SalesByDate(ctx context.Context, userID string, rangeDays int) ([]dto.DailyTotal, error) {
	rangeDays = clamp(rangeDays, defaultRangeDays, maxRangeDays)
	since := uc.rangeStart(rangeDays)

	totals, err := uc.repo.SalesByDate(ctx, userID, since, uc.loc.String())
	if err != nil {
		return nil, fmt.Errorf("sales by date: %w", err)
	}

	byDay := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		byDay[t.Date] = t.Total
	}
	out := make([]dto.DailyTotal, 0, rangeDays)
	for i := 0; i < rangeDays; i++ {
		day := since.AddDate(0, 0, i).Format(dto.DateLayout)
		total, ok := byDay[day]
		if !ok {
			total = decimal.Zero
		}
		out = append(out, dto.DailyTotal{Date: day, Total: total})
	}
	return out, nil
}

func (uc *reportUseCase) TopSellingProducts(ctx context.Context, userID string, limit int) ([]dto.TopProduct, error) {
	top, err := uc.repo.TopProducts(ctx, userID, clamp(limit, defaultTopLimit, maxTopLimit))
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return top, nil
}

func (uc *reportUseCase) Analytics(ctx context.Context, filters *dto.AnalyticsFilters) (*dto.Analytics, error) {
	byDate, err := uc.SalesByDate(ctx, filters.UserID, filters.RangeDays)
	if err != nil {
		return nil, err
	}
	top, err := uc.TopSellingProducts(ctx, filters.UserID, filters.Limit)
	if err != nil {
		return nil, err
	}

	since := uc.rangeStart(clamp(filters.RangeDays, defaultRangeDays, maxRangeDays))
	summary, err := uc.repo.Summary(ctx, filters.UserID, since)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	summary.AverageTicket = decimal.Zero
	if summary.SalesCount > 0 {
		summary.AverageTicket = summary.Revenue.Div(decimal.NewFromInt(int64(summary.SalesCount))).Round(2)
	}

	return &dto.Analytics{
		SalesByDate: byDate,
		TopProducts: top,
		Summary:     *summary,
	}, nil
}

// rangeStart is local midnight of the first day of a range ending today.
func (uc *reportUseCase) rangeStart(rangeDays int) time.Time {
	y, m, d := uc.now().In(uc.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, uc.loc).AddDate(0, 0, -(rangeDays - 1))
}

func clamp(v, def, max int) int {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
