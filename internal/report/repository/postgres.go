package repository

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-dashboard/internal/report"
	"github.com/fekuna/omnipos-dashboard/internal/report/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/database"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

var _ report.Repository = (*PGRepository)(nil)

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) DailyReport(ctx context.Context, userID, date, tz string) ([]dto.DailyReportRow, error) {
	rows := []dto.DailyReportRow{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &rows,
		`SELECT * FROM daily_sales_report($1, $2::DATE, $3)`, userID, date, tz)
	return rows, err
}

func (r *PGRepository) SalesByDate(ctx context.Context, userID string, since time.Time, tz string) ([]dto.DailyTotal, error) {
	query := `
        SELECT TO_CHAR((created_at AT TIME ZONE $3)::DATE, 'YYYY-MM-DD') AS day,
               SUM(total) AS total
        FROM sales
        WHERE user_id = $1 AND created_at >= $2
        GROUP BY day
        ORDER BY day
    `
	totals := []dto.DailyTotal{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &totals, query, userID, since, tz)
	return totals, err
}

func (r *PGRepository) TopProducts(ctx context.Context, userID string, limit int) ([]dto.TopProduct, error) {
	query := `
        SELECT p.id AS product_id,
               p.name,
               SUM(si.quantity) AS quantity_sold,
               SUM(si.subtotal) AS revenue
        FROM sale_items si
            JOIN sales s ON s.id = si.sale_id
            JOIN products p ON p.id = si.product_id
        WHERE s.user_id = $1
        GROUP BY p.id, p.name
        ORDER BY quantity_sold DESC, p.name
        LIMIT $2
    `
	top := []dto.TopProduct{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &top, query, userID, limit)
	return top, err
}

func (r *PGRepository) Summary(ctx context.Context, userID string, since time.Time) (*dto.Summary, error) {
	query := `
        SELECT COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS sales_count
        FROM sales
        WHERE user_id = $1 AND created_at >= $2
    `
	var s dto.Summary
	if err := database.Conn(ctx, r.DB).GetContext(ctx, &s, query, userID, since); err != nil {
		return nil, err
	}
	return &s, nil
}
