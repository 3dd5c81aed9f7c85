package repository

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/category/dto"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/pkg/database"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// Categories are not a table of their own; they are the distinct labels
// of the user's active products.
func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.CategorySummary, error) {
	query := `
        SELECT category AS name, count(*) AS product_count
        FROM products
        WHERE user_id = $1 AND is_active AND category <> ''
    `
	if f.WithinStock {
		query += ` AND stock > 0`
	}
	query += ` GROUP BY category ORDER BY category`

	items := []model.CategorySummary{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &items, query, f.UserID)
	return items, err
}
