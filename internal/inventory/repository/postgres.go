package repository

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-dashboard/internal/inventory/dto"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/pkg/database"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// The update and the movement insert share one statement, so the movement
// exists exactly when the guarded update matched.
const adjustStockQuery = `
    WITH updated AS (
        UPDATE products
        SET stock = stock + $3, updated_at = NOW()
        WHERE id = $1 AND user_id = $2 AND stock + $3 >= 0
        RETURNING id, user_id, stock
    )
    INSERT INTO stock_movements (id, product_id, user_id, quantity_change, quantity_after, reason, reference_id, created_at)
    SELECT $4, id, user_id, $3, stock, $5, $6, NOW() FROM updated
    RETURNING quantity_after
`

func (r *PGRepository) TryAdjustStock(ctx context.Context, adj *dto.StockAdjustment) (int, bool, error) {
	var stock int
	err := database.Conn(ctx, r.DB).GetContext(ctx, &stock, adjustStockQuery,
		adj.ProductID, adj.UserID, adj.Delta, uuid.New().String(), adj.Reason, adj.ReferenceID)
	if err != nil {
		if database.IsNoRows(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("adjust stock of %s: %w", adj.ProductID, err)
	}
	return stock, true, nil
}

const compareAndSetStockQuery = `
    WITH updated AS (
        UPDATE products
        SET stock = $4, updated_at = NOW()
        WHERE id = $1 AND user_id = $2 AND stock = $3
        RETURNING id, user_id, stock
    )
    INSERT INTO stock_movements (id, product_id, user_id, quantity_change, quantity_after, reason, reference_id, created_at)
    SELECT $5, id, user_id, $4 - $3, stock, $6, $7, NOW() FROM updated
    RETURNING quantity_after
`

func (r *PGRepository) CompareAndSetStock(ctx context.Context, adj *dto.StockAdjustment, expected, next int) (bool, error) {
	var stock int
	err := database.Conn(ctx, r.DB).GetContext(ctx, &stock, compareAndSetStockQuery,
		adj.ProductID, adj.UserID, expected, next, uuid.New().String(), adj.Reason, adj.ReferenceID)
	if err != nil {
		if database.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("set stock of %s: %w", adj.ProductID, err)
	}
	return true, nil
}

func (r *PGRepository) LockStock(ctx context.Context, userID, productID string) (int, bool, error) {
	var stock int
	query := `SELECT stock FROM products WHERE id = $1 AND user_id = $2 FOR UPDATE`
	err := database.Conn(ctx, r.DB).GetContext(ctx, &stock, query, productID, userID)
	if err != nil {
		if database.IsNoRows(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return stock, true, nil
}

func (r *PGRepository) FindProduct(ctx context.Context, userID, productID string) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE id = $1 AND user_id = $2 LIMIT 1`
	err := database.Conn(ctx, r.DB).GetContext(ctx, &p, query, productID, userID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	db := database.Conn(ctx, r.DB)

	var count int
	countQuery := `SELECT count(*) FROM stock_movements WHERE user_id = $1 AND product_id = $2`
	if err := db.GetContext(ctx, &count, countQuery, f.UserID, f.ProductID); err != nil {
		return nil, 0, err
	}

	query := `
        SELECT * FROM stock_movements
        WHERE user_id = $1 AND product_id = $2
        ORDER BY created_at DESC, id
    `
	args := []interface{}{f.UserID, f.ProductID}
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	items := []model.StockMovement{}
	if err := db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}
