package repository

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/sale"
	"github.com/fekuna/omnipos-dashboard/internal/sale/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/database"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// itemRow is a sale item joined with its product, inactive products included.
type itemRow struct {
	model.SaleItem
	PName     string          `db:"p_name"`
	PCode     string          `db:"p_code"`
	PPrice    decimal.Decimal `db:"p_price"`
	PUnit     string          `db:"p_unit"`
	PIsActive bool            `db:"p_is_active"`
}

const itemsQuery = `
    SELECT si.id, si.sale_id, si.product_id, si.quantity, si.unit_price, si.subtotal,
           p.name AS p_name, p.code AS p_code, p.price AS p_price,
           p.unit AS p_unit, p.is_active AS p_is_active
    FROM sale_items si
    JOIN products p ON p.id = si.product_id
`

func (r *PGRepository) Create(ctx context.Context, s *model.Sale) error {
	db := database.Conn(ctx, r.DB)

	header := `
        INSERT INTO sales (id, user_id, total, created_at, updated_at)
        VALUES (:id, :user_id, :total, :created_at, :updated_at)
    `
	if _, err := db.NamedExecContext(ctx, header, s); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	items := `
        INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal)
        VALUES (:id, :sale_id, :product_id, :quantity, :unit_price, :subtotal)
    `
	if _, err := db.NamedExecContext(ctx, items, s.Items); err != nil {
		return fmt.Errorf("insert sale items: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, userID, id string) (*model.Sale, error) {
	return r.findOne(ctx, `SELECT * FROM sales WHERE id = $1 AND user_id = $2`, userID, id)
}

func (r *PGRepository) LockByID(ctx context.Context, userID, id string) (*model.Sale, error) {
	return r.findOne(ctx, `SELECT * FROM sales WHERE id = $1 AND user_id = $2 FOR UPDATE`, userID, id)
}

func (r *PGRepository) findOne(ctx context.Context, query, userID, id string) (*model.Sale, error) {
	var s model.Sale
	err := database.Conn(ctx, r.DB).GetContext(ctx, &s, query, id, userID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	sales := []model.Sale{s}
	if err := r.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return &sales[0], nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	db := database.Conn(ctx, r.DB)

	var count int
	if err := db.GetContext(ctx, &count, `SELECT count(*) FROM sales WHERE user_id = $1`, f.UserID); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM sales WHERE user_id = $1 ORDER BY created_at DESC, id`
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	sales := []model.Sale{}
	if err := db.SelectContext(ctx, &sales, query, f.UserID); err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctx, sales); err != nil {
		return nil, 0, err
	}
	return sales, count, nil
}

func (r *PGRepository) attachItems(ctx context.Context, sales []model.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	ids := make([]string, len(sales))
	pos := make(map[string]int, len(sales))
	for i := range sales {
		ids[i] = sales[i].ID
		pos[sales[i].ID] = i
		sales[i].Items = []model.SaleItem{}
	}

	query, args, err := sqlx.In(itemsQuery+` WHERE si.sale_id IN (?) ORDER BY si.sale_id, p.name, si.id`, ids)
	if err != nil {
		return err
	}
	query = r.DB.Rebind(query)

	var rows []itemRow
	if err := database.Conn(ctx, r.DB).SelectContext(ctx, &rows, query, args...); err != nil {
		return fmt.Errorf("load sale items: %w", err)
	}

	for _, row := range rows {
		item := row.SaleItem
		item.Product = &model.ProductSummary{
			ID:       row.ProductID,
			Name:     row.PName,
			Code:     row.PCode,
			Price:    row.PPrice,
			Unit:     row.PUnit,
			IsActive: row.PIsActive,
		}
		i := pos[row.SaleID]
		sales[i].Items = append(sales[i].Items, item)
	}
	return nil
}

func (r *PGRepository) UpdateItems(ctx context.Context, s *model.Sale) error {
	db := database.Conn(ctx, r.DB)

	itemQuery := `
        UPDATE sale_items
        SET quantity = :quantity, unit_price = :unit_price, subtotal = :subtotal
        WHERE id = :id AND sale_id = :sale_id
    `
	for i := range s.Items {
		if _, err := db.NamedExecContext(ctx, itemQuery, &s.Items[i]); err != nil {
			return fmt.Errorf("update sale item %s: %w", s.Items[i].ID, err)
		}
	}

	headerQuery := `
        UPDATE sales SET total = :total, updated_at = :updated_at
        WHERE id = :id AND user_id = :user_id
    `
	res, err := db.NamedExecContext(ctx, headerQuery, s)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sale.ErrSaleNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, userID, id string) error {
	db := database.Conn(ctx, r.DB)

	if _, err := db.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, id); err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sale.ErrSaleNotFound
	}
	return nil
}
