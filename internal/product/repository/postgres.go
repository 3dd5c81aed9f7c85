package repository

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/product"
	"github.com/fekuna/omnipos-dashboard/internal/product/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/database"
	"github.com/jmoiron/sqlx"
)

const codeIndex = "products_user_code_active_key"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, user_id, name, code, price, unit, category,
            stock, is_active, created_at, updated_at
        )
        VALUES (
            :id, :user_id, :name, :code, :price, :unit, :category,
            :stock, :is_active, :created_at, :updated_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	if database.IsUniqueViolation(err, codeIndex) {
		return product.CodeTaken(p.Code)
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, userID, id string) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE id = $1 AND user_id = $2 LIMIT 1`
	err := database.Conn(ctx, r.DB).GetContext(ctx, &p, query, id, userID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindActiveByIDs(ctx context.Context, userID string, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT * FROM products
        WHERE user_id = ? AND is_active AND id IN (?)
    `, userID, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var items []model.Product
	err = database.Conn(ctx, r.DB).SelectContext(ctx, &items, query, args...)
	return items, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, error) {
	conditions := []string{"user_id = :user_id", "is_active"}
	args := map[string]interface{}{"user_id": f.UserID}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR code ILIKE :search)")
		args["search"] = "%" + escapeLike(f.SearchQuery) + "%"
	}

	query, bound, err := sqlx.Named(
		"SELECT * FROM products WHERE "+strings.Join(conditions, " AND ")+" ORDER BY name, code",
		args,
	)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	products := []model.Product{}
	if err := database.Conn(ctx, r.DB).SelectContext(ctx, &products, query, bound...); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            code = :code,
            price = :price,
            unit = :unit,
            category = :category,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND user_id = :user_id
    `
	res, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	if database.IsUniqueViolation(err, codeIndex) {
		return product.CodeTaken(p.Code)
	}
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

func (r *PGRepository) SetActive(ctx context.Context, userID, id string, active bool) (bool, error) {
	query := `UPDATE products SET is_active = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, id, userID, active)
	if database.IsUniqueViolation(err, codeIndex) {
		return false, product.ErrCodeTaken
	}
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

func (r *PGRepository) UpdatePrice(ctx context.Context, userID string, change dto.PriceChange) (bool, error) {
	query := `UPDATE products SET price = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2 AND is_active`
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, change.ID, userID, change.Price)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

func (r *PGRepository) IsCodeUnique(ctx context.Context, userID, code, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE user_id = $1 AND code = $2 AND is_active`
	args := []interface{}{userID, code}
	if excludeID != "" {
		query += ` AND id != $3`
		args = append(args, excludeID)
	}

	err := database.Conn(ctx, r.DB).GetContext(ctx, &count, query, args...)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
