package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/user"
	"github.com/fekuna/omnipos-dashboard/pkg/database"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (id, email, password_hash, name, business_name, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :name, :business_name, :created_at, :updated_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, u)
	if database.IsUniqueViolation(err, "users_email_key") {
		return user.ErrEmailTaken
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE id = $1`, id)
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE email = $1`, email)
}

func (r *PGRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE reset_token_hash = $1`, tokenHash)
}

func (r *PGRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	var u model.User
	err := database.Conn(ctx, r.DB).GetContext(ctx, &u, query+" LIMIT 1", args...)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	query := `
        UPDATE users
        SET name = :name,
            business_name = :business_name,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, u)
	if err != nil {
		return err
	}
	return expectOne(res.RowsAffected())
}

func (r *PGRepository) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	query := `
        UPDATE users
        SET reset_token_hash = $2, reset_token_expires_at = $3, updated_at = NOW()
        WHERE id = $1
    `
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, userID, tokenHash, expiresAt)
	if err != nil {
		return err
	}
	return expectOne(res.RowsAffected())
}

func (r *PGRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `
        UPDATE users
        SET password_hash = $2,
            reset_token_hash = NULL,
            reset_token_expires_at = NULL,
            updated_at = NOW()
        WHERE id = $1
    `
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, userID, passwordHash)
	if err != nil {
		return err
	}
	return expectOne(res.RowsAffected())
}

func expectOne(rows int64, err error) error {
	if err != nil {
		return err
	}
	if rows == 0 {
		return user.ErrUserNotFound
	}
	if rows != 1 {
		return fmt.Errorf("expected 1 row affected, got %d", rows)
	}
	return nil
}
