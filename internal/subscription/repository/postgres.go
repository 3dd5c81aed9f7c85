package repository

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/subscription"
	"github.com/fekuna/omnipos-dashboard/pkg/database"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

var _ subscription.Repository = (*PGRepository)(nil)

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	var s model.Subscription
	err := database.Conn(ctx, r.DB).GetContext(ctx, &s, `SELECT * FROM subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) Upsert(ctx context.Context, s *model.Subscription) error {
	query := `
        INSERT INTO subscriptions (id, user_id, status, current_period_end, provider_reference, created_at, updated_at)
        VALUES (:id, :user_id, :status, :current_period_end, :provider_reference, :created_at, :updated_at)
        ON CONFLICT (user_id) DO UPDATE
        SET status = EXCLUDED.status,
            current_period_end = EXCLUDED.current_period_end,
            provider_reference = EXCLUDED.provider_reference,
            updated_at = EXCLUDED.updated_at
        RETURNING id, created_at
    `
	q, args, err := sqlx.Named(query, s)
	if err != nil {
		return err
	}
	conn := database.Conn(ctx, r.DB)
	err = conn.QueryRowxContext(ctx, conn.Rebind(q), args...).Scan(&s.ID, &s.CreatedAt)
	if database.IsForeignKeyViolation(err) {
		return subscription.ErrUnknownAccount
	}
	return err
}

func (r *PGRepository) RecordEvent(ctx context.Context, e *model.PaymentEvent) (bool, error) {
	query := `
        INSERT INTO payment_events (event_id, user_id, status, processed_at)
        VALUES (:event_id, :user_id, :status, :processed_at)
        ON CONFLICT (event_id) DO NOTHING
    `
	res, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, e)
	if database.IsForeignKeyViolation(err) {
		return false, subscription.ErrUnknownAccount
	}
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
