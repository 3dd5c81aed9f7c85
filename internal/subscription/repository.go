package subscription

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/model"
)

type Repository interface {
	FindByUserID(ctx context.Context, userID string) (*model.Subscription, error)
	// Upsert is keyed by user id; s.ID and s.CreatedAt are refreshed from the stored row.
	Upsert(ctx context.Context, s *model.Subscription) error
	// RecordEvent reports false when the event id was already processed.
	RecordEvent(ctx context.Context, e *model.PaymentEvent) (bool, error)
}
