package subscription

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/subscription/dto"
)

type UseCase interface {
	CreateCheckout(ctx context.Context, userID string) (*dto.Checkout, error)
	HandleNotification(ctx context.Context, n *dto.Notification) error
	HandleRedirect(ctx context.Context, in *dto.RedirectInput) dto.RedirectOutcome
	Confirm(ctx context.Context, userID, eventID string) (*model.Subscription, error)
	Check(ctx context.Context, userID string) (*dto.CheckResult, error)
	IsEntitled(ctx context.Context, userID string) (bool, error)
	CreateTest(ctx context.Context, userID string) (*model.Subscription, error)
}
