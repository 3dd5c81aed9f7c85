package subscription

import "github.com/fekuna/omnipos-dashboard/pkg/apperror"

var (
	ErrSubscriptionRequired = apperror.PaymentRequired("subscription_required", "an active subscription is required")
	ErrTestDisabled         = apperror.NotFound("not_found", "test subscriptions are disabled")
	ErrUnknownAccount       = apperror.NotFound("account_not_found", "no account matches the subscription reference")
)
