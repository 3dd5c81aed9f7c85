package subscription

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/payment"
)

// Provider is the hosted checkout the subscription flow depends on.
type Provider interface {
	PublicKey() string
	CreatePreference(ctx context.Context, userID string) (*payment.Preference, error)
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
}
