package dto

import "github.com/fekuna/omnipos-dashboard/internal/model"

// NotificationPayment is the only provider topic that confirms subscriptions.
const NotificationPayment = "payment"

type Checkout struct {
	CheckoutID string `json:"checkoutId"`
	PublicKey  string `json:"publicKey"`
	InitPoint  string `json:"initPoint,omitempty"`
}

// Notification is a provider webhook reduced to what is needed to look the
// payment up.
type Notification struct {
	Type      string
	PaymentID string
}

type RedirectInput struct {
	Status    string
	UserID    string
	PaymentID string
}

type RedirectOutcome string

const (
	OutcomeSuccess RedirectOutcome = "success"
	OutcomePending RedirectOutcome = "pending"
	OutcomeError   RedirectOutcome = "error"
)

type CheckResult struct {
	HasActiveSubscription bool                `json:"hasActiveSubscription"`
	Subscription          *model.Subscription `json:"subscription,omitempty"`
}
