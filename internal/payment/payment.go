package payment

import "github.com/fekuna/omnipos-dashboard/pkg/apperror"

// Payment statuses reported by the provider.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

var (
	ErrProviderUnavailable = apperror.External("payment_provider_failed", "payment provider request failed")
	ErrPaymentNotFound     = apperror.NotFound("payment_not_found", "payment not found")
)

// Preference is a hosted checkout session.
type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

type Payment struct {
	ID                string `json:"-"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
}

func (p *Payment) IsApproved() bool {
	return p != nil && p.Status == StatusApproved
}
