package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

type Subscription struct {
	BaseModel
	UserID            string             `db:"user_id" json:"userId"`
	Status            SubscriptionStatus `db:"status" json:"status"`
	CurrentPeriodEnd  time.Time          `db:"current_period_end" json:"currentPeriodEnd"`
	ProviderReference string             `db:"provider_reference" json:"providerReference,omitempty"`
}

// IsEntitled is true only while the subscription is active and its period
// end is strictly after now.
func (s *Subscription) IsEntitled(now time.Time) bool {
	if s == nil {
		return false
	}
	return s.Status == SubscriptionActive && s.CurrentPeriodEnd.After(now)
}

// PaymentEvent records a processed provider notification for deduplication.
type PaymentEvent struct {
	EventID     string    `db:"event_id"`
	UserID      string    `db:"user_id"`
	Status      string    `db:"status"`
	ProcessedAt time.Time `db:"processed_at"`
}
