package sale

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventCreated = "sale.created"
	EventUpdated = "sale.updated"
	EventDeleted = "sale.deleted"
)

// Publisher receives sale events after the change is committed.
// *broker.KafkaProducer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type Event struct {
	Type       string          `json:"type"`
	SaleID     string          `json:"saleId"`
	UserID     string          `json:"userId"`
	Total      decimal.Decimal `json:"total"`
	Items      []EventItem     `json:"items,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type EventItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}
