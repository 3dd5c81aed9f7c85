package dto

import "github.com/shopspring/decimal"

type CreateSaleInput struct {
	UserID string
	// Total is the client's own computation; zero skips the check.
	Total decimal.Decimal
	Items []CreateItemInput
}

type CreateItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateSaleInput struct {
	ID     string
	UserID string
	Items  []UpdateItemInput
}

// UpdateItemInput edits one line. A nil field keeps the stored value.
type UpdateItemInput struct {
	ID        string           `json:"id"`
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}
