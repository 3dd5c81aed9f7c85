package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	UserID   string
	Name     string
	Code     string
	Price    *decimal.Decimal
	Unit     string
	Category string
	Stock    *int
}

// UpdateProductInput is a partial update: nil fields are left unchanged.
type UpdateProductInput struct {
	ID       string
	UserID   string
	Name     *string
	Code     *string
	Price    *decimal.Decimal
	Unit     *string
	Category *string
	Stock    *int
	IsActive *bool
}

type PriceChange struct {
	ID    string          `json:"id"`
	Price decimal.Decimal `json:"price"`
}
