package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	BaseModel
	UserID string          `db:"user_id" json:"userId"`
	Total  decimal.Decimal `db:"total" json:"total"`
	Items  []SaleItem      `db:"-" json:"items"`
}

type SaleItem struct {
	ID        string          `db:"id" json:"id"`
	SaleID    string          `db:"sale_id" json:"saleId"`
	ProductID string          `db:"product_id" json:"productId"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unitPrice"`
	Subtotal  decimal.Decimal `db:"subtotal" json:"subtotal"`
	Product   *ProductSummary `db:"-" json:"product,omitempty"`
}

// ProductSummary is the product as joined into historical sales, inactive
// products included.
type ProductSummary struct {
	ID       string          `db:"id" json:"id"`
	Name     string          `db:"name" json:"name"`
	Code     string          `db:"code" json:"code"`
	Price    decimal.Decimal `db:"price" json:"price"`
	Unit     string          `db:"unit" json:"unit"`
	IsActive bool            `db:"is_active" json:"isActive"`
}

// LineSubtotal is quantity × unit price.
func LineSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// RecomputeTotal sets every item subtotal and the sale total from the items.
func (s *Sale) RecomputeTotal() {
	total := decimal.Zero
	for i := range s.Items {
		s.Items[i].Subtotal = LineSubtotal(s.Items[i].Quantity, s.Items[i].UnitPrice)
		total = total.Add(s.Items[i].Subtotal)
	}
	s.Total = total
}

type StockMovement struct {
	ID             string    `db:"id" json:"id"`
	ProductID      string    `db:"product_id" json:"productId"`
	UserID         string    `db:"user_id" json:"userId"`
	QuantityChange int       `db:"quantity_change" json:"quantityChange"`
	QuantityAfter  int       `db:"quantity_after" json:"quantityAfter"`
	Reason         string    `db:"reason" json:"reason"`
	ReferenceID    *string   `db:"reference_id" json:"referenceId"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

const (
	MovementSale       = "sale"
	MovementSaleEdit   = "sale_edit"
	MovementSaleDelete = "sale_delete"
	MovementManual     = "manual_adjustment"
	MovementCatalog    = "catalog_edit"
)
