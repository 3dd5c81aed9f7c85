package model

import "github.com/shopspring/decimal"

const (
	UnitCount  = "unit"
	UnitWeight = "weight"
)

type Product struct {
	BaseModel
	UserID   string          `db:"user_id" json:"userId"`
	Name     string          `db:"name" json:"name"`
	Code     string          `db:"code" json:"code"`
	Price    decimal.Decimal `db:"price" json:"price"`
	Unit     string          `db:"unit" json:"unit"`
	Category string          `db:"category" json:"category"`
	Stock    int             `db:"stock" json:"stock"`
	IsActive bool            `db:"is_active" json:"isActive"`
}

func IsValidUnit(unit string) bool {
	return unit == UnitCount || unit == UnitWeight
}

// CategorySummary is one distinct category of a user's active catalog.
type CategorySummary struct {
	Name         string `db:"name" json:"name"`
	ProductCount int    `db:"product_count" json:"productCount"`
}
