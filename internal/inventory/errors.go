package inventory

import "github.com/fekuna/omnipos-dashboard/pkg/apperror"

var (
	ErrInsufficientStock = apperror.InsufficientStock("insufficient_stock", "insufficient stock")
	ErrStockConflict     = apperror.Conflict("stock_conflict", "stock changed concurrently")
)

// InsufficientStock names the product and what is left of it.
func InsufficientStock(name string, available int) error {
	return ErrInsufficientStock.WithData(map[string]interface{}{
		"Name":      name,
		"Available": available,
	})
}
