package sale

import (
	"github.com/fekuna/omnipos-dashboard/internal/inventory"
	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
)

var (
	ErrSaleNotFound      = apperror.NotFound("sale_not_found", "sale not found")
	ErrSaleItemNotFound  = apperror.NotFound("sale_item_not_found", "sale item not found")
	ErrTotalMismatch     = apperror.Validation("sale_total_mismatch", "sale total does not match item prices")
	ErrInsufficientStock = inventory.ErrInsufficientStock
)

func SaleItemNotFound(id string) error {
	return ErrSaleItemNotFound.WithData(map[string]interface{}{"ID": id})
}
