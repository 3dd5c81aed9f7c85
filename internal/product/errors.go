package product

import "github.com/fekuna/omnipos-dashboard/pkg/apperror"

var (
	ErrProductNotFound  = apperror.NotFound("product_not_found", "product not found")
	ErrCodeTaken        = apperror.Validation("product_code_taken", "product code already in use")
	ErrPriceBatchFailed = apperror.Validation("price_batch_rejected", "price batch rejected")
)

func CodeTaken(code string) error {
	return ErrCodeTaken.WithData(map[string]interface{}{"Code": code})
}

func PriceBatchRejected(id string) error {
	return ErrPriceBatchFailed.WithData(map[string]interface{}{"ID": id})
}
