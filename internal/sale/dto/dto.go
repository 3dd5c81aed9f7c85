package dto

type SaleFilters struct {
	UserID   string
	Page     int
	PageSize int
}
