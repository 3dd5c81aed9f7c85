package dto

type MovementFilters struct {
	UserID    string
	ProductID string
	Page      int
	PageSize  int
}
