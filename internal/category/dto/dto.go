package dto

type CategoryFilters struct {
	UserID      string
	WithinStock bool // only categories with at least one product in stock
}
