package dto

type ProductFilters struct {
	UserID      string `json:"userId"`
	Category    string `json:"category,omitempty"`
	SearchQuery string `json:"q,omitempty"` // name or code
}
