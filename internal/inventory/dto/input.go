package dto

type StockAdjustment struct {
	ProductID   string
	UserID      string
	Delta       int
	Reason      string  // model.Movement*
	ReferenceID *string // sale id for sale movements
}

type AdjustStockInput struct {
	UserID    string
	ProductID string
	Change    int
}
