package dto

import "github.com/shopspring/decimal"

const DateLayout = "2006-01-02"

// DailyReportRow is one product's activity on a calendar day.
type DailyReportRow struct {
	ProductID      string          `db:"product_id" json:"productId"`
	Name           string          `db:"name" json:"name"`
	QuantitySold   int64           `db:"quantity_sold" json:"quantitySold"`
	Revenue        decimal.Decimal `db:"revenue" json:"revenue"`
	RemainingStock int             `db:"remaining_stock" json:"remainingStock"`
}

type DailyReport struct {
	Date string           `json:"date"`
	Rows []DailyReportRow `json:"rows"`
}

type DailyTotal struct {
	Date  string          `db:"day" json:"date"`
	Total decimal.Decimal `db:"total" json:"total"`
}

type TopProduct struct {
	ProductID    string          `db:"product_id" json:"productId"`
	Name         string          `db:"name" json:"name"`
	QuantitySold int64           `db:"quantity_sold" json:"quantitySold"`
	Revenue      decimal.Decimal `db:"revenue" json:"revenue"`
}

type Summary struct {
	Revenue       decimal.Decimal `db:"revenue" json:"revenue"`
	SalesCount    int             `db:"sales_count" json:"salesCount"`
	AverageTicket decimal.Decimal `db:"-" json:"averageTicket"`
}

type Analytics struct {
	SalesByDate []DailyTotal `json:"salesByDate"`
	TopProducts []TopProduct `json:"topProducts"`
	Summary     Summary      `json:"summary"`
}

type AnalyticsFilters struct {
	UserID    string
	RangeDays int
	Limit     int
}
