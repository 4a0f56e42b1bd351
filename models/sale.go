package models

// Sale is one bill line expanded for reporting. SaleDate is YYYY-MM-DD.
type Sale struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	SaleDate   string  `gorm:"type:varchar(10);not null;index;index:idx_sales_date_menu,priority:1" json:"sale_date"`
	MenuID     uint    `gorm:"not null;index;index:idx_sales_date_menu,priority:2" json:"menu_id"`
	Quantity   int     `gorm:"not null" json:"quantity"`
	TotalPrice float64 `gorm:"type:decimal(12,2);not null" json:"total_price"`
}

// DailySales is the rollup for one date. Both fields are zero when nothing sold.
type DailySales struct {
	Date  string  `json:"date"`
	Qty   int64   `json:"qty"`
	Total float64 `json:"total"`
}

// MonthlySales is the rollup for one calendar month.
type MonthlySales struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Qty   int64   `json:"qty"`
	Total float64 `json:"total"`
}

// MenuSales is the quantity and revenue of a single menu item.
type MenuSales struct {
	MenuID uint    `json:"menu_id"`
	Qty    int64   `json:"qty"`
	Total  float64 `json:"total"`
}
