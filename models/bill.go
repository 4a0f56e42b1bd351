package models

import (
	"time"

	"gorm.io/datatypes"
)

// BillItem is the snapshot of one cart line stored inside a bill.
type BillItem struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price times quantity.
func (i BillItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Bill is immutable once written. Items keeps a copy of name and price so later
// menu edits never touch it.
type Bill struct {
	ID       uint                          `gorm:"primaryKey" json:"id"`
	TableNo  int                           `gorm:"not null" json:"table_no"`
	BillTime time.Time                     `gorm:"not null" json:"bill_time"`
	Items    datatypes.JSONSlice[BillItem] `json:"items"`
	Total    float64                       `gorm:"type:decimal(12,2);not null" json:"total"`
}
