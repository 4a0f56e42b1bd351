package models

// Reservation statuses accepted by staff. A fresh request has no status.
const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

// Reservation is a customer's table request. Date is YYYY-MM-DD and Time is
// HH:MM so both sort and compare as text.
type Reservation struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Name    string  `gorm:"type:varchar(255);not null" json:"name"`
	Phone   string  `gorm:"type:varchar(50)" json:"phone"`
	Date    string  `gorm:"type:varchar(10);not null;index:idx_reservation_slot,priority:1" json:"date"`
	Time    string  `gorm:"type:varchar(5);not null;index:idx_reservation_slot,priority:3" json:"time"`
	TableNo *int    `gorm:"index:idx_reservation_slot,priority:2" json:"table_no"`
	People  int     `gorm:"not null" json:"people"`
	Status  *string `gorm:"type:varchar(20)" json:"status,omitempty"`
}
