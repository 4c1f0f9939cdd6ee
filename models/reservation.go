package models

import (
	"time"
)

// Reservation represents a party's booking at the restaurant
type Reservation struct {
	ID              uint      `gorm:"primaryKey;column:reservation_id" json:"reservation_id"`
	FirstName       string    `gorm:"not null" json:"first_name"`
	LastName        string    `gorm:"not null" json:"last_name"`
	MobileNumber    string    `gorm:"not null" json:"mobile_number"`
	ReservationDate string    `gorm:"type:varchar(10);not null;index" json:"reservation_date"` // YYYY-MM-DD, restaurant-local
	ReservationTime string    `gorm:"type:varchar(5);not null" json:"reservation_time"`        // HH:MM, 24-hour
	People          int       `gorm:"not null;check:people > 0" json:"people"`
	Status          Status    `gorm:"type:varchar(20);not null;default:'booked';index" json:"status"` // booked, seated, finished, cancelled
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Table is the table this reservation is seated at, if any. The foreign
	// key lives on tables.reservation_id.
	Table *Table `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for the Reservation model
func (Reservation) TableName() string {
	return "reservations"
}
