package models

import (
	"time"
)

// Table represents a physical dining table and the reservation seated at it
type Table struct {
	ID            uint      `gorm:"primaryKey;column:table_id" json:"table_id"`
	Name          string    `gorm:"column:table_name;not null;index" json:"table_name"`
	Capacity      int       `gorm:"not null;check:capacity > 0" json:"capacity"`
	ReservationID *uint     `gorm:"index" json:"reservation_id"` // nullable, set while a reservation is seated here
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Table model
func (Table) TableName() string {
	return "tables"
}

// Occupied reports whether a reservation is currently seated at the table.
func (t *Table) Occupied() bool {
	return t.ReservationID != nil
}

// Occupy points the table at the given reservation.
func (t *Table) Occupy(reservationID uint) {
	id := reservationID
	t.ReservationID = &id
}

// Free clears the table's occupant.
func (t *Table) Free() {
	t.ReservationID = nil
}
