package validation

import (
	"strings"

	"github.com/kendall-kelly/reservations-api/apperrors"
)

// MinTableNameLength is the shortest table name accepted after trimming.
const MinTableNameLength = 2

// TableFields are the only field names a table payload may carry.
var TableFields = []string{
	"table_id",
	"table_name",
	"capacity",
	"reservation_id",
	"created_at",
	"updated_at",
}

// TableRequest is the typed form of a validated table payload.
type TableRequest struct {
	Name     string
	Capacity int
}

// TableRules returns the ordered checks applied when a table is created or edited.
func TableRules() []Rule {
	return []Rule{
		OnlyFields(TableFields...),
		RequireFields("table_name", "capacity"),
		StringFields("table_name"),
		ValidCapacity,
		ValidTableName,
	}
}

// DecodeTable converts a payload that already passed TableRules.
func DecodeTable(p Payload) TableRequest {
	capacity, _ := p.Int("capacity")
	return TableRequest{
		Name:     strings.TrimSpace(p.String("table_name")),
		Capacity: capacity,
	}
}

// ValidCapacity requires an integer capacity of at least 1.
func ValidCapacity(p Payload) error {
	capacity, ok := p.Int("capacity")
	if !ok || capacity <= 0 {
		return apperrors.Invalid("Invalid table capacity: %s. Capacity must be at least 1.", p.String("capacity"))
	}
	return nil
}

// ValidTableName requires at least two characters once surrounding space is trimmed.
func ValidTableName(p Payload) error {
	name := strings.TrimSpace(p.String("table_name"))
	if len([]rune(name)) < MinTableNameLength {
		return apperrors.Invalid("Invalid table_name: %s. Table name must have at least 2 characters.", name)
	}
	return nil
}

// NoOccupant rejects a payload that tries to assign an occupant directly.
// Occupancy only changes through seating.
func NoOccupant(p Payload) error {
	if p.Present("reservation_id") {
		return apperrors.Invalid("reservation_id cannot be set directly; seat the reservation at the table instead.")
	}
	return nil
}

// SeatRules returns the checks applied to a seat request body.
func SeatRules() []Rule {
	return []Rule{
		OnlyFields("reservation_id"),
		RequireFields("reservation_id"),
		validReservationID,
	}
}

// DecodeSeat returns the reservation id of a payload that passed SeatRules.
func DecodeSeat(p Payload) uint {
	id, _ := p.Int("reservation_id")
	return uint(id)
}

func validReservationID(p Payload) error {
	id, ok := p.Int("reservation_id")
	if !ok || id <= 0 {
		return apperrors.Invalid("Missing valid reservation_id")
	}
	return nil
}

// StatusRules returns the checks applied to a status change body.
func StatusRules() []Rule {
	return []Rule{
		OnlyFields("status"),
		RequireFields("status"),
	}
}
