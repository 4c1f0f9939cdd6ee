package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/reservations-api/apperrors"
)

const (
	// DateLayout is the wire and storage format of reservation_date.
	DateLayout = "2006-01-02"
	// TimeLayout is the storage format of reservation_time.
	TimeLayout = "15:04"

	// OpeningTime and LastSeating bound the bookable window, as HHMM.
	OpeningTime = 1030
	LastSeating = 2130
	// ClosedDay is the weekday the restaurant does not take reservations.
	ClosedDay = time.Tuesday
)

// ReservationFields are the only field names a reservation payload may carry.
var ReservationFields = []string{
	"reservation_id",
	"first_name",
	"last_name",
	"mobile_number",
	"reservation_date",
	"reservation_time",
	"people",
	"status",
	"created_at",
	"updated_at",
}

var (
	timePattern = regexp.MustCompile(`^([0-9]|0[0-9]|1[0-9]|2[0-3]):[0-5][0-9]$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ReservationRequest is the typed form of a validated reservation payload.
type ReservationRequest struct {
	FirstName    string
	LastName     string
	MobileNumber string
	Date         string // YYYY-MM-DD
	Time         string // HH:MM, zero padded
	People       int
}

// ReservationRules returns the ordered checks applied when a reservation is
// created or fully updated.
func ReservationRules(cal Calendar) []Rule {
	return []Rule{
		OnlyFields(ReservationFields...),
		RequireFields("first_name", "last_name", "mobile_number", "reservation_date", "reservation_time", "people"),
		StringFields("first_name", "last_name", "mobile_number", "reservation_date", "reservation_time"),
		ValidDateTime(cal),
		ValidPeople,
		NotClosedDay,
		NotInPast(cal),
		WithinOpeningHours,
		StatusIsBooked,
	}
}

// DecodeReservation converts a payload that already passed ReservationRules.
func DecodeReservation(p Payload) ReservationRequest {
	people, _ := p.Int("people")
	return ReservationRequest{
		FirstName:    p.String("first_name"),
		LastName:     p.String("last_name"),
		MobileNumber: p.String("mobile_number"),
		Date:         p.String("reservation_date"),
		Time:         NormalizeTime(p.String("reservation_time")),
		People:       people,
	}
}

// ValidPeople requires the party size to be an integer of at least 1.
func ValidPeople(p Payload) error {
	people, ok := p.Int("people")
	if !ok || people <= 0 {
		return apperrors.Invalid("The number of people entered is invalid. Number of people must be at least 1")
	}
	return nil
}

// ValidDateTime requires an H:MM or HH:MM 24-hour time and a real calendar date.
func ValidDateTime(cal Calendar) Rule {
	return func(p Payload) error {
		_, err := reservationMoment(p, cal)
		return err
	}
}

// NotClosedDay rejects reservations on the restaurant's closed weekday.
// The weekday is taken from the calendar date itself (UTC).
func NotClosedDay(p Payload) error {
	date, err := ParseDate(p.String("reservation_date"))
	if err != nil {
		return err
	}
	if date.Weekday() == ClosedDay {
		return apperrors.Invalid("Reservations cannot be made for Tuesdays, as the restaurant is closed.")
	}
	return nil
}

// NotInPast requires the combined restaurant-local date and time to be
// strictly later than now.
func NotInPast(cal Calendar) Rule {
	return func(p Payload) error {
		moment, err := reservationMoment(p, cal)
		if err != nil {
			return err
		}
		if !moment.After(cal.CurrentTime()) {
			return apperrors.Invalid("Reservations must be made for a future date/time.")
		}
		return nil
	}
}

// WithinOpeningHours requires 10:30 <= time <= 21:30.
func WithinOpeningHours(p Payload) error {
	raw := p.String("reservation_time")
	hhmm, err := strconv.Atoi(strings.Replace(raw, ":", "", 1))
	if err != nil {
		return apperrors.Invalid("reservation_time %s is not a valid time", raw)
	}
	if hhmm < OpeningTime {
		return apperrors.Invalid("Reservation must be no earlier than 10:30am.")
	}
	if hhmm > LastSeating {
		return apperrors.Invalid("Reservation must be no later than 9:30pm.")
	}
	return nil
}

// StatusIsBooked rejects a supplied status other than "booked"; reservations
// cannot be written directly into a later lifecycle state.
func StatusIsBooked(p Payload) error {
	if !p.Has("status") {
		return nil
	}
	if status := p.String("status"); status != "booked" {
		return apperrors.Invalid("A new or edited reservation must have a status of booked, not %s.", status)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date (UTC midnight).
func ParseDate(raw string) (time.Time, error) {
	if !datePattern.MatchString(raw) {
		return time.Time{}, apperrors.Invalid("reservation_date %s is not a valid date", raw)
	}
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, apperrors.Invalid("reservation_date %s is not a valid date", raw)
	}
	return date, nil
}

// NormalizeTime zero-pads an H:MM time to HH:MM; other input is returned as is.
func NormalizeTime(raw string) string {
	if len(raw) == 4 && timePattern.MatchString(raw) {
		return "0" + raw
	}
	return raw
}

func reservationMoment(p Payload, cal Calendar) (time.Time, error) {
	rawTime := p.String("reservation_time")
	if !timePattern.MatchString(rawTime) {
		return time.Time{}, apperrors.Invalid("reservation_time %s is not a valid time", rawTime)
	}
	rawDate := p.String("reservation_date")
	if _, err := ParseDate(rawDate); err != nil {
		return time.Time{}, err
	}
	moment, err := time.ParseInLocation(DateLayout+" "+TimeLayout, rawDate+" "+NormalizeTime(rawTime), cal.location())
	if err != nil {
		return time.Time{}, apperrors.Invalid("reservation_date %s is not a valid date", rawDate)
	}
	return moment, nil
}
