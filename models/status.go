package models

import (
	"strings"

	"github.com/kendall-kelly/reservations-api/apperrors"
)

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusSeated    Status = "seated"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every legal reservation status.
var Statuses = []Status{StatusBooked, StatusSeated, StatusFinished, StatusCancelled}

// transitions holds the legal edges of the reservation state machine.
// finished and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusBooked:    {StatusSeated, StatusCancelled},
	StatusSeated:    {StatusFinished},
	StatusFinished:  {},
	StatusCancelled: {},
}

// ParseStatus converts s into a Status, rejecting anything outside the legal set.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := transitions[status]; !ok {
		return "", apperrors.Invalid("Invalid status: %q. Status must be one of %s.", s, joinStatuses(Statuses))
	}
	return status, nil
}

// IsTerminal reports whether no transition may originate from s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is a legal edge.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CheckTransition returns nil when reservation id may move from its current
// status to next, otherwise an error naming the conflicting current status.
func CheckTransition(id uint, from, next Status) error {
	switch {
	case from == StatusFinished:
		return apperrors.Conflict("Reservation %d is finished. A finished reservation cannot be updated.", id)
	case from == StatusCancelled:
		return apperrors.Conflict("Reservation %d has been cancelled. A cancelled reservation cannot be updated.", id)
	case from == next:
		return apperrors.Conflict("Reservation %d is already %s.", id, from)
	case !from.CanTransitionTo(next):
		return apperrors.Invalid("Invalid status change for reservation %d from %s to %s. Allowed: %s.",
			id, from, next, joinStatuses(transitions[from]))
	}
	return nil
}

// CheckSeatable returns nil when r can be seated at a table.
func CheckSeatable(r *Reservation) error {
	switch r.Status {
	case StatusBooked:
		return nil
	case StatusSeated:
		return apperrors.Conflict("Reservation %d is already seated.", r.ID)
	case StatusFinished:
		return apperrors.Conflict("Reservation %d is already finished and cannot be seated.", r.ID)
	case StatusCancelled:
		return apperrors.Conflict("Reservation %d has been cancelled and cannot be seated.", r.ID)
	}
	return apperrors.Conflict("Reservation %d has unknown status %q.", r.ID, r.Status)
}

// CheckEditable returns nil when r may receive a full update. Only booked
// reservations can be edited.
func CheckEditable(r *Reservation) error {
	switch r.Status {
	case StatusBooked:
		return nil
	case StatusFinished:
		return apperrors.Conflict("A finished reservation cannot be updated.")
	case StatusCancelled:
		return apperrors.Conflict("A cancelled reservation cannot be updated.")
	default:
		return apperrors.Conflict("A %s reservation cannot be updated.", r.Status)
	}
}

func joinStatuses(statuses []Status) string {
	if len(statuses) == 0 {
		return "none"
	}
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
