package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/reservations-api/apperrors"
	"github.com/kendall-kelly/reservations-api/events"
	"github.com/kendall-kelly/reservations-api/models"
	"github.com/kendall-kelly/reservations-api/store"
	"github.com/kendall-kelly/reservations-api/validation"
)

// ReservationQuery holds the optional list filters. Empty fields are ignored.
type ReservationQuery struct {
	Date         string
	MobileNumber string
}

// ReservationService runs the reservation workflow: create, edit and status
// changes that do not involve a table.
type ReservationService struct {
	store    store.Store
	calendar validation.Calendar
	notifier notifier
}

// NewReservationService builds a ReservationService. A nil publisher discards events.
func NewReservationService(st store.Store, cal validation.Calendar, pub events.Publisher) *ReservationService {
	return &ReservationService{store: st, calendar: cal, notifier: newNotifier(pub)}
}

// List returns reservations ordered by date then time. A date filter hides
// finished reservations; a mobile filter matches on digits only.
func (s *ReservationService) List(ctx context.Context, q ReservationQuery) ([]models.Reservation, error) {
	filter := store.ReservationFilter{}
	if q.Date != "" {
		if _, err := validation.ParseDate(q.Date); err != nil {
			return nil, err
		}
		filter.Date = q.Date
		filter.ExcludeStatus = []models.Status{models.StatusFinished}
	}

	var digits string
	if q.MobileNumber != "" {
		digits = validation.DigitsOnly(q.MobileNumber)
		if digits == "" {
			return []models.Reservation{}, nil
		}
	}

	reservations, err := s.store.ListReservations(ctx, filter)
	if err != nil {
		return nil, err
	}
	if digits == "" {
		return reservations, nil
	}

	matched := make([]models.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if strings.Contains(validation.DigitsOnly(r.MobileNumber), digits) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// Get returns one reservation or a not-found error.
func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	return getReservation(ctx, s.store, id)
}

// Create validates the payload and stores a new booked reservation.
func (s *ReservationService) Create(ctx context.Context, p validation.Payload) (*models.Reservation, error) {
	if err := validation.Run(p, validation.ReservationRules(s.calendar)...); err != nil {
		return nil, err
	}
	req := validation.DecodeReservation(p)

	r := &models.Reservation{Status: models.StatusBooked}
	applyReservation(r, req)
	if err := s.store.InsertReservation(ctx, r); err != nil {
		return nil, err
	}

	recordTransition(r.ID, "", models.StatusBooked)
	s.notifier.publish(ctx, events.ReservationCreated, r, nil)
	return r, nil
}

// Update replaces the details of a booked reservation. Its status is kept.
func (s *ReservationService) Update(ctx context.Context, id uint, p validation.Payload) (*models.Reservation, error) {
	var updated *models.Reservation
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		r, err := getReservation(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := models.CheckEditable(r); err != nil {
			return err
		}
		if err := validation.Run(p, validation.ReservationRules(s.calendar)...); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		applyReservation(r, validation.DecodeReservation(p))
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.publish(ctx, events.ReservationUpdated, updated, nil)
	return updated, nil
}

// UpdateStatus applies a status change that does not need a table choice:
// booked to cancelled, or seated to finished (which frees its table).
// Seating goes through TableService.Seat.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uint, p validation.Payload) (*models.Reservation, error) {
	var (
		updated *models.Reservation
		from    models.Status
		freed   *models.Table
	)
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		// the table row is locked before the reservation row, matching Seat and Unseat
		table, err := tx.FindTableByReservation(ctx, id)
		if err != nil && !isNotFound(err) {
			return err
		}
		r, err := getReservation(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := validation.Run(p, validation.StatusRules()...); err != nil {
			return err
		}
		next, err := models.ParseStatus(p.String("status"))
		if err != nil {
			return err
		}
		if err := models.CheckTransition(r.ID, r.Status, next); err != nil {
			return err
		}
		if next == models.StatusSeated {
			return apperrors.Conflict("Reservation %d must be seated at a table. Use PUT /tables/:table_id/seat instead.", r.ID)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		from = r.Status
		r.Status = next
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		if next == models.StatusFinished && table != nil {
			table.Free()
			if err := tx.UpdateTable(ctx, table); err != nil {
				return err
			}
			freed = table
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordTransition(updated.ID, from, updated.Status)
	key := events.ReservationCancelled
	if updated.Status == models.StatusFinished {
		key = events.ReservationFinished
	}
	s.notifier.publish(ctx, key, updated, freed)
	return updated, nil
}

func getReservation(ctx context.Context, st store.Store, id uint) (*models.Reservation, error) {
	r, err := st.GetReservation(ctx, id)
	if isNotFound(err) {
		return nil, apperrors.NotFound("Reservation %d cannot be found.", id)
	}
	return r, err
}

func applyReservation(r *models.Reservation, req validation.ReservationRequest) {
	r.FirstName = req.FirstName
	r.LastName = req.LastName
	r.MobileNumber = req.MobileNumber
	r.ReservationDate = req.Date
	r.ReservationTime = req.Time
	r.People = req.People
}
