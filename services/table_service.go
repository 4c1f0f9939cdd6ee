package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/kendall-kelly/reservations-api/apperrors"
	"github.com/kendall-kelly/reservations-api/events"
	"github.com/kendall-kelly/reservations-api/models"
	"github.com/kendall-kelly/reservations-api/store"
	"github.com/kendall-kelly/reservations-api/utils"
	"github.com/kendall-kelly/reservations-api/validation"
)

// TableService manages tables and the occupancy they share with reservations.
type TableService struct {
	store    store.Store
	notifier notifier
}

// NewTableService builds a TableService. A nil publisher discards events.
func NewTableService(st store.Store, pub events.Publisher) *TableService {
	return &TableService{store: st, notifier: newNotifier(pub)}
}

// List returns every table ordered by name.
func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	return s.store.ListTables(ctx)
}

// Get returns one table or a not-found error.
func (s *TableService) Get(ctx context.Context, id uint) (*models.Table, error) {
	return getTable(ctx, s.store, id)
}

// Create stores a new, free table.
func (s *TableService) Create(ctx context.Context, p validation.Payload) (*models.Table, error) {
	rules := append(validation.TableRules(), validation.NoOccupant)
	if err := validation.Run(p, rules...); err != nil {
		return nil, err
	}
	req := validation.DecodeTable(p)

	t := &models.Table{Name: req.Name, Capacity: req.Capacity}
	if err := s.store.InsertTable(ctx, t); err != nil {
		return nil, err
	}

	s.notifier.publish(ctx, events.TableCreated, nil, t)
	return t, nil
}

// Update edits a table's name and capacity. The occupant is left untouched;
// it only changes through Seat and Unseat.
func (s *TableService) Update(ctx context.Context, id uint, p validation.Payload) (*models.Table, error) {
	var updated *models.Table
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		t, err := getTable(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := validation.Run(p, validation.TableRules()...); err != nil {
			return err
		}
		req := validation.DecodeTable(p)

		if t.Occupied() {
			r, err := getReservation(ctx, tx, *t.ReservationID)
			if err != nil {
				return err
			}
			if req.Capacity < r.People {
				return apperrors.Conflict("The capacity of table %s is too small for the %d people seated at it.", req.Name, r.People)
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		t.Name = req.Name
		t.Capacity = req.Capacity
		if err := tx.UpdateTable(ctx, t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.publish(ctx, events.TableUpdated, nil, updated)
	return updated, nil
}

// Delete removes a free table and returns it as it was.
func (s *TableService) Delete(ctx context.Context, id uint) (*models.Table, error) {
	var deleted *models.Table
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		t, err := getTable(ctx, tx, id)
		if err != nil {
			return err
		}
		if t.Occupied() {
			return apperrors.Conflict("Table %s is occupied and cannot be deleted.", t.Name)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := tx.DeleteTable(ctx, t.ID); err != nil {
			return err
		}
		deleted = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.publish(ctx, events.TableDeleted, nil, deleted)
	return deleted, nil
}

// Seat places a booked reservation at a free table with enough capacity.
// The reservation becomes seated and the table occupied in one transaction.
func (s *TableService) Seat(ctx context.Context, tableID uint, p validation.Payload) (*models.Table, error) {
	var (
		table       *models.Table
		reservation *models.Reservation
	)
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		t, err := getTable(ctx, tx, tableID)
		if err != nil {
			return err
		}
		if err := validation.Run(p, validation.SeatRules()...); err != nil {
			return err
		}
		if t.Occupied() {
			return apperrors.Conflict("Reservation cannot be seated at table %s, as it is already occupied.", t.Name)
		}

		r, err := getReservation(ctx, tx, validation.DecodeSeat(p))
		if err != nil {
			return err
		}
		if err := models.CheckSeatable(r); err != nil {
			return err
		}
		if t.Capacity < r.People {
			return apperrors.Conflict("The capacity of table %s is too small for a reservation of %d people.", t.Name, r.People)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		r.Status = models.StatusSeated
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		t.Occupy(r.ID)
		if err := tx.UpdateTable(ctx, t); err != nil {
			return err
		}
		table, reservation = t, r
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordTransition(reservation.ID, models.StatusBooked, models.StatusSeated)
	utils.Logger.WithFields(logrus.Fields{
		"table_id":       table.ID,
		"reservation_id": reservation.ID,
	}).Info("Table occupied")
	s.notifier.publish(ctx, events.ReservationSeated, reservation, table)
	return table, nil
}

// Unseat finishes the reservation occupying a table and frees the table,
// both in one transaction.
func (s *TableService) Unseat(ctx context.Context, tableID uint) (*models.Table, error) {
	var (
		table       *models.Table
		reservation *models.Reservation
		from        models.Status
	)
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		t, err := getTable(ctx, tx, tableID)
		if err != nil {
			return err
		}
		if !t.Occupied() {
			return apperrors.Conflict("Table %s is not occupied.", t.Name)
		}

		r, err := getReservation(ctx, tx, *t.ReservationID)
		if err != nil {
			return err
		}
		if err := models.CheckTransition(r.ID, r.Status, models.StatusFinished); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		from = r.Status
		r.Status = models.StatusFinished
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		t.Free()
		if err := tx.UpdateTable(ctx, t); err != nil {
			return err
		}
		table, reservation = t, r
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordTransition(reservation.ID, from, models.StatusFinished)
	utils.Logger.WithFields(logrus.Fields{
		"table_id":       table.ID,
		"reservation_id": reservation.ID,
	}).Info("Table freed")
	s.notifier.publish(ctx, events.ReservationFinished, reservation, table)
	return table, nil
}

func getTable(ctx context.Context, st store.Store, id uint) (*models.Table, error) {
	t, err := st.GetTable(ctx, id)
	if isNotFound(err) {
		return nil, apperrors.NotFound("Table %d cannot be found.", id)
	}
	return t, err
}
