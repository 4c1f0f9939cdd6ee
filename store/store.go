// Package store persists reservations and tables behind an explicit handle
// that is passed to the workflow services.
package store

import (
	"context"
	"errors"

	"github.com/kendall-kelly/reservations-api/models"
)

// ErrNotFound is returned when an addressed record does not exist.
var ErrNotFound = errors.New("record not found")

// ReservationFilter narrows ListReservations. Zero values match everything.
type ReservationFilter struct {
	Date          string
	ExcludeStatus []models.Status
}

// Store is the storage handle used by the workflow services.
type Store interface {
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	ListReservations(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error)
	InsertReservation(ctx context.Context, r *models.Reservation) error
	UpdateReservation(ctx context.Context, r *models.Reservation) error

	GetTable(ctx context.Context, id uint) (*models.Table, error)
	ListTables(ctx context.Context) ([]models.Table, error)
	FindTableByReservation(ctx context.Context, reservationID uint) (*models.Table, error)
	InsertTable(ctx context.Context, t *models.Table) error
	UpdateTable(ctx context.Context, t *models.Table) error
	DeleteTable(ctx context.Context, id uint) error

	// Atomic runs fn against a transactional view of the store. Every write
	// made through tx commits together or not at all. Rows read through tx
	// are locked for update on databases that support it.
	Atomic(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
}
