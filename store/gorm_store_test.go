package store_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/reservations-api/models"
	"github.com/kendall-kelly/reservations-api/store"
	"github.com/kendall-kelly/reservations-api/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.GuardTestMain(m))
}

func newReservation(date, at string) *models.Reservation {
	return &models.Reservation{
		FirstName:       "Grace",
		LastName:        "Hopper",
		MobileNumber:    "555-000-1111",
		ReservationDate: date,
		ReservationTime: at,
		People:          2,
		Status:          models.StatusBooked,
	}
}

func TestReservationRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	r := newReservation(testutil.Tomorrow, "18:30")
	require.NoError(t, s.InsertReservation(ctx, r))
	assert.NotZero(t, r.ID)

	got, err := s.GetReservation(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.FirstName)
	assert.Equal(t, testutil.Tomorrow, got.ReservationDate)
	assert.Equal(t, "18:30", got.ReservationTime)
	assert.Equal(t, models.StatusBooked, got.Status)

	got.Status = models.StatusCancelled
	require.NoError(t, s.UpdateReservation(ctx, got))

	again, err := s.GetReservation(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, again.Status)
}

func TestGetMissingRecords(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.GetReservation(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetTable(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.FindTableByReservation(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.DeleteTable(ctx, 99), store.ErrNotFound)
}

func TestListReservations(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	late := newReservation(testutil.Tomorrow, "20:00")
	early := newReservation(testutil.Tomorrow, "11:00")
	done := newReservation(testutil.Tomorrow, "12:00")
	done.Status = models.StatusFinished
	other := newReservation("2026-10-17", "11:00")
	for _, r := range []*models.Reservation{late, other, done, early} {
		require.NoError(t, s.InsertReservation(ctx, r))
	}

	all, err := s.ListReservations(ctx, store.ReservationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []uint{early.ID, done.ID, late.ID, other.ID}, ids(all))

	onDate, err := s.ListReservations(ctx, store.ReservationFilter{
		Date:          testutil.Tomorrow,
		ExcludeStatus: []models.Status{models.StatusFinished},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{early.ID, late.ID}, ids(onDate))
}

func TestTablesAndOccupancy(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	patio := &models.Table{Name: "Patio", Capacity: 6}
	bar := &models.Table{Name: "Bar #1", Capacity: 1}
	require.NoError(t, s.InsertTable(ctx, patio))
	require.NoError(t, s.InsertTable(ctx, bar))

	tables, err := s.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "Bar #1", tables[0].Name)
	assert.Equal(t, "Patio", tables[1].Name)

	r := newReservation(testutil.Tomorrow, "19:00")
	require.NoError(t, s.InsertReservation(ctx, r))

	patio.Occupy(r.ID)
	require.NoError(t, s.UpdateTable(ctx, patio))

	found, err := s.FindTableByReservation(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, patio.ID, found.ID)

	found.Free()
	require.NoError(t, s.UpdateTable(ctx, found))

	reloaded, err := s.GetTable(ctx, patio.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Occupied(), "cleared occupant should be persisted as null")

	require.NoError(t, s.DeleteTable(ctx, bar.ID))
	_, err = s.GetTable(ctx, bar.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAtomicRollsBackBothWrites(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	table := &models.Table{Name: "Window", Capacity: 4}
	require.NoError(t, s.InsertTable(ctx, table))
	r := newReservation(testutil.Tomorrow, "19:00")
	require.NoError(t, s.InsertReservation(ctx, r))

	boom := errors.New("boom")
	err := s.Atomic(ctx, func(tx store.Store) error {
		res, err := tx.GetReservation(ctx, r.ID)
		if err != nil {
			return err
		}
		res.Status = models.StatusSeated
		if err := tx.UpdateReservation(ctx, res); err != nil {
			return err
		}
		tbl, err := tx.GetTable(ctx, table.ID)
		if err != nil {
			return err
		}
		tbl.Occupy(res.ID)
		if err := tx.UpdateTable(ctx, tbl); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	res, err := s.GetReservation(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, res.Status)

	tbl, err := s.GetTable(ctx, table.ID)
	require.NoError(t, err)
	assert.False(t, tbl.Occupied())
}

func TestWritesSkippedWhenCancelled(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.InsertReservation(ctx, newReservation(testutil.Tomorrow, "19:00"))
	assert.ErrorIs(t, err, context.Canceled)

	err = s.Atomic(ctx, func(tx store.Store) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)

	all, err := s.ListReservations(context.Background(), store.ReservationFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeletingReservationCascadesToTable(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := store.NewGormStore(db)
	ctx := context.Background()

	r := newReservation(testutil.Tomorrow, "19:00")
	require.NoError(t, s.InsertReservation(ctx, r))
	table := &models.Table{Name: "Booth", Capacity: 4}
	table.Occupy(r.ID)
	require.NoError(t, s.InsertTable(ctx, table))

	require.NoError(t, db.Delete(&models.Reservation{}, r.ID).Error)

	_, err := s.GetTable(ctx, table.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOccupantForeignKeyLivesOnTables(t *testing.T) {
	db := testutil.NewTestDB(t)

	schema := func(name string) string {
		var sql string
		require.NoError(t, db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&sql).Error)
		require.NotEmpty(t, sql, "missing schema for %s", name)
		return sql
	}

	assert.Regexp(t, `FOREIGN KEY \(.?reservation_id.?\) REFERENCES .?reservations.?\s*\(.?reservation_id.?\) ON DELETE CASCADE`, schema("tables"))
	assert.NotContains(t, schema("reservations"), "REFERENCES", "reservations must not depend on tables")

	// a reservation can be stored before any table exists
	s := store.NewGormStore(db)
	require.NoError(t, s.InsertReservation(context.Background(), newReservation(testutil.Tomorrow, "19:00")))
}

func TestPing(t *testing.T) {
	s := testutil.NewTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func ids(rs []models.Reservation) []uint {
	out := make([]uint, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}
