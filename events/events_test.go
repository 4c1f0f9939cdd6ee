package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/reservations-api/models"
)

func TestNewEvent(t *testing.T) {
	r := &models.Reservation{ID: 3, Status: models.StatusSeated}
	ev := New(ReservationSeated, r, nil)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, ReservationSeated, ev.Type)
	assert.Same(t, r, ev.Reservation)
	assert.Nil(t, ev.Table)
	assert.False(t, ev.OccurredAt.IsZero())
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	ctx := context.Background()

	require.NoError(t, rec.PublishJSON(ctx, TableCreated, New(TableCreated, nil, &models.Table{ID: 1})))
	require.NoError(t, rec.PublishJSON(ctx, TableDeleted, New(TableDeleted, nil, &models.Table{ID: 1})))
	assert.Equal(t, []string{TableCreated, TableDeleted}, rec.Types())
	assert.Len(t, rec.Events(), 2)

	rec.Err = errors.New("broker down")
	assert.Error(t, rec.PublishJSON(ctx, TableUpdated, New(TableUpdated, nil, nil)))
	assert.Len(t, rec.Events(), 2)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.PublishJSON(context.Background(), ReservationCreated, struct{}{}))
	assert.NoError(t, p.Close())
}
