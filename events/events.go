// Package events publishes workflow events for downstream consumers such as
// the kitchen display or SMS notifications.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kendall-kelly/reservations-api/models"
)

// Routing keys.
const (
	ReservationCreated   = "reservation.created"
	ReservationUpdated   = "reservation.updated"
	ReservationSeated    = "reservation.seated"
	ReservationFinished  = "reservation.finished"
	ReservationCancelled = "reservation.cancelled"
	TableCreated         = "table.created"
	TableUpdated         = "table.updated"
	TableDeleted         = "table.deleted"
)

// Publisher sends a JSON encoded value under a routing key.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

// Event is the message body for every routing key.
type Event struct {
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	OccurredAt  time.Time           `json:"occurred_at"`
	Reservation *models.Reservation `json:"reservation,omitempty"`
	Table       *models.Table       `json:"table,omitempty"`
}

// New builds an event of the given type stamped with a fresh id.
func New(key string, r *models.Reservation, t *models.Table) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        key,
		OccurredAt:  time.Now().UTC(),
		Reservation: r,
		Table:       t,
	}
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishJSON(context.Context, string, any) error { return nil }
func (Noop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) PublishJSON(_ context.Context, key string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	ev, ok := v.(Event)
	if !ok {
		ev = Event{Type: key}
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Types returns the routing keys published so far, in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
