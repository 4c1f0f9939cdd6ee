package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kendall-kelly/reservations-api/events"
	"github.com/kendall-kelly/reservations-api/metrics"
	"github.com/kendall-kelly/reservations-api/models"
	"github.com/kendall-kelly/reservations-api/store"
	"github.com/kendall-kelly/reservations-api/utils"
)

const publishTimeout = 5 * time.Second

// notifier publishes committed workflow steps. Delivery failures are logged
// and counted but never fail the request that caused them.
type notifier struct {
	pub events.Publisher
}

func newNotifier(pub events.Publisher) notifier {
	if pub == nil {
		pub = events.Noop{}
	}
	return notifier{pub: pub}
}

func (n notifier) publish(ctx context.Context, key string, r *models.Reservation, t *models.Table) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := n.pub.PublishJSON(ctx, key, events.New(key, r, t)); err != nil {
		metrics.IncPublishFailure(key)
		utils.Logger.WithError(err).WithField("event", key).Warn("Failed to publish event")
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func recordTransition(id uint, from, to models.Status) {
	metrics.IncTransition(string(from), string(to))
	utils.Logger.WithFields(logrus.Fields{
		"reservation_id": id,
		"from":           string(from),
		"status":         string(to),
	}).Info("Reservation status changed")
}
