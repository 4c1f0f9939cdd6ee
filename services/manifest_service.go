package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kendall-kelly/reservations-api/models"
	"github.com/kendall-kelly/reservations-api/store"
	"github.com/kendall-kelly/reservations-api/utils"
	"github.com/kendall-kelly/reservations-api/validation"
)

// Manifest is the front-of-house sheet for one service day.
type Manifest struct {
	Date         string               `json:"date"`
	GeneratedAt  time.Time            `json:"generated_at"`
	Reservations []models.Reservation `json:"reservations"`
	Tables       []ManifestTable      `json:"tables"`
	Summary      ManifestSummary      `json:"summary"`
}

// ManifestTable is a table together with whoever is seated at it.
type ManifestTable struct {
	models.Table
	Occupant *models.Reservation `json:"occupant,omitempty"`
}

// ManifestSummary counts the day's reservations. Covers excludes cancelled parties.
type ManifestSummary struct {
	Reservations int                   `json:"reservations"`
	Covers       int                   `json:"covers"`
	ByStatus     map[models.Status]int `json:"by_status"`
}

// ManifestExport locates an uploaded manifest.
type ManifestExport struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ManifestService builds daily manifests and exports them to object storage.
type ManifestService struct {
	store    store.Store
	storage  ObjectStorage
	calendar validation.Calendar
}

func NewManifestService(st store.Store, storage ObjectStorage, cal validation.Calendar) *ManifestService {
	return &ManifestService{store: st, storage: storage, calendar: cal}
}

// Build assembles the manifest for date.
func (s *ManifestService) Build(ctx context.Context, date string) (*Manifest, error) {
	if _, err := validation.ParseDate(date); err != nil {
		return nil, err
	}

	reservations, err := s.store.ListReservations(ctx, store.ReservationFilter{Date: date})
	if err != nil {
		return nil, err
	}
	tables, err := s.store.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		Date:         date,
		GeneratedAt:  s.calendar.CurrentTime().UTC(),
		Reservations: reservations,
		Tables:       make([]ManifestTable, 0, len(tables)),
		Summary:      ManifestSummary{ByStatus: make(map[models.Status]int, len(models.Statuses))},
	}
	for _, status := range models.Statuses {
		m.Summary.ByStatus[status] = 0
	}
	for _, r := range reservations {
		m.Summary.Reservations++
		m.Summary.ByStatus[r.Status]++
		if r.Status != models.StatusCancelled {
			m.Summary.Covers += r.People
		}
	}

	for _, t := range tables {
		entry := ManifestTable{Table: t}
		if t.Occupied() {
			occupant, err := s.store.GetReservation(ctx, *t.ReservationID)
			if err != nil && !isNotFound(err) {
				return nil, err
			}
			entry.Occupant = occupant
		}
		m.Tables = append(m.Tables, entry)
	}
	return m, nil
}

// Export builds the manifest named by the payload's date, uploads it and
// returns its key with a presigned download URL.
func (s *ManifestService) Export(ctx context.Context, p validation.Payload) (*ManifestExport, error) {
	rules := []validation.Rule{
		validation.OnlyFields("date"),
		validation.RequireFields("date"),
	}
	if err := validation.Run(p, rules...); err != nil {
		return nil, err
	}
	date := p.String("date")

	m, err := s.Build(ctx, date)
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}

	key := fmt.Sprintf("manifests/%s/%d.json", date, m.GeneratedAt.Unix())
	if err := s.storage.PutObject(ctx, key, body, "application/json"); err != nil {
		return nil, err
	}
	url, err := s.storage.PresignGet(ctx, key)
	if err != nil {
		return nil, err
	}

	utils.Logger.WithField("key", key).WithField("reservations", m.Summary.Reservations).Info("Manifest exported")
	return &ManifestExport{Key: key, URL: url}, nil
}
