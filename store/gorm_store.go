package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kendall-kelly/reservations-api/models"
)

// GormStore implements Store on top of gorm.
type GormStore struct {
	db      *gorm.DB
	inTx    bool
	locking bool
}

// NewGormStore wraps an open gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	// sqlite has no row locks; its transactions already serialize writers
	return &GormStore{db: db, locking: db.Dialector.Name() != "sqlite"}
}

// Migrate creates or updates the reservations and tables schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Reservation{}, &models.Table{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (s *GormStore) reader(ctx context.Context) *gorm.DB {
	if s.inTx {
		if s.locking {
			return s.db.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		return s.db
	}
	return s.db.WithContext(ctx)
}

// writer returns a handle for a single write. A request that is already
// cancelled never reaches the database; once issued, the write is detached
// from cancellation so it runs to completion or failure.
func (s *GormStore) writer(ctx context.Context) (*gorm.DB, error) {
	if s.inTx {
		return s.db, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.db.WithContext(context.WithoutCancel(ctx)), nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// GetReservation loads one reservation by id.
func (s *GormStore) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.reader(ctx).First(&r, "reservation_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// ListReservations returns the reservations matching filter, earliest first.
func (s *GormStore) ListReservations(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	q := s.db.WithContext(ctx).Model(&models.Reservation{})
	if filter.Date != "" {
		q = q.Where("reservation_date = ?", filter.Date)
	}
	if len(filter.ExcludeStatus) > 0 {
		q = q.Where("status NOT IN ?", filter.ExcludeStatus)
	}

	var reservations []models.Reservation
	err := q.Order("reservation_date").Order("reservation_time").Order("reservation_id").Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// InsertReservation creates r and fills in its id.
func (s *GormStore) InsertReservation(ctx context.Context, r *models.Reservation) error {
	db, err := s.writer(ctx)
	if err != nil {
		return err
	}
	return db.Omit(clause.Associations).Create(r).Error
}

// UpdateReservation writes every column of r.
func (s *GormStore) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	db, err := s.writer(ctx)
	if err != nil {
		return err
	}
	return db.Omit(clause.Associations).Save(r).Error
}

// GetTable loads one table by id.
func (s *GormStore) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	var t models.Table
	if err := s.reader(ctx).First(&t, "table_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// ListTables returns every table ordered by name.
func (s *GormStore) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.WithContext(ctx).Order("table_name").Order("table_id").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// FindTableByReservation returns the table the reservation is seated at.
func (s *GormStore) FindTableByReservation(ctx context.Context, reservationID uint) (*models.Table, error) {
	var t models.Table
	if err := s.reader(ctx).Where("reservation_id = ?", reservationID).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// InsertTable creates t and fills in its id.
func (s *GormStore) InsertTable(ctx context.Context, t *models.Table) error {
	db, err := s.writer(ctx)
	if err != nil {
		return err
	}
	return db.Omit(clause.Associations).Create(t).Error
}

// UpdateTable writes every column of t, including a cleared occupant.
func (s *GormStore) UpdateTable(ctx context.Context, t *models.Table) error {
	db, err := s.writer(ctx)
	if err != nil {
		return err
	}
	return db.Omit(clause.Associations).Save(t).Error
}

// DeleteTable removes a table by id.
func (s *GormStore) DeleteTable(ctx context.Context, id uint) error {
	db, err := s.writer(ctx)
	if err != nil {
		return err
	}
	result := db.Delete(&models.Table{}, "table_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Atomic runs fn inside one database transaction. Nested calls reuse it.
func (s *GormStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, inTx: true, locking: s.locking})
	})
}

// Ping checks the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
