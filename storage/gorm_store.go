// storage/gorm_store.go
package storage

import (
	"errors"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"uprez-backend/models"
)

const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var me *driver.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// GormStore is the MySQL-backed persistence layer.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetBooking(id string) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *GormStore) UpdateBookingStatus(id, status string) error {
	return s.db.Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *GormStore) GetProperty(id string) (*models.Property, error) {
	var prop models.Property
	if err := s.db.First(&prop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &prop, nil
}

func (s *GormStore) ListProperties() ([]models.Property, error) {
	var props []models.Property
	if err := s.db.Order("id ASC").Find(&props).Error; err != nil {
		return nil, err
	}
	return props, nil
}

func (s *GormStore) GetHostSettings(hostID string) (*models.HostSettings, error) {
	var settings models.HostSettings
	if err := s.db.First(&settings, "host_id = ?", hostID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpsertHostSettings creates the row on first write and updates it after.
func (s *GormStore) UpsertHostSettings(settings *models.HostSettings) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "host_id"}},
		UpdateAll: true,
	}).Create(settings).Error
}

func (s *GormStore) GetOffer(id string) (*models.Offer, error) {
	var offer models.Offer
	if err := s.db.First(&offer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// ReplaceOfferForBooking enforces one offer per booking: the prior row (any
// status) is removed and the fresh one inserted in one transaction. Two
// concurrent generations can both pass the delete and collide on the
// booking_id unique index; the loser retries once against the winner's row.
func (s *GormStore) ReplaceOfferForBooking(bookingID string, offer *models.Offer) error {
	replace := func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("booking_id = ?", bookingID).Delete(&models.Offer{}).Error; err != nil {
				return err
			}
			return tx.Create(offer).Error
		})
	}

	err := replace()
	if isDuplicateEntry(err) {
		err = replace()
	}
	return err
}

// UpdateOffer applies the given column updates as one statement. The row is
// locked first so a racing accept observes a settled state.
func (s *GormStore) UpdateOffer(id string, updates map[string]interface{}) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var offer models.Offer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&offer, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&models.Offer{}).
			Where("id = ?", id).
			Updates(updates).Error
	})
}

func (s *GormStore) OverlappingBookings(arrival, departure time.Time, excludeBookingID, excludePropID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.
		Where("status = ?", models.BookingStatusConfirmed).
		Where("id <> ?", excludeBookingID).
		Where("prop_id <> ?", excludePropID).
		Where("arrival_date >= ? AND departure_date <= ?", arrival, departure).
		Order("base_nightly_rate ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
