package repository

import (
	"errors"
	"time"

	"mindsettler-api/internal/domain/entity"
	domainRepo "mindsettler-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(db *gorm.DB, booking *entity.Booking) error {
	return db.Create(booking).Error
}

func (r *bookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	return r.findOne(db, "id = ?", id)
}

func (r *bookingRepository) FindByAcknowledgementID(db *gorm.DB, ackID string) (*entity.Booking, error) {
	return r.findOne(db, "acknowledgement_id = ?", ackID)
}

func (r *bookingRepository) FindByVerificationToken(db *gorm.DB, token string) (*entity.Booking, error) {
	return r.findOne(db, "email_verification_token = ?", token)
}

func (r *bookingRepository) FindByCancellationToken(db *gorm.DB, token string, status entity.BookingStatus) (*entity.Booking, error) {
	return r.findOne(db, "cancellation_token = ? AND status = ?", token, status)
}

func (r *bookingRepository) FindByPaymentReference(db *gorm.DB, ref string) (*entity.Booking, error) {
	return r.findOne(db, "payment_reference = ?", ref)
}

func (r *bookingRepository) findOne(db *gorm.DB, query string, args ...interface{}) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.Preload("User").Where(query, args...).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByStatuses(db *gorm.DB, statuses []entity.BookingStatus) ([]entity.Booking, error) {
	var bookings []entity.Booking
	q := db.Preload("User").Order("created_at DESC")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) activeQuery(db *gorm.DB, userID uuid.UUID, exclude *uuid.UUID) *gorm.DB {
	q := db.Model(&entity.Booking{}).
		Where("user_id = ? AND status IN ?", userID, entity.ActiveStatuses)
	if exclude != nil {
		q = q.Where("id != ?", *exclude)
	}
	return q
}

func (r *bookingRepository) FindActiveByUserID(db *gorm.DB, userID uuid.UUID, exclude *uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.activeQuery(db, userID, exclude).
		Order("created_at DESC").
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) CountActiveByUserID(db *gorm.DB, userID uuid.UUID, exclude *uuid.UUID) (int64, error) {
	var count int64
	err := r.activeQuery(db, userID, exclude).Count(&count).Error
	return count, err
}

func (r *bookingRepository) FindOverlapping(db *gorm.DB, staffID uuid.UUID, start, end time.Time, exclude uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Where("staff_id = ?", staffID).
		Where("status IN ?", []entity.BookingStatus{entity.BookingStatusApproved, entity.BookingStatusConfirmed}).
		Where("approved_slot_start < ? AND approved_slot_end > ?", end, start).
		Where("id != ?", exclude).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) AcknowledgementIDExists(db *gorm.DB, ackID string) (bool, error) {
	var count int64
	err := db.Model(&entity.Booking{}).
		Where("acknowledgement_id = ?", ackID).
		Count(&count).Error
	return count > 0, err
}

// UpdateWithVersion writes the full row guarded by the version the booking
// was loaded with. Zero affected rows means another transition committed
// in between and the caller must retry against fresh state.
func (r *bookingRepository) UpdateWithVersion(db *gorm.DB, booking *entity.Booking) (int64, error) {
	loadedVersion := booking.Version
	booking.Version = loadedVersion + 1
	booking.UpdatedAt = time.Now().UTC()

	result := db.Model(&entity.Booking{}).
		Where("id = ? AND version = ?", booking.ID, loadedVersion).
		Select("*").
		Omit("id", "created_at", "User", "Staff", "Organization").
		Updates(booking)
	if result.Error != nil {
		booking.Version = loadedVersion
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		booking.Version = loadedVersion
	}
	return result.RowsAffected, nil
}
