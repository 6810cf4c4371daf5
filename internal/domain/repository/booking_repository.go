package repository

import (
	"time"

	"mindsettler-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(db *gorm.DB, booking *entity.Booking) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByAcknowledgementID(db *gorm.DB, ackID string) (*entity.Booking, error)
	FindByVerificationToken(db *gorm.DB, token string) (*entity.Booking, error)
	FindByCancellationToken(db *gorm.DB, token string, status entity.BookingStatus) (*entity.Booking, error)
	FindByPaymentReference(db *gorm.DB, ref string) (*entity.Booking, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Booking, error)
	FindByStatuses(db *gorm.DB, statuses []entity.BookingStatus) ([]entity.Booking, error)

	// FindActiveByUserID returns the most recently created booking in the
	// active set for the user, optionally excluding one booking id.
	FindActiveByUserID(db *gorm.DB, userID uuid.UUID, exclude *uuid.UUID) (*entity.Booking, error)
	CountActiveByUserID(db *gorm.DB, userID uuid.UUID, exclude *uuid.UUID) (int64, error)

	// FindOverlapping returns approved or confirmed bookings for the
	// staff member whose [approved_slot_start, approved_slot_end)
	// interval intersects [start, end).
	FindOverlapping(db *gorm.DB, staffID uuid.UUID, start, end time.Time, exclude uuid.UUID) ([]entity.Booking, error)

	AcknowledgementIDExists(db *gorm.DB, ackID string) (bool, error)

	// UpdateWithVersion persists all fields of the booking guarded by an
	// optimistic version check. It returns the number of affected rows;
	// zero means the booking changed concurrently.
	UpdateWithVersion(db *gorm.DB, booking *entity.Booking) (int64, error)
}
