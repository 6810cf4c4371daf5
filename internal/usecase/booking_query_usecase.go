package usecase

import (
	"context"

	"mindsettler-api/internal/converter"
	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/domain/entity"
	"mindsettler-api/internal/domain/repository"
	"mindsettler-api/pkg/apperr"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BookingQueryUsecase interface {
	GetStatus(ctx context.Context, acknowledgementID string) (*dto.BookingStatusResponse, error)
	ListByEmail(ctx context.Context, email string) (*dto.BookingListResponse, error)
	GetActiveBooking(ctx context.Context, email string) (*dto.BookingResponse, error)
	HasActiveBooking(ctx context.Context, email string) (bool, error)
}

type bookingQueryUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
}

func NewBookingQueryUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
) BookingQueryUsecase {
	return &bookingQueryUsecase{
		db:          db,
		log:         log,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
	}
}

// GetStatus is the public tracking lookup: current status plus the derived
// timeline of reached milestones.
func (u *bookingQueryUsecase) GetStatus(ctx context.Context, acknowledgementID string) (*dto.BookingStatusResponse, error) {
	if acknowledgementID == "" {
		return nil, apperr.Validation("acknowledgement_id is required")
	}

	booking, err := u.bookingRepo.FindByAcknowledgementID(u.db.WithContext(ctx), acknowledgementID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", acknowledgementID, err)
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}

	return &dto.BookingStatusResponse{
		AcknowledgementID: booking.AcknowledgementID,
		Status:            string(booking.Status),
		Timeline:          converter.BookingToTimeline(booking),
		Booking:           converter.BookingToResponse(booking),
	}, nil
}

// ListByEmail returns all bookings for a user, newest first.
func (u *bookingQueryUsecase) ListByEmail(ctx context.Context, email string) (*dto.BookingListResponse, error) {
	if email == "" {
		return nil, apperr.Validation("email is required")
	}

	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), email)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", email, err)
		return nil, err
	}
	if user == nil {
		return &dto.BookingListResponse{Bookings: []dto.BookingResponse{}, Total: 0}, nil
	}

	bookings, err := u.bookingRepo.FindByUserID(u.db.WithContext(ctx), user.ID)
	if err != nil {
		u.log.Warnf("Failed to list bookings for user %s: %+v", user.ID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// GetActiveBooking returns the user's most recent active booking, or a
// not-found error when none exists.
func (u *bookingQueryUsecase) GetActiveBooking(ctx context.Context, email string) (*dto.BookingResponse, error) {
	if email == "" {
		return nil, apperr.Validation("email is required")
	}

	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("no active booking")
	}

	booking, err := u.bookingRepo.FindActiveByUserID(u.db.WithContext(ctx), user.ID, nil)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("no active booking")
	}

	return converter.BookingToResponse(booking), nil
}

// HasActiveBooking reports whether the user currently holds a booking in
// the active set, without loading it.
func (u *bookingQueryUsecase) HasActiveBooking(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, apperr.Validation("email is required")
	}

	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}

	count, err := u.bookingRepo.CountActiveByUserID(u.db.WithContext(ctx), user.ID, nil)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// statusesFromFilter parses a comma-free status filter, empty meaning all.
func statusesFromFilter(filter string) ([]entity.BookingStatus, error) {
	if filter == "" {
		return nil, nil
	}
	status, err := entity.ParseBookingStatus(filter)
	if err != nil {
		return nil, apperr.Validationf("unknown status %q", filter)
	}
	return []entity.BookingStatus{status}, nil
}
