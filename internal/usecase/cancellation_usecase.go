package usecase

import (
	"context"
	"strings"
	"time"

	"mindsettler-api/internal/converter"
	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/domain/entity"
	"mindsettler-api/internal/domain/repository"
	"mindsettler-api/internal/service"
	"mindsettler-api/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CancellationUsecase interface {
	RequestCancellation(ctx context.Context, req *dto.RequestCancellationRequest) (*dto.RequestCancellationResponse, error)
	VerifyCancellation(ctx context.Context, token string) (*dto.VerifyCancellationResponse, error)
}

type cancellationUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	validate    *validator.Validate
	bookingRepo repository.BookingRepository
	lifecycle   *LifecycleService
	notifier    service.NotificationDispatcher

	cancellationCutoff time.Duration
	now                func() time.Time
}

func NewCancellationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.Validate,
	bookingRepo repository.BookingRepository,
	lifecycle *LifecycleService,
	notifier service.NotificationDispatcher,
	cancellationCutoff time.Duration,
) CancellationUsecase {
	return &cancellationUsecase{
		db:                 db,
		log:                log,
		validate:           validate,
		bookingRepo:        bookingRepo,
		lifecycle:          lifecycle,
		notifier:           notifier,
		cancellationCutoff: cancellationCutoff,
		now:                time.Now,
	}
}

// RequestCancellation starts a user cancellation. Approved bookings cancel
// immediately; confirmed bookings get a confirmation link and only flip
// once the link is followed.
func (u *cancellationUsecase) RequestCancellation(ctx context.Context, req *dto.RequestCancellationRequest) (*dto.RequestCancellationResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid cancellation request", err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.bookingRepo.FindByAcknowledgementID(tx, req.AcknowledgementID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", req.AcknowledgementID, err)
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}
	if !strings.EqualFold(strings.TrimSpace(req.Email), booking.User.Email) {
		// Do not reveal whether the acknowledgement id exists for a
		// different email.
		return nil, apperr.NotFound("booking not found")
	}

	switch booking.Status {
	case entity.BookingStatusApproved:
		if err := u.lifecycle.CancelByUser(ctx, tx, booking, req.Reason); err != nil {
			return nil, err
		}
		if err := u.notifier.Dispatch(ctx, service.EventCancellation, booking); err != nil {
			u.log.Errorf("Cancellation dispatch failed for booking %s, rolling back: %+v", booking.ID, err)
			return nil, err
		}
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
		u.log.Infof("Booking %s cancelled immediately by user", booking.ID)
		return &dto.RequestCancellationResponse{
			Cancelled: true,
			Booking:   converter.BookingToResponse(booking),
		}, nil

	case entity.BookingStatusConfirmed:
		// Fail fast when the window has already closed; the link would
		// only fail later at verification otherwise.
		if err := ensureWithinCancellationWindow(booking, u.cancellationCutoff, u.now()); err != nil {
			return nil, err
		}

		token, err := NewOpaqueToken()
		if err != nil {
			return nil, err
		}
		now := u.now().UTC()
		booking.CancellationToken = &token
		booking.CancellationRequestedAt = &now
		if req.Reason != "" {
			booking.CancellationReason = req.Reason
		}

		rows, err := u.bookingRepo.UpdateWithVersion(tx, booking)
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, apperr.New(apperr.KindConflict, "booking was modified concurrently, please retry")
		}

		if err := u.notifier.Dispatch(ctx, service.EventCancellationVerify, booking); err != nil {
			u.log.Errorf("Cancellation-verify dispatch failed for booking %s, rolling back: %+v", booking.ID, err)
			return nil, err
		}
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
		u.log.Infof("Cancellation requested for booking %s, confirmation link sent", booking.ID)
		return &dto.RequestCancellationResponse{
			Cancelled:        false,
			VerificationSent: true,
			Booking:          converter.BookingToResponse(booking),
		}, nil

	default:
		return nil, apperr.InvalidState(string(booking.Status))
	}
}

// VerifyCancellation completes the two-phase flow for a confirmed booking.
func (u *cancellationUsecase) VerifyCancellation(ctx context.Context, token string) (*dto.VerifyCancellationResponse, error) {
	if token == "" {
		return nil, apperr.Validation("cancellation token is required")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.bookingRepo.FindByCancellationToken(tx, token, entity.BookingStatusConfirmed)
	if err != nil {
		u.log.Warnf("Failed to look up cancellation token: %+v", err)
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("invalid or expired cancellation link")
	}

	if err := u.lifecycle.CancelByUser(ctx, tx, booking, booking.CancellationReason); err != nil {
		return nil, err
	}
	if err := u.notifier.Dispatch(ctx, service.EventCancellation, booking); err != nil {
		u.log.Errorf("Cancellation dispatch failed for booking %s, rolling back: %+v", booking.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.log.Infof("Booking %s cancelled by user via confirmation link", booking.ID)
	return &dto.VerifyCancellationResponse{
		Cancelled: true,
		Booking:   converter.BookingToResponse(booking),
	}, nil
}
