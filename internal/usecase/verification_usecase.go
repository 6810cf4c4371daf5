package usecase

import (
	"context"
	"time"

	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/domain/entity"
	"mindsettler-api/internal/domain/repository"
	"mindsettler-api/internal/service"
	"mindsettler-api/pkg/apperr"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type VerificationUsecase interface {
	VerifyEmail(ctx context.Context, token string) (*dto.VerifyEmailResponse, error)
}

type verificationUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	lifecycle   *LifecycleService
	audit       service.AuditService

	now func() time.Time
}

func NewVerificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	lifecycle *LifecycleService,
	audit service.AuditService,
) VerificationUsecase {
	return &verificationUsecase{
		db:          db,
		log:         log,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		lifecycle:   lifecycle,
		audit:       audit,
		now:         time.Now,
	}
}

// VerifyEmail resolves a verification token and advances the draft.
//
// Flow:
//  1. Look up the booking by its single-use token
//  2. Already-verified bookings return their current state (idempotent)
//  3. Mark verified; if another active booking exists for the same user
//     the draft is auto-rejected instead of submitted
//  4. Otherwise assign the acknowledgement id and submit DRAFT -> PENDING
func (u *verificationUsecase) VerifyEmail(ctx context.Context, token string) (*dto.VerifyEmailResponse, error) {
	if token == "" {
		return nil, apperr.Validation("verification token is required")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.bookingRepo.FindByVerificationToken(tx, token)
	if err != nil {
		u.log.Warnf("Failed to look up verification token: %+v", err)
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("invalid or expired verification link")
	}

	if booking.EmailVerified {
		return &dto.VerifyEmailResponse{
			Verified:          true,
			AcknowledgementID: booking.AcknowledgementID,
			Status:            string(booking.Status),
		}, nil
	}
	if booking.Status != entity.BookingStatusDraft {
		return nil, apperr.InvalidState(string(booking.Status))
	}

	now := u.now().UTC()
	booking.EmailVerified = true
	booking.EmailVerifiedAt = &now

	if err := u.markUserVerified(tx, booking.UserID); err != nil {
		return nil, err
	}

	other, err := u.bookingRepo.FindActiveByUserID(tx, booking.UserID, &booking.ID)
	if err != nil {
		u.log.Warnf("Failed to query active booking for user %s: %+v", booking.UserID, err)
		return nil, err
	}
	if other != nil {
		if err := u.lifecycle.Reject(ctx, tx, nil, booking, autoRejectReason, ""); err != nil {
			return nil, err
		}
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
		u.log.Infof("Booking %s auto-rejected at verification, active booking %s exists", booking.ID, other.ID)
		return &dto.VerifyEmailResponse{
			Verified:     true,
			Status:       string(booking.Status),
			AutoRejected: true,
		}, nil
	}

	if err := u.lifecycle.EnsureAcknowledgementID(tx, booking); err != nil {
		return nil, err
	}
	if err := u.lifecycle.Submit(ctx, tx, booking); err != nil {
		return nil, err
	}
	if err := u.audit.LogAction(ctx, tx, nil, entity.AuditActionBookingVerify, &booking.ID, nil); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit verification for booking %s: %+v", booking.ID, err)
		return nil, err
	}

	u.log.Infof("Booking %s verified and submitted, acknowledgement=%s", booking.ID, *booking.AcknowledgementID)
	return &dto.VerifyEmailResponse{
		Verified:          true,
		AcknowledgementID: booking.AcknowledgementID,
		Status:            string(booking.Status),
	}, nil
}

func (u *verificationUsecase) markUserVerified(tx *gorm.DB, userID uuid.UUID) error {
	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		u.log.Errorf("Booking references missing user %s", userID)
		return apperr.Newf(apperr.KindConflict, "booking references missing user %s", userID)
	}
	if user.IsVerified {
		return nil
	}
	user.IsVerified = true
	return tx.Model(user).Update("is_verified", true).Error
}
