package usecase

import (
	"context"
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

const autoRejectReason = "Another active booking exists"

type BookingIntakeUsecase interface {
	CreateDraft(ctx context.Context, req *dto.CreateDraftRequest) (*dto.CreateDraftResponse, error)
}

type bookingIntakeUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	validate    *validator.Validate
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	lifecycle   *LifecycleService
	notifier    service.NotificationDispatcher
	audit       service.AuditService

	resendInterval time.Duration
	now            func() time.Time
}

func NewBookingIntakeUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.Validate,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	lifecycle *LifecycleService,
	notifier service.NotificationDispatcher,
	audit service.AuditService,
	resendInterval time.Duration,
) BookingIntakeUsecase {
	return &bookingIntakeUsecase{
		db:             db,
		log:            log,
		validate:       validate,
		bookingRepo:    bookingRepo,
		userRepo:       userRepo,
		lifecycle:      lifecycle,
		notifier:       notifier,
		audit:          audit,
		resendInterval: resendInterval,
		now:            time.Now,
	}
}

// CreateDraft creates a draft booking for the given email.
//
// Flow:
//  1. Validate the request shape, consent, and mode/payment consistency
//  2. Get-or-create the user by normalized email
//  3. If the user already has an unverified draft, treat the call as a
//     verification resend, throttled to one per resend interval
//  4. If the user has any other active booking, the new draft is created
//     and immediately auto-rejected
//  5. Otherwise dispatch the verification email inside the transaction so
//     a delivery failure rolls the draft back
func (u *bookingIntakeUsecase) CreateDraft(ctx context.Context, req *dto.CreateDraftRequest) (*dto.CreateDraftResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid draft request", err)
	}
	if !req.ConsentGiven {
		return nil, apperr.Validation("consent must be explicitly given")
	}

	mode := entity.BookingMode(req.Mode)
	var paymentMode *entity.PaymentMode
	if req.PaymentMode != nil {
		pm := entity.PaymentMode(*req.PaymentMode)
		paymentMode = &pm
	}
	if err := validateModePayment(mode, paymentMode); err != nil {
		return nil, err
	}

	preferredDate, err := time.Parse("2006-01-02", req.PreferredDate)
	if err != nil {
		return nil, apperr.Validationf("invalid preferred_date %q, expected YYYY-MM-DD", req.PreferredDate)
	}

	period := entity.PreferredPeriod(req.PreferredPeriod)
	timeStart, timeEnd, err := parseCustomWindow(preferredDate, period, req.PreferredTimeStart, req.PreferredTimeEnd)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.GetOrCreateByEmail(tx, req.Email, req.FullName, req.Phone)
	if err != nil {
		u.log.Warnf("Failed to get or create user for %s: %+v", req.Email, err)
		return nil, err
	}

	existing, err := u.bookingRepo.FindActiveByUserID(tx, user.ID, nil)
	if err != nil {
		u.log.Warnf("Failed to query active booking for user %s: %+v", user.ID, err)
		return nil, err
	}

	// An unverified draft means the user never finished the previous
	// intake; resend its verification link instead of stacking drafts.
	if existing != nil && existing.Status == entity.BookingStatusDraft && !existing.EmailVerified {
		return u.resendVerification(ctx, tx, existing)
	}

	token, err := NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	booking := &entity.Booking{
		UserID:                 user.ID,
		Status:                 entity.BookingStatusDraft,
		PreferredDate:          preferredDate,
		PreferredPeriod:        period,
		PreferredTimeStart:     timeStart,
		PreferredTimeEnd:       timeEnd,
		Mode:                   mode,
		PaymentMode:            paymentMode,
		Message:                req.Message,
		ConsentGiven:           true,
		ConsentGivenAt:         &now,
		EmailVerificationToken: token,
	}

	if err := u.bookingRepo.Create(tx, booking); err != nil {
		u.log.Warnf("Failed to create draft booking: %+v", err)
		return nil, err
	}
	booking.User = *user

	if err := u.audit.LogAction(ctx, tx, nil, entity.AuditActionBookingCreate, &booking.ID, entity.JSON{
		"email": user.Email,
		"mode":  string(mode),
	}); err != nil {
		return nil, err
	}

	// Collision policy: the newer of two active bookings is rejected
	// outright, it never coexists with the earlier one.
	if existing != nil {
		if err := u.lifecycle.Reject(ctx, tx, nil, booking, autoRejectReason, ""); err != nil {
			return nil, err
		}
		if err := tx.Commit().Error; err != nil {
			u.log.Warnf("Failed to commit auto-rejected draft: %+v", err)
			return nil, err
		}
		u.log.Infof("Draft %s auto-rejected, user %s already has active booking %s", booking.ID, user.ID, existing.ID)
		return &dto.CreateDraftResponse{
			Booking:          converter.BookingToResponse(booking),
			VerificationSent: false,
		}, nil
	}

	if err := u.notifier.Dispatch(ctx, service.EventVerification, booking); err != nil {
		u.log.Errorf("Verification dispatch failed for draft %s, rolling back: %+v", booking.ID, err)
		return nil, err
	}
	booking.LastVerificationEmailSentAt = &now
	if _, err := u.bookingRepo.UpdateWithVersion(tx, booking); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit draft booking: %+v", err)
		return nil, err
	}

	u.log.Infof("Draft booking created: id=%s, user=%s, mode=%s", booking.ID, user.ID, mode)
	return &dto.CreateDraftResponse{
		Booking:          converter.BookingToResponse(booking),
		VerificationSent: true,
	}, nil
}

// resendVerification re-sends the verification email for an existing
// unverified draft, throttled by the last-sent timestamp. Commits the
// caller's transaction on success.
func (u *bookingIntakeUsecase) resendVerification(ctx context.Context, tx *gorm.DB, booking *entity.Booking) (*dto.CreateDraftResponse, error) {
	now := u.now()
	if booking.LastVerificationEmailSentAt != nil {
		elapsed := now.Sub(*booking.LastVerificationEmailSentAt)
		if elapsed < u.resendInterval {
			wait := (u.resendInterval - elapsed).Round(time.Second)
			return nil, apperr.Newf(apperr.KindRateLimited,
				"verification email was sent recently, please wait %s before retrying", wait)
		}
	}

	if err := u.notifier.Dispatch(ctx, service.EventVerification, booking); err != nil {
		u.log.Errorf("Verification resend failed for booking %s: %+v", booking.ID, err)
		return nil, err
	}

	sentAt := now.UTC()
	booking.LastVerificationEmailSentAt = &sentAt
	rows, err := u.bookingRepo.UpdateWithVersion(tx, booking)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.New(apperr.KindConflict, "booking was modified concurrently, please retry")
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit verification resend: %+v", err)
		return nil, err
	}

	u.log.Infof("Verification email resent for booking %s", booking.ID)
	return &dto.CreateDraftResponse{
		Booking:          converter.BookingToResponse(booking),
		VerificationSent: true,
	}, nil
}

// parseCustomWindow resolves the explicit time window for CUSTOM period
// requests. Non-CUSTOM periods must not carry one.
func parseCustomWindow(date time.Time, period entity.PreferredPeriod, start, end *string) (*time.Time, *time.Time, error) {
	switch period {
	case entity.PeriodCustom:
		if start == nil || end == nil {
			return nil, nil, apperr.Validation("custom period requires preferred_time_start and preferred_time_end")
		}
		ts, err := parseTimeOfDay(date, *start)
		if err != nil {
			return nil, nil, err
		}
		te, err := parseTimeOfDay(date, *end)
		if err != nil {
			return nil, nil, err
		}
		if !te.After(ts) {
			return nil, nil, apperr.Validation("preferred_time_end must be after preferred_time_start")
		}
		return &ts, &te, nil
	case entity.PeriodMorning, entity.PeriodEvening:
		if start != nil || end != nil {
			return nil, nil, apperr.Validationf("period %s must not carry an explicit time window", period)
		}
		return nil, nil, nil
	default:
		return nil, nil, apperr.Validationf("unknown preferred_period %q", period)
	}
}

func parseTimeOfDay(date time.Time, value string) (time.Time, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, apperr.Validationf("invalid time %q, expected HH:MM", value)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
