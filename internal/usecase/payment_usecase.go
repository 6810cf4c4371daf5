package usecase

import (
	"context"

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

type PaymentUsecase interface {
	InitiatePayment(ctx context.Context, req *dto.InitiatePaymentRequest) (*dto.PaymentResponse, error)
	CompletePayment(ctx context.Context, req *dto.CompletePaymentRequest) (*dto.PaymentResponse, error)
	FailPayment(ctx context.Context, req *dto.FailPaymentRequest) (*dto.PaymentResponse, error)
}

type paymentUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	validate    *validator.Validate
	bookingRepo repository.BookingRepository
	lifecycle   *LifecycleService
	notifier    service.NotificationDispatcher
}

func NewPaymentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.Validate,
	bookingRepo repository.BookingRepository,
	lifecycle *LifecycleService,
	notifier service.NotificationDispatcher,
) PaymentUsecase {
	return &paymentUsecase{
		db:          db,
		log:         log,
		validate:    validate,
		bookingRepo: bookingRepo,
		lifecycle:   lifecycle,
		notifier:    notifier,
	}
}

// InitiatePayment moves an approved booking into payment pending and
// returns the payment reference. Repeating the call returns the same
// reference without touching the booking.
func (u *paymentUsecase) InitiatePayment(ctx context.Context, req *dto.InitiatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid payment request", err)
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

	ref, err := u.lifecycle.InitiatePayment(ctx, tx, booking)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.log.Infof("Payment initiated for booking %s, reference=%s", booking.ID, ref)
	return &dto.PaymentResponse{
		PaymentReference:  ref,
		AcknowledgementID: booking.AcknowledgementID,
		Status:            string(booking.Status),
		Booking:           converter.BookingToResponse(booking),
	}, nil
}

// CompletePayment confirms the booking behind a payment reference and
// sends the confirmation email inside the same transaction.
func (u *paymentUsecase) CompletePayment(ctx context.Context, req *dto.CompletePaymentRequest) (*dto.PaymentResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid payment request", err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.findByReference(tx, req.PaymentReference)
	if err != nil {
		return nil, err
	}

	if err := u.lifecycle.CompletePayment(ctx, tx, booking); err != nil {
		return nil, err
	}
	if err := u.notifier.Dispatch(ctx, service.EventConfirmation, booking); err != nil {
		u.log.Errorf("Confirmation dispatch failed for booking %s, rolling back: %+v", booking.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.log.Infof("Payment completed for booking %s, status=%s", booking.ID, booking.Status)
	return u.paymentResponse(booking), nil
}

// FailPayment records a gateway failure against a payment reference.
func (u *paymentUsecase) FailPayment(ctx context.Context, req *dto.FailPaymentRequest) (*dto.PaymentResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid payment request", err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.findByReference(tx, req.PaymentReference)
	if err != nil {
		return nil, err
	}

	if err := u.lifecycle.FailPayment(ctx, tx, booking); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.log.Infof("Payment failed for booking %s, reference=%s", booking.ID, req.PaymentReference)
	return u.paymentResponse(booking), nil
}

func (u *paymentUsecase) findByReference(tx *gorm.DB, ref string) (*entity.Booking, error) {
	booking, err := u.bookingRepo.FindByPaymentReference(tx, ref)
	if err != nil {
		u.log.Warnf("Failed to find booking by payment reference: %+v", err)
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("unknown payment reference")
	}
	return booking, nil
}

func (u *paymentUsecase) paymentResponse(booking *entity.Booking) *dto.PaymentResponse {
	resp := &dto.PaymentResponse{
		AcknowledgementID: booking.AcknowledgementID,
		Status:            string(booking.Status),
		Booking:           converter.BookingToResponse(booking),
	}
	if booking.PaymentReference != nil {
		resp.PaymentReference = *booking.PaymentReference
	}
	return resp
}
