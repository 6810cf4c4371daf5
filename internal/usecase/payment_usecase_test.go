package usecase

import (
	"context"
	"testing"
	"time"

	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/domain/entity"
	repoimpl "mindsettler-api/internal/repository"
	"mindsettler-api/internal/service"
	"mindsettler-api/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentFixture(t *testing.T, db *gorm.DB) (PaymentUsecase, *fakeDispatcher) {
	t.Helper()
	log := testLogger()
	bookingRepo := repoimpl.NewBookingRepository()
	audit := service.NewAuditService(log, repoimpl.NewAuditLogRepository())
	lifecycle := NewLifecycleService(log, bookingRepo, audit, testCutoff)
	dispatcher := &fakeDispatcher{}
	return NewPaymentUsecase(db, log, validator.New(), bookingRepo, lifecycle, dispatcher), dispatcher
}

func TestPaymentFlow(t *testing.T) {
	db := newTestDB(t)
	payment, dispatcher := newPaymentFixture(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "pay@example.com")
	slotStart := time.Now().Add(96 * time.Hour)
	booking := seedBooking(t, db, user, entity.BookingStatusApproved,
		withSlot(slotStart, slotStart.Add(time.Hour)), withAcknowledgement("MS-PAYF0001"))

	initiated, err := payment.InitiatePayment(ctx, &dto.InitiatePaymentRequest{AcknowledgementID: "MS-PAYF0001"})
	require.NoError(t, err)
	assert.Equal(t, "PAYMENT_PENDING", initiated.Status)
	assert.Regexp(t, `^PAY-`, initiated.PaymentReference)

	// Repeating initiation returns the same reference.
	again, err := payment.InitiatePayment(ctx, &dto.InitiatePaymentRequest{AcknowledgementID: "MS-PAYF0001"})
	require.NoError(t, err)
	assert.Equal(t, initiated.PaymentReference, again.PaymentReference)

	completed, err := payment.CompletePayment(ctx, &dto.CompletePaymentRequest{PaymentReference: initiated.PaymentReference})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", completed.Status)
	assert.Equal(t, []service.NotificationEvent{service.EventConfirmation}, dispatcher.sent())

	stored := reloadBooking(t, db, booking.ID)
	assert.Equal(t, entity.BookingStatusConfirmed, stored.Status)
	require.NotNil(t, stored.ConfirmedAt)
}

func TestCompletePaymentAssignsMissingAcknowledgement(t *testing.T) {
	db := newTestDB(t)
	payment, _ := newPaymentFixture(t, db)

	user := seedUser(t, db, "noack@example.com")
	seedBooking(t, db, user, entity.BookingStatusPaymentPending,
		withPaymentReference("PAY-NOACK00001"))

	resp, err := payment.CompletePayment(context.Background(), &dto.CompletePaymentRequest{PaymentReference: "PAY-NOACK00001"})
	require.NoError(t, err)
	require.NotNil(t, resp.AcknowledgementID)
	assert.Regexp(t, acknowledgementPattern, *resp.AcknowledgementID)
}

func TestFailPayment(t *testing.T) {
	db := newTestDB(t)
	payment, dispatcher := newPaymentFixture(t, db)

	user := seedUser(t, db, "fail@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusPaymentPending,
		withPaymentReference("PAY-FAILED0001"), withAcknowledgement("MS-FAIL0001"))

	resp, err := payment.FailPayment(context.Background(), &dto.FailPaymentRequest{
		PaymentReference: "PAY-FAILED0001",
		Reason:           "card declined",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAYMENT_FAILED", resp.Status)
	assert.Empty(t, dispatcher.sent())

	stored := reloadBooking(t, db, booking.ID)
	assert.Equal(t, entity.BookingStatusPaymentFailed, stored.Status)
	assert.True(t, stored.IsTerminal())
}

func TestCompletePaymentUnknownReference(t *testing.T) {
	db := newTestDB(t)
	payment, _ := newPaymentFixture(t, db)

	_, err := payment.CompletePayment(context.Background(), &dto.CompletePaymentRequest{PaymentReference: "PAY-UNKNOWN001"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCompletePaymentRollsBackOnDispatchFailure(t *testing.T) {
	db := newTestDB(t)
	payment, dispatcher := newPaymentFixture(t, db)
	dispatcher.fail = true

	user := seedUser(t, db, "undelivered@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusPaymentPending,
		withPaymentReference("PAY-ROLLBACK01"), withAcknowledgement("MS-ROLL0001"))

	_, err := payment.CompletePayment(context.Background(), &dto.CompletePaymentRequest{PaymentReference: "PAY-ROLLBACK01"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotificationDelivery, apperr.KindOf(err))

	// The confirmation never committed.
	stored := reloadBooking(t, db, booking.ID)
	assert.Equal(t, entity.BookingStatusPaymentPending, stored.Status)
	assert.Nil(t, stored.ConfirmedAt)
}
