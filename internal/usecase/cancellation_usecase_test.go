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

func newCancellationFixture(t *testing.T, db *gorm.DB, now time.Time) (CancellationUsecase, *fakeDispatcher) {
	t.Helper()
	log := testLogger()
	bookingRepo := repoimpl.NewBookingRepository()
	audit := service.NewAuditService(log, repoimpl.NewAuditLogRepository())
	lifecycle := NewLifecycleService(log, bookingRepo, audit, testCutoff)
	lifecycle.SetClock(func() time.Time { return now })
	dispatcher := &fakeDispatcher{}

	u := NewCancellationUsecase(db, log, validator.New(), bookingRepo, lifecycle, dispatcher, testCutoff)
	u.(*cancellationUsecase).now = func() time.Time { return now }
	return u, dispatcher
}

func TestRequestCancellationApprovedIsImmediate(t *testing.T) {
	db := newTestDB(t)
	slotStart := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	cancel, dispatcher := newCancellationFixture(t, db, slotStart.Add(-2*time.Hour))

	user := seedUser(t, db, "approved@example.com")
	seedBooking(t, db, user, entity.BookingStatusApproved,
		withSlot(slotStart, slotStart.Add(time.Hour)), withAcknowledgement("MS-APPR0001"))

	resp, err := cancel.RequestCancellation(context.Background(), &dto.RequestCancellationRequest{
		AcknowledgementID: "MS-APPR0001",
		Email:             "approved@example.com",
	})
	require.NoError(t, err)
	assert.True(t, resp.Cancelled)
	assert.False(t, resp.VerificationSent)
	assert.Equal(t, "CANCELLED", resp.Booking.Status)
	assert.Equal(t, []service.NotificationEvent{service.EventCancellation}, dispatcher.sent())
}

func TestRequestCancellationConfirmedIsTwoPhase(t *testing.T) {
	db := newTestDB(t)
	slotStart := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	now := slotStart.Add(-72 * time.Hour)
	cancel, dispatcher := newCancellationFixture(t, db, now)
	ctx := context.Background()

	user := seedUser(t, db, "confirmed@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusConfirmed,
		withSlot(slotStart, slotStart.Add(time.Hour)), withAcknowledgement("MS-CONF0001"))

	resp, err := cancel.RequestCancellation(ctx, &dto.RequestCancellationRequest{
		AcknowledgementID: "MS-CONF0001",
		Email:             "confirmed@example.com",
		Reason:            "schedule conflict",
	})
	require.NoError(t, err)
	assert.False(t, resp.Cancelled, "confirmed bookings need link confirmation")
	assert.True(t, resp.VerificationSent)
	assert.Equal(t, []service.NotificationEvent{service.EventCancellationVerify}, dispatcher.sent())

	stored := reloadBooking(t, db, booking.ID)
	assert.Equal(t, entity.BookingStatusConfirmed, stored.Status, "status unchanged until the link is followed")
	require.NotNil(t, stored.CancellationToken)

	verified, err := cancel.VerifyCancellation(ctx, *stored.CancellationToken)
	require.NoError(t, err)
	assert.True(t, verified.Cancelled)
	assert.Equal(t, "CANCELLED", verified.Booking.Status)

	final := reloadBooking(t, db, booking.ID)
	assert.Equal(t, entity.BookingStatusCancelled, final.Status)
	assert.Equal(t, "schedule conflict", final.CancellationReason)
	assert.Nil(t, final.CancellationToken)
}

func TestRequestCancellationWindowExpired(t *testing.T) {
	db := newTestDB(t)
	slotStart := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	// 6 hours out: inside the 24h cutoff, too late to cancel.
	cancel, _ := newCancellationFixture(t, db, slotStart.Add(-6*time.Hour))

	user := seedUser(t, db, "late@example.com")
	seedBooking(t, db, user, entity.BookingStatusConfirmed,
		withSlot(slotStart, slotStart.Add(time.Hour)), withAcknowledgement("MS-LATE0001"))

	_, err := cancel.RequestCancellation(context.Background(), &dto.RequestCancellationRequest{
		AcknowledgementID: "MS-LATE0001",
		Email:             "late@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindCancellationWindowExpired, apperr.KindOf(err))
}

func TestRequestCancellationHidesForeignBookings(t *testing.T) {
	db := newTestDB(t)
	cancel, _ := newCancellationFixture(t, db, time.Now())

	user := seedUser(t, db, "owner@example.com")
	slotStart := time.Now().Add(96 * time.Hour)
	seedBooking(t, db, user, entity.BookingStatusConfirmed,
		withSlot(slotStart, slotStart.Add(time.Hour)), withAcknowledgement("MS-OWND0001"))

	// A valid acknowledgement with someone else's email reads the same
	// as an unknown acknowledgement.
	_, err := cancel.RequestCancellation(context.Background(), &dto.RequestCancellationRequest{
		AcknowledgementID: "MS-OWND0001",
		Email:             "intruder@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = cancel.RequestCancellation(context.Background(), &dto.RequestCancellationRequest{
		AcknowledgementID: "MS-MISSING1",
		Email:             "owner@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestVerifyCancellationUnknownToken(t *testing.T) {
	db := newTestDB(t)
	cancel, _ := newCancellationFixture(t, db, time.Now())

	_, err := cancel.VerifyCancellation(context.Background(), "stale-token")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
