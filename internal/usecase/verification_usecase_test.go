package usecase

import (
	"context"
	"testing"
	"time"

	"mindsettler-api/internal/domain/entity"
	repoimpl "mindsettler-api/internal/repository"
	"mindsettler-api/internal/service"
	"mindsettler-api/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newVerificationFixture(t *testing.T, db *gorm.DB) VerificationUsecase {
	t.Helper()
	log := testLogger()
	bookingRepo := repoimpl.NewBookingRepository()
	audit := service.NewAuditService(log, repoimpl.NewAuditLogRepository())
	lifecycle := NewLifecycleService(log, bookingRepo, audit, testCutoff)
	return NewVerificationUsecase(db, log, bookingRepo, repoimpl.NewUserRepository(), lifecycle, audit)
}

func TestVerifyEmailSubmitsDraft(t *testing.T) {
	db := newTestDB(t)
	verify := newVerificationFixture(t, db)

	user := seedUser(t, db, "verify@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusDraft)

	resp, err := verify.VerifyEmail(context.Background(), booking.EmailVerificationToken)
	require.NoError(t, err)
	assert.True(t, resp.Verified)
	assert.Equal(t, "PENDING", resp.Status)
	require.NotNil(t, resp.AcknowledgementID)
	assert.Regexp(t, acknowledgementPattern, *resp.AcknowledgementID)

	stored := reloadBooking(t, db, booking.ID)
	assert.True(t, stored.EmailVerified)
	require.NotNil(t, stored.EmailVerifiedAt)
	require.NotNil(t, stored.SubmittedAt)
	assert.Equal(t, entity.BookingStatusPending, stored.Status)

	// The user record is flagged as verified too.
	var storedUser entity.User
	require.NoError(t, db.First(&storedUser, "id = ?", user.ID).Error)
	assert.True(t, storedUser.IsVerified)
}

func TestVerifyEmailIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	verify := newVerificationFixture(t, db)

	user := seedUser(t, db, "repeat@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusDraft)

	first, err := verify.VerifyEmail(context.Background(), booking.EmailVerificationToken)
	require.NoError(t, err)

	second, err := verify.VerifyEmail(context.Background(), booking.EmailVerificationToken)
	require.NoError(t, err)
	assert.True(t, second.Verified)
	assert.Equal(t, first.Status, second.Status)
	require.NotNil(t, second.AcknowledgementID)
	assert.Equal(t, *first.AcknowledgementID, *second.AcknowledgementID)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	db := newTestDB(t)
	verify := newVerificationFixture(t, db)

	_, err := verify.VerifyEmail(context.Background(), "no-such-token")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = verify.VerifyEmail(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

// TestVerifyEmailMissingUserIsAnError checks that a booking pointing at a
// user row that no longer exists fails verification loudly instead of
// proceeding with a dangling reference.
func TestVerifyEmailMissingUserIsAnError(t *testing.T) {
	db := newTestDB(t)
	verify := newVerificationFixture(t, db)

	user := seedUser(t, db, "gone@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusDraft)
	require.NoError(t, db.Delete(&entity.User{}, "id = ?", user.ID).Error)

	_, err := verify.VerifyEmail(context.Background(), booking.EmailVerificationToken)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	stored := reloadBooking(t, db, booking.ID)
	assert.Equal(t, entity.BookingStatusDraft, stored.Status)
	assert.False(t, stored.EmailVerified)
}

func TestVerifyEmailAutoRejectsWhenAnotherBookingIsActive(t *testing.T) {
	db := newTestDB(t)
	verify := newVerificationFixture(t, db)

	user := seedUser(t, db, "double@example.com")
	slotStart := time.Now().Add(72 * time.Hour)
	seedBooking(t, db, user, entity.BookingStatusConfirmed,
		withSlot(slotStart, slotStart.Add(time.Hour)), withAcknowledgement("MS-FIRST001"))
	draft := seedBooking(t, db, user, entity.BookingStatusDraft)

	resp, err := verify.VerifyEmail(context.Background(), draft.EmailVerificationToken)
	require.NoError(t, err)
	assert.True(t, resp.Verified)
	assert.True(t, resp.AutoRejected)
	assert.Equal(t, "REJECTED", resp.Status)

	stored := reloadBooking(t, db, draft.ID)
	assert.Equal(t, entity.BookingStatusRejected, stored.Status)
	assert.Equal(t, "Another active booking exists", stored.RejectionReason)
	assert.Nil(t, stored.AcknowledgementID, "rejected drafts never get a public reference")
}
