package usecase

import (
	"context"
	"regexp"
	"testing"
	"time"

	"mindsettler-api/internal/domain/entity"
	repoimpl "mindsettler-api/internal/repository"
	"mindsettler-api/internal/service"
	"mindsettler-api/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var acknowledgementPattern = regexp.MustCompile(`^MS-[A-Z0-9]{8}$`)

// TestLifecycleHappyPath walks one booking through every forward
// transition from draft to completed and checks the stamped timestamps
// and audit trail along the way.
func TestLifecycleHappyPath(t *testing.T) {
	db := newTestDB(t)
	clock := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	log := testLogger()
	s := NewLifecycleService(log, repoimpl.NewBookingRepository(), service.NewAuditService(log, repoimpl.NewAuditLogRepository()), testCutoff)
	s.SetClock(func() time.Time { return clock })
	ctx := context.Background()

	user := seedUser(t, db, "walkthrough@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusDraft, func(b *entity.Booking) {
		b.EmailVerified = true
	})

	require.NoError(t, s.Submit(ctx, db, booking))
	assert.Equal(t, entity.BookingStatusPending, booking.Status)
	require.NotNil(t, booking.SubmittedAt)

	slotStart := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	slotEnd := slotStart.Add(time.Hour)
	amount := decimal.NewFromInt(1500)
	warnings, err := s.Approve(ctx, db, nil, booking, slotStart, slotEnd, nil, nil, &amount)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, entity.BookingStatusApproved, booking.Status)
	require.NotNil(t, booking.ApprovedAt)
	require.NotNil(t, booking.Amount)

	ref, err := s.InitiatePayment(ctx, db, booking)
	require.NoError(t, err)
	assert.Regexp(t, `^PAY-[A-Z0-9]{12}$`, ref)
	assert.Equal(t, entity.BookingStatusPaymentPending, booking.Status)

	require.NoError(t, s.CompletePayment(ctx, db, booking))
	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
	require.NotNil(t, booking.ConfirmedAt)
	require.NotNil(t, booking.AcknowledgementID)
	assert.Regexp(t, acknowledgementPattern, *booking.AcknowledgementID)

	// Completing before the slot has elapsed is refused.
	err = s.Complete(ctx, db, nil, booking)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	clock = slotEnd.Add(time.Minute)
	require.NoError(t, s.Complete(ctx, db, nil, booking))
	assert.Equal(t, entity.BookingStatusCompleted, booking.Status)
	require.NotNil(t, booking.CompletedAt)

	// Every transition left an audit entry.
	var auditCount int64
	require.NoError(t, db.Model(&entity.AuditLog{}).
		Where("booking_id = ? AND action = ?", booking.ID, entity.AuditActionBookingTransition).
		Count(&auditCount).Error)
	assert.EqualValues(t, 5, auditCount)

	// The persisted row matches the in-memory state.
	stored := reloadBooking(t, db, booking.ID)
	assert.Equal(t, entity.BookingStatusCompleted, stored.Status)
	assert.Equal(t, *booking.AcknowledgementID, *stored.AcknowledgementID)
}

func TestIllegalTransitionNamesBothStates(t *testing.T) {
	s := newTestLifecycle(t, time.Now())
	booking := &entity.Booking{Status: entity.BookingStatusDraft}

	err := s.transition(booking, entity.BookingStatusConfirmed)
	require.Error(t, err)
	assert.Equal(t, apperr.KindIllegalTransition, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "DRAFT")
	assert.Contains(t, err.Error(), "CONFIRMED")
	// A refused transition leaves the status untouched.
	assert.Equal(t, entity.BookingStatusDraft, booking.Status)
}

func TestInitiatePaymentIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	s := newTestLifecycle(t, time.Now())
	ctx := context.Background()

	user := seedUser(t, db, "idempotent@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusPaymentPending,
		withPaymentReference("PAY-AAAA00001111"))

	versionBefore := booking.Version
	ref, err := s.InitiatePayment(ctx, db, booking)
	require.NoError(t, err)
	assert.Equal(t, "PAY-AAAA00001111", ref)
	assert.Equal(t, versionBefore, booking.Version, "repeat initiation must not write")
}

func TestInitiatePaymentRejectedOutsideApproved(t *testing.T) {
	db := newTestDB(t)
	s := newTestLifecycle(t, time.Now())

	user := seedUser(t, db, "wrongstate@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusPending)

	_, err := s.InitiatePayment(context.Background(), db, booking)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestAcknowledgementIDAssignedOnce(t *testing.T) {
	db := newTestDB(t)
	s := newTestLifecycle(t, time.Now())

	user := seedUser(t, db, "ack@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusDraft)

	require.NoError(t, s.EnsureAcknowledgementID(db, booking))
	require.NotNil(t, booking.AcknowledgementID)
	assert.Regexp(t, acknowledgementPattern, *booking.AcknowledgementID)

	// A second call never replaces an assigned id.
	assigned := *booking.AcknowledgementID
	require.NoError(t, s.EnsureAcknowledgementID(db, booking))
	assert.Equal(t, assigned, *booking.AcknowledgementID)
}

func TestApproveReportsOverlapWithoutBlocking(t *testing.T) {
	db := newTestDB(t)
	s := newTestLifecycle(t, time.Now())
	ctx := context.Background()

	staff := &entity.Staff{FullName: "Dr. Rao", Email: "rao@mindsettler.example", IsActive: true}
	require.NoError(t, db.Create(staff).Error)

	slotStart := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	slotEnd := slotStart.Add(time.Hour)

	userA := seedUser(t, db, "first@example.com")
	seedBooking(t, db, userA, entity.BookingStatusApproved, withSlot(slotStart, slotEnd), func(b *entity.Booking) {
		b.StaffID = &staff.ID
	}, withAcknowledgement("MS-11112222"))

	userB := seedUser(t, db, "second@example.com")
	booking := seedBooking(t, db, userB, entity.BookingStatusPending)

	// Half-overlapping slot for the same staff member.
	warnings, err := s.Approve(ctx, db, nil, booking, slotStart.Add(30*time.Minute), slotEnd.Add(30*time.Minute), &staff.ID, nil, nil)
	require.NoError(t, err, "overlap is advisory, approval must succeed")
	assert.Equal(t, entity.BookingStatusApproved, booking.Status)
	require.Len(t, warnings, 1)
	require.NotNil(t, warnings[0].AcknowledgementID)
	assert.Equal(t, "MS-11112222", *warnings[0].AcknowledgementID)
}

func TestApproveAdjacentSlotIsNotAnOverlap(t *testing.T) {
	db := newTestDB(t)
	s := newTestLifecycle(t, time.Now())

	staff := &entity.Staff{FullName: "Dr. Sen", Email: "sen@mindsettler.example", IsActive: true}
	require.NoError(t, db.Create(staff).Error)

	slotStart := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	slotEnd := slotStart.Add(time.Hour)

	userA := seedUser(t, db, "adjacent-a@example.com")
	seedBooking(t, db, userA, entity.BookingStatusConfirmed, withSlot(slotStart, slotEnd), func(b *entity.Booking) {
		b.StaffID = &staff.ID
	})

	userB := seedUser(t, db, "adjacent-b@example.com")
	booking := seedBooking(t, db, userB, entity.BookingStatusPending)

	// Back-to-back sessions share a boundary instant but do not overlap.
	warnings, err := s.Approve(context.Background(), db, nil, booking, slotEnd, slotEnd.Add(time.Hour), &staff.ID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestConcurrentModificationConflict(t *testing.T) {
	db := newTestDB(t)
	s := newTestLifecycle(t, time.Now())

	user := seedUser(t, db, "concurrent@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusDraft, func(b *entity.Booking) {
		b.EmailVerified = true
	})

	// Another request commits first.
	require.NoError(t, db.Model(&entity.Booking{}).
		Where("id = ?", booking.ID).
		Update("version", booking.Version+1).Error)

	err := s.Submit(context.Background(), db, booking)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRejectRequiresReason(t *testing.T) {
	db := newTestDB(t)
	s := newTestLifecycle(t, time.Now())

	user := seedUser(t, db, "reject@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusPending)

	err := s.Reject(context.Background(), db, nil, booking, "   ", "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, entity.BookingStatusPending, booking.Status)

	require.NoError(t, s.Reject(context.Background(), db, nil, booking, "No availability this week", "Sep 22 10:00, Sep 23 16:00"))
	assert.Equal(t, entity.BookingStatusRejected, booking.Status)
	assert.Equal(t, "No availability this week", booking.RejectionReason)
	require.NotNil(t, booking.RejectedAt)
}

func TestCancelByUserWindow(t *testing.T) {
	db := newTestDB(t)
	slotStart := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	// 10 hours before a confirmed session: inside the 24h cutoff.
	s := newTestLifecycle(t, slotStart.Add(-10*time.Hour))
	ctx := context.Background()

	user := seedUser(t, db, "window@example.com")
	confirmed := seedBooking(t, db, user, entity.BookingStatusConfirmed,
		withSlot(slotStart, slotStart.Add(time.Hour)), withAcknowledgement("MS-DEAD0001"))

	err := s.CancelByUser(ctx, db, confirmed, "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindCancellationWindowExpired, apperr.KindOf(err))
	assert.Equal(t, entity.BookingStatusConfirmed, confirmed.Status)

	// An approved booking has no window: it cancels immediately even
	// this close to the slot.
	user2 := seedUser(t, db, "window2@example.com")
	approved := seedBooking(t, db, user2, entity.BookingStatusApproved,
		withSlot(slotStart, slotStart.Add(time.Hour)))
	require.NoError(t, s.CancelByUser(ctx, db, approved, ""))
	assert.Equal(t, entity.BookingStatusCancelled, approved.Status)
	assert.Equal(t, "Cancelled by user", approved.CancellationReason)
	require.NotNil(t, approved.CancelledBy)
	assert.Equal(t, entity.CancelledByUser, *approved.CancelledBy)
}

func TestCancelByAdminSkipsWindow(t *testing.T) {
	db := newTestDB(t)
	slotStart := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	s := newTestLifecycle(t, slotStart.Add(-time.Hour))
	ctx := context.Background()

	user := seedUser(t, db, "adminwindow@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusConfirmed,
		withSlot(slotStart, slotStart.Add(time.Hour)))

	require.NoError(t, s.CancelByAdmin(ctx, db, nil, booking, "Practitioner unavailable"))
	assert.Equal(t, entity.BookingStatusCancelled, booking.Status)
	require.NotNil(t, booking.CancelledBy)
	assert.Equal(t, entity.CancelledByAdmin, *booking.CancelledBy)

	// Terminal bookings cannot be cancelled again.
	err := s.CancelByAdmin(ctx, db, nil, booking, "again")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestCancelClearsPendingCancellationArtifacts(t *testing.T) {
	db := newTestDB(t)
	slotStart := time.Date(2026, 9, 20, 10, 0, 0, 0, time.UTC)
	s := newTestLifecycle(t, slotStart.Add(-72*time.Hour))

	token := "deadbeefdeadbeefdeadbeefdeadbeef"
	requestedAt := time.Now().UTC()
	user := seedUser(t, db, "artifacts@example.com")
	booking := seedBooking(t, db, user, entity.BookingStatusConfirmed,
		withSlot(slotStart, slotStart.Add(time.Hour)),
		func(b *entity.Booking) {
			b.CancellationToken = &token
			b.CancellationRequestedAt = &requestedAt
		})

	require.NoError(t, s.CancelByUser(context.Background(), db, booking, "changed plans"))
	assert.Nil(t, booking.CancellationToken)
	assert.Nil(t, booking.CancellationRequestedAt)
	assert.Equal(t, "changed plans", booking.CancellationReason)
}
