package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"mindsettler-api/internal/domain/entity"
	"mindsettler-api/internal/domain/repository"
	"mindsettler-api/internal/service"
	"mindsettler-api/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	acknowledgementPrefix   = "MS-"
	acknowledgementAttempts = 5
	paymentReferencePrefix  = "PAY-"
)

// OverlapWarning is an advisory signal returned alongside a successful
// approval when the assigned slot intersects another approved or
// confirmed booking for the same staff member. It never blocks the
// approval; the operator is informed and may override.
type OverlapWarning struct {
	BookingID         uuid.UUID  `json:"booking_id"`
	AcknowledgementID *string    `json:"acknowledgement_id,omitempty"`
	SlotStart         *time.Time `json:"slot_start,omitempty"`
	SlotEnd           *time.Time `json:"slot_end,omitempty"`
}

// LifecycleService owns every booking status transition. All operations
// run their guards in order, mutate the booking, and persist through an
// optimistic version check inside the caller's transaction; the first
// failing guard aborts with no partial mutation. The transition table in
// entity is the single enforcement point — nothing here bypasses it.
type LifecycleService struct {
	log         *logrus.Logger
	bookingRepo repository.BookingRepository
	audit       service.AuditService

	cancellationCutoff time.Duration
	now                func() time.Time
}

func NewLifecycleService(
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	audit service.AuditService,
	cancellationCutoff time.Duration,
) *LifecycleService {
	return &LifecycleService{
		log:                log,
		bookingRepo:        bookingRepo,
		audit:              audit,
		cancellationCutoff: cancellationCutoff,
		now:                time.Now,
	}
}

// SetClock overrides the wall clock, used by tests for window boundaries.
func (s *LifecycleService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *LifecycleService) transition(booking *entity.Booking, target entity.BookingStatus) error {
	if !booking.Status.CanTransitionTo(target) {
		return apperr.IllegalTransition(string(booking.Status), string(target))
	}
	booking.Status = target
	return nil
}

// persist writes the booking with its version check and records the audit
// entry. Zero affected rows means a concurrent transition won; the caller
// gets a conflict and must retry against fresh state.
func (s *LifecycleService) persist(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, booking *entity.Booking, from entity.BookingStatus, note string) error {
	rows, err := s.bookingRepo.UpdateWithVersion(tx, booking)
	if err != nil {
		s.log.Warnf("Failed to persist booking %s: %+v", booking.ID, err)
		return err
	}
	if rows == 0 {
		return apperr.New(apperr.KindConflict, "booking was modified concurrently, please retry")
	}
	if from != booking.Status {
		if err := s.audit.LogTransition(ctx, tx, actorID, booking, from, booking.Status, note); err != nil {
			return err
		}
	}
	return nil
}

// Submit moves a draft to pending once consent and email verification are
// in place.
func (s *LifecycleService) Submit(ctx context.Context, tx *gorm.DB, booking *entity.Booking) error {
	if err := ensureStatus(booking, entity.BookingStatusDraft); err != nil {
		return err
	}
	if err := ensureConsentGiven(booking); err != nil {
		return err
	}
	if err := ensureEmailVerified(booking); err != nil {
		return err
	}

	from := booking.Status
	if err := s.transition(booking, entity.BookingStatusPending); err != nil {
		return err
	}
	now := s.now().UTC()
	booking.SubmittedAt = &now
	return s.persist(ctx, tx, nil, booking, from, "")
}

// Approve assigns the slot, staff and amount to a pending booking. An
// overlapping slot for the same staff member is reported as a warning,
// not a failure.
func (s *LifecycleService) Approve(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, booking *entity.Booking, start, end time.Time, staffID, orgID *uuid.UUID, amount *decimal.Decimal) ([]OverlapWarning, error) {
	if err := ensureStatus(booking, entity.BookingStatusPending); err != nil {
		return nil, err
	}
	if err := ensureSlotValid(start, end); err != nil {
		return nil, err
	}

	var warnings []OverlapWarning
	if staffID != nil {
		overlapping, err := s.bookingRepo.FindOverlapping(tx, *staffID, start, end, booking.ID)
		if err != nil {
			return nil, err
		}
		for _, o := range overlapping {
			warnings = append(warnings, OverlapWarning{
				BookingID:         o.ID,
				AcknowledgementID: o.AcknowledgementID,
				SlotStart:         o.ApprovedSlotStart,
				SlotEnd:           o.ApprovedSlotEnd,
			})
		}
	}

	from := booking.Status
	if err := s.transition(booking, entity.BookingStatusApproved); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	booking.ApprovedSlotStart = &start
	booking.ApprovedSlotEnd = &end
	booking.StaffID = staffID
	booking.OrganizationID = orgID
	if amount != nil {
		booking.Amount = amount
	}
	booking.ApprovedAt = &now

	if err := s.persist(ctx, tx, actorID, booking, from, ""); err != nil {
		return nil, err
	}
	return warnings, nil
}

// Reject refuses a pending or approved booking with a mandatory reason.
func (s *LifecycleService) Reject(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, booking *entity.Booking, reason, alternates string) error {
	if err := ensureStatus(booking, entity.BookingStatusPending, entity.BookingStatusApproved, entity.BookingStatusDraft); err != nil {
		return err
	}
	if err := ensureNonEmptyReason(reason); err != nil {
		return err
	}

	from := booking.Status
	if err := s.transition(booking, entity.BookingStatusRejected); err != nil {
		return err
	}
	now := s.now().UTC()
	booking.RejectionReason = reason
	booking.AlternateSlots = alternates
	booking.RejectedAt = &now
	return s.persist(ctx, tx, actorID, booking, from, reason)
}

// InitiatePayment moves an approved booking to payment pending with a
// fresh opaque reference. It is idempotent: a booking already in payment
// pending returns its existing reference without mutation.
func (s *LifecycleService) InitiatePayment(ctx context.Context, tx *gorm.DB, booking *entity.Booking) (string, error) {
	if booking.Status == entity.BookingStatusPaymentPending && booking.PaymentReference != nil {
		return *booking.PaymentReference, nil
	}
	if err := ensureStatus(booking, entity.BookingStatusApproved); err != nil {
		return "", err
	}

	from := booking.Status
	if err := s.transition(booking, entity.BookingStatusPaymentPending); err != nil {
		return "", err
	}
	ref := newPaymentReference()
	now := s.now().UTC()
	booking.PaymentReference = &ref
	booking.PaymentRequestedAt = &now

	if err := s.persist(ctx, tx, nil, booking, from, ""); err != nil {
		return "", err
	}
	return ref, nil
}

// CompletePayment confirms a payment-pending booking and assigns the
// acknowledgement id if it was never generated.
func (s *LifecycleService) CompletePayment(ctx context.Context, tx *gorm.DB, booking *entity.Booking) error {
	if err := ensureStatus(booking, entity.BookingStatusPaymentPending); err != nil {
		return err
	}

	from := booking.Status
	if err := s.transition(booking, entity.BookingStatusConfirmed); err != nil {
		return err
	}
	now := s.now().UTC()
	booking.ConfirmedAt = &now
	if err := s.EnsureAcknowledgementID(tx, booking); err != nil {
		return err
	}
	return s.persist(ctx, tx, nil, booking, from, "")
}

// FailPayment records a gateway failure for a payment-pending booking.
func (s *LifecycleService) FailPayment(ctx context.Context, tx *gorm.DB, booking *entity.Booking) error {
	if err := ensureStatus(booking, entity.BookingStatusPaymentPending); err != nil {
		return err
	}

	from := booking.Status
	if err := s.transition(booking, entity.BookingStatusPaymentFailed); err != nil {
		return err
	}
	return s.persist(ctx, tx, nil, booking, from, "")
}

// Complete closes a confirmed booking once the approved slot has elapsed.
func (s *LifecycleService) Complete(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, booking *entity.Booking) error {
	if err := ensureStatus(booking, entity.BookingStatusConfirmed); err != nil {
		return err
	}
	if booking.ApprovedSlotEnd == nil || s.now().Before(*booking.ApprovedSlotEnd) {
		return apperr.Validation("session has not elapsed yet")
	}

	from := booking.Status
	if err := s.transition(booking, entity.BookingStatusCompleted); err != nil {
		return err
	}
	now := s.now().UTC()
	booking.CompletedAt = &now
	return s.persist(ctx, tx, actorID, booking, from, "")
}

// CancelByUser cancels on behalf of the user. Approved bookings cancel
// immediately with no cutoff; confirmed bookings only inside the
// cancellation window.
func (s *LifecycleService) CancelByUser(ctx context.Context, tx *gorm.DB, booking *entity.Booking, reason string) error {
	switch booking.Status {
	case entity.BookingStatusApproved:
		// immediate, no window check
	case entity.BookingStatusConfirmed:
		if err := ensureWithinCancellationWindow(booking, s.cancellationCutoff, s.now()); err != nil {
			return err
		}
	default:
		return apperr.InvalidState(string(booking.Status))
	}

	if reason == "" {
		reason = "Cancelled by user"
	}
	return s.cancel(ctx, tx, nil, booking, reason, entity.CancelledByUser)
}

// CancelByAdmin cancels without a window check from any of approved,
// payment pending and confirmed.
func (s *LifecycleService) CancelByAdmin(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, booking *entity.Booking, reason string) error {
	if err := ensureStatus(booking,
		entity.BookingStatusApproved,
		entity.BookingStatusPaymentPending,
		entity.BookingStatusConfirmed,
	); err != nil {
		return err
	}

	if reason == "" {
		reason = "Cancelled by admin"
	}
	return s.cancel(ctx, tx, actorID, booking, reason, entity.CancelledByAdmin)
}

func (s *LifecycleService) cancel(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, booking *entity.Booking, reason string, actor entity.CancelActor) error {
	from := booking.Status
	if err := s.transition(booking, entity.BookingStatusCancelled); err != nil {
		return err
	}
	now := s.now().UTC()
	booking.CancellationReason = reason
	booking.CancelledAt = &now
	booking.CancelledBy = &actor

	// Cleanup cancellation flow artifacts
	booking.CancellationToken = nil
	booking.CancellationRequestedAt = nil

	return s.persist(ctx, tx, actorID, booking, from, reason)
}

// EnsureAcknowledgementID assigns the public reference code exactly once,
// retrying on generation collision. Once set it never changes.
func (s *LifecycleService) EnsureAcknowledgementID(tx *gorm.DB, booking *entity.Booking) error {
	if booking.HasAcknowledgementID() {
		return nil
	}
	for attempt := 0; attempt < acknowledgementAttempts; attempt++ {
		candidate, err := newAcknowledgementID()
		if err != nil {
			return err
		}
		exists, err := s.bookingRepo.AcknowledgementIDExists(tx, candidate)
		if err != nil {
			return err
		}
		if !exists {
			booking.AcknowledgementID = &candidate
			return nil
		}
	}
	return fmt.Errorf("failed to generate a unique acknowledgement id after %d attempts", acknowledgementAttempts)
}

// newAcknowledgementID produces a code like MS-3F9A01BC.
func newAcknowledgementID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate acknowledgement id: %w", err)
	}
	return acknowledgementPrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func newPaymentReference() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return paymentReferencePrefix + strings.ToUpper(raw[:12])
}

// NewOpaqueToken returns an unguessable single-use token for verification
// and cancellation links. Generating a new token simply overwrites the old
// one, so stale links fail lookup instead of needing explicit revocation.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
