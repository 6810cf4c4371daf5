package usecase

import (
	"strings"
	"time"

	"mindsettler-api/internal/domain/entity"
	"mindsettler-api/pkg/apperr"
)

// Guards are pure predicates over a booking snapshot. Each returns nil on
// success or a tagged error naming the failed precondition. They never
// mutate state; the lifecycle service runs them before every transition.

func ensureStatus(booking *entity.Booking, allowed ...entity.BookingStatus) error {
	for _, s := range allowed {
		if booking.Status == s {
			return nil
		}
	}
	return apperr.InvalidState(string(booking.Status))
}

func ensureEmailVerified(booking *entity.Booking) error {
	if !booking.EmailVerified {
		return apperr.New(apperr.KindVerificationRequired, "email not verified")
	}
	return nil
}

func ensureConsentGiven(booking *entity.Booking) error {
	if !booking.ConsentGiven {
		return apperr.New(apperr.KindConsentRequired, "privacy policy consent required")
	}
	return nil
}

func ensureSlotValid(start, end time.Time) error {
	if !end.After(start) {
		return apperr.Validation("approved slot end must be after slot start")
	}
	return nil
}

// ensureWithinCancellationWindow applies only to confirmed bookings: the
// cancellation must happen no later than cutoff before the approved slot
// start. Exactly at the cutoff is still allowed.
func ensureWithinCancellationWindow(booking *entity.Booking, cutoff time.Duration, now time.Time) error {
	if booking.ApprovedSlotStart == nil {
		return apperr.Validation("approved slot not found")
	}
	deadline := booking.ApprovedSlotStart.Add(-cutoff)
	if now.After(deadline) {
		return apperr.Newf(apperr.KindCancellationWindowExpired,
			"cancellation allowed only up to %s before the session", cutoff)
	}
	return nil
}

func ensureNonEmptyReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperr.Validation("rejection reason is required")
	}
	return nil
}

// validateModePayment checks the mode / payment submethod combination at
// intake. Online bookings need a submethod from the fixed set; offline
// bookings must not carry one.
func validateModePayment(mode entity.BookingMode, paymentMode *entity.PaymentMode) error {
	switch mode {
	case entity.BookingModeOnline:
		if paymentMode == nil {
			return apperr.Validation("payment mode required for online bookings")
		}
		if !paymentMode.IsValidOnline() {
			return apperr.Validationf("invalid online payment mode: %s", *paymentMode)
		}
	case entity.BookingModeOffline:
		if paymentMode != nil {
			return apperr.Validation("payment mode should not be provided for offline bookings")
		}
	default:
		return apperr.Validationf("invalid booking mode: %s", mode)
	}
	return nil
}
