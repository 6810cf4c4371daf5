package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so callers can match on the
// category instead of parsing messages.
type Kind string

const (
	KindValidation                Kind = "validation"
	KindInvalidState              Kind = "invalid_state"
	KindIllegalTransition         Kind = "illegal_transition"
	KindVerificationRequired      Kind = "verification_required"
	KindConsentRequired           Kind = "consent_required"
	KindCancellationWindowExpired Kind = "cancellation_window_expired"
	KindNotificationDelivery      Kind = "notification_delivery"
	KindNotFound                  Kind = "not_found"
	KindConflict                  Kind = "conflict"
	KindRateLimited               Kind = "rate_limited"
)

// Error is a tagged application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates an underlying error with a kind and message.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation is shorthand for a malformed-input error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Validationf is shorthand for a formatted malformed-input error.
func Validationf(format string, args ...interface{}) *Error {
	return Newf(KindValidation, format, args...)
}

// InvalidState reports that an operation does not apply to the booking's
// current status, naming the actual status.
func InvalidState(actual string) *Error {
	return Newf(KindInvalidState, "operation not allowed for booking status %s", actual)
}

// IllegalTransition reports a status edge absent from the transition
// table, naming both states.
func IllegalTransition(from, to string) *Error {
	return Newf(KindIllegalTransition, "illegal state transition: %s -> %s", from, to)
}

// NotFound is shorthand for a missing-resource error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// KindOf returns the kind of err, or an empty Kind for untagged errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
