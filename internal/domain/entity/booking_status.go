package entity

import "fmt"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	BookingStatusDraft          BookingStatus = "DRAFT"
	BookingStatusPending        BookingStatus = "PENDING"
	BookingStatusApproved       BookingStatus = "APPROVED"
	BookingStatusPaymentPending BookingStatus = "PAYMENT_PENDING"
	BookingStatusConfirmed      BookingStatus = "CONFIRMED"
	BookingStatusCompleted      BookingStatus = "COMPLETED"
	BookingStatusRejected       BookingStatus = "REJECTED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
	BookingStatusPaymentFailed  BookingStatus = "PAYMENT_FAILED"
)

// validTransitions is the authoritative state machine for booking status
// changes. Every transition in the system goes through this table; an edge
// missing here is an illegal transition.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusDraft:          {BookingStatusPending, BookingStatusRejected},
	BookingStatusPending:        {BookingStatusApproved, BookingStatusRejected},
	BookingStatusApproved:       {BookingStatusPaymentPending, BookingStatusCancelled, BookingStatusRejected},
	BookingStatusPaymentPending: {BookingStatusConfirmed, BookingStatusPaymentFailed, BookingStatusCancelled},
	BookingStatusConfirmed:      {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted:      {},
	BookingStatusRejected:       {},
	BookingStatusCancelled:      {},
	BookingStatusPaymentFailed:  {},
}

// ActiveStatuses is the set of statuses in which a booking blocks the
// creation of another booking for the same user.
var ActiveStatuses = []BookingStatus{
	BookingStatusDraft,
	BookingStatusPending,
	BookingStatusApproved,
	BookingStatusPaymentPending,
	BookingStatusConfirmed,
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// IsActive returns true if the status is in the active set.
func (s BookingStatus) IsActive() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
