package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	allowed := []struct {
		from, to BookingStatus
	}{
		{BookingStatusDraft, BookingStatusPending},
		{BookingStatusDraft, BookingStatusRejected},
		{BookingStatusPending, BookingStatusApproved},
		{BookingStatusPending, BookingStatusRejected},
		{BookingStatusApproved, BookingStatusPaymentPending},
		{BookingStatusApproved, BookingStatusCancelled},
		{BookingStatusApproved, BookingStatusRejected},
		{BookingStatusPaymentPending, BookingStatusConfirmed},
		{BookingStatusPaymentPending, BookingStatusPaymentFailed},
		{BookingStatusPaymentPending, BookingStatusCancelled},
		{BookingStatusConfirmed, BookingStatusCompleted},
		{BookingStatusConfirmed, BookingStatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	forbidden := []struct {
		from, to BookingStatus
	}{
		{BookingStatusDraft, BookingStatusApproved},
		{BookingStatusDraft, BookingStatusConfirmed},
		{BookingStatusPending, BookingStatusConfirmed},
		{BookingStatusApproved, BookingStatusCompleted},
		{BookingStatusConfirmed, BookingStatusPending},
		{BookingStatusCompleted, BookingStatusCancelled},
		{BookingStatusRejected, BookingStatusPending},
		{BookingStatusCancelled, BookingStatusDraft},
		{BookingStatusPaymentFailed, BookingStatusPaymentPending},
	}
	for _, tc := range forbidden {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s must be refused", tc.from, tc.to)
	}

	// No status may transition to itself.
	for status := range validTransitions {
		assert.False(t, status.CanTransitionTo(status), "%s -> %s must be refused", status, status)
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminal := []BookingStatus{
		BookingStatusCompleted,
		BookingStatusRejected,
		BookingStatusCancelled,
		BookingStatusPaymentFailed,
	}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "%s should be terminal", s)
		assert.False(t, s.IsActive(), "%s should not be active", s)
	}

	for _, s := range ActiveStatuses {
		assert.False(t, s.IsTerminal(), "%s should not be terminal", s)
		assert.True(t, s.IsActive(), "%s should be active", s)
	}
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("PAYMENT_PENDING")
	require.NoError(t, err)
	assert.Equal(t, BookingStatusPaymentPending, status)

	_, err = ParseBookingStatus("pending")
	assert.Error(t, err, "statuses are case sensitive")

	_, err = ParseBookingStatus("SHIPPED")
	assert.Error(t, err)

	assert.False(t, BookingStatus("").IsValid())
	assert.True(t, BookingStatus("").IsTerminal(), "unknown statuses allow no transitions")
}
