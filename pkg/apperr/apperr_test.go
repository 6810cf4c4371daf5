package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := New(KindConflict, "booking was modified concurrently")
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))

	// Untagged errors have no kind.
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := Validation("bad input")
	wrapped := fmt.Errorf("handling request: %w", inner)
	assert.Equal(t, KindValidation, KindOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(KindNotificationDelivery, "failed to send notification email", cause)

	assert.Equal(t, KindNotificationDelivery, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to send notification email")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestConstructors(t *testing.T) {
	err := IllegalTransition("DRAFT", "CONFIRMED")
	require.Equal(t, KindIllegalTransition, KindOf(err))
	assert.Equal(t, "illegal state transition: DRAFT -> CONFIRMED", err.Error())

	err = InvalidState("REJECTED")
	require.Equal(t, KindInvalidState, KindOf(err))
	assert.Contains(t, err.Error(), "REJECTED")

	assert.Equal(t, KindNotFound, KindOf(NotFound("booking not found")))
	assert.Equal(t, KindValidation, KindOf(Validationf("unknown status %q", "SHIPPED")))
}
