package usecase

import (
	"context"
	"testing"
	"time"

	"mindsettler-api/internal/domain/entity"
	repoimpl "mindsettler-api/internal/repository"
	"mindsettler-api/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQueryFixture(t *testing.T, db *gorm.DB) BookingQueryUsecase {
	t.Helper()
	return NewBookingQueryUsecase(db, testLogger(), repoimpl.NewBookingRepository(), repoimpl.NewUserRepository())
}

func TestGetStatusTimeline(t *testing.T) {
	db := newTestDB(t)
	query := newQueryFixture(t, db)

	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	verified := base.Add(10 * time.Minute)
	submitted := base.Add(11 * time.Minute)
	approved := base.Add(2 * time.Hour)

	user := seedUser(t, db, "timeline@example.com")
	seedBooking(t, db, user, entity.BookingStatusApproved,
		withAcknowledgement("MS-TIME0001"),
		func(b *entity.Booking) {
			b.EmailVerifiedAt = &verified
			b.SubmittedAt = &submitted
			b.ApprovedAt = &approved
		})

	resp, err := query.GetStatus(context.Background(), "MS-TIME0001")
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)

	// Only reached milestones appear, ordered by time; creation is
	// always first.
	require.Len(t, resp.Timeline, 4)
	milestones := make([]string, len(resp.Timeline))
	for i, e := range resp.Timeline {
		milestones[i] = e.Milestone
	}
	assert.Equal(t, []string{"created", "email_verified", "submitted", "approved"}, milestones)
	for i := 1; i < len(resp.Timeline); i++ {
		assert.False(t, resp.Timeline[i].At.Before(resp.Timeline[i-1].At), "timeline must be chronological")
	}
}

func TestGetStatusUnknownAcknowledgement(t *testing.T) {
	db := newTestDB(t)
	query := newQueryFixture(t, db)

	_, err := query.GetStatus(context.Background(), "MS-MISSING1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = query.GetStatus(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestListByEmail(t *testing.T) {
	db := newTestDB(t)
	query := newQueryFixture(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "history@example.com")
	seedBooking(t, db, user, entity.BookingStatusRejected)
	seedBooking(t, db, user, entity.BookingStatusPending)

	resp, err := query.ListByEmail(ctx, "history@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	// An unknown email is an empty list, not an error.
	empty, err := query.ListByEmail(ctx, "stranger@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Bookings)
}

func TestGetActiveBooking(t *testing.T) {
	db := newTestDB(t)
	query := newQueryFixture(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "active@example.com")
	seedBooking(t, db, user, entity.BookingStatusRejected)

	// Terminal bookings are not active.
	_, err := query.GetActiveBooking(ctx, "active@example.com")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	seedBooking(t, db, user, entity.BookingStatusConfirmed, withAcknowledgement("MS-ACTV0001"))
	resp, err := query.GetActiveBooking(ctx, "active@example.com")
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
}

func TestHasActiveBooking(t *testing.T) {
	db := newTestDB(t)
	query := newQueryFixture(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "holder@example.com")
	seedBooking(t, db, user, entity.BookingStatusCancelled)

	// Terminal bookings and unknown users both answer false.
	has, err := query.HasActiveBooking(ctx, "holder@example.com")
	require.NoError(t, err)
	assert.False(t, has)

	has, err = query.HasActiveBooking(ctx, "stranger@example.com")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = query.HasActiveBooking(ctx, "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	seedBooking(t, db, user, entity.BookingStatusPending)
	has, err = query.HasActiveBooking(ctx, "holder@example.com")
	require.NoError(t, err)
	assert.True(t, has)
}
