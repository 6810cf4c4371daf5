package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"mindsettler-api/internal/domain/entity"
	repoimpl "mindsettler-api/internal/repository"
	"mindsettler-api/internal/service"
	"mindsettler-api/pkg/apperr"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an isolated in-memory SQLite database and migrates the
// full schema. Each test gets its own database, so tests can run in
// parallel without bleeding state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Staff{},
		&entity.Organization{},
		&entity.Booking{},
		&entity.AuditLog{},
	))
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeDispatcher records dispatched events and can be flipped to fail so
// tests can assert that a failed delivery rolls the whole operation back.
type fakeDispatcher struct {
	mu     sync.Mutex
	events []service.NotificationEvent
	fail   bool
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, event service.NotificationEvent, booking *entity.Booking) error {
	if d.fail {
		return apperr.New(apperr.KindNotificationDelivery, "smtp unreachable")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDispatcher) sent() []service.NotificationEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]service.NotificationEvent(nil), d.events...)
}

const testCutoff = 24 * time.Hour

// newTestLifecycle builds a lifecycle service against the test database
// with a pinned clock.
func newTestLifecycle(t *testing.T, now time.Time) *LifecycleService {
	t.Helper()
	log := testLogger()
	s := NewLifecycleService(log, repoimpl.NewBookingRepository(), service.NewAuditService(log, repoimpl.NewAuditLogRepository()), testCutoff)
	s.SetClock(func() time.Time { return now })
	return s
}

func seedUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()
	user := &entity.User{Email: email, FullName: "Test User"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedBooking inserts a booking in the given status with sensible
// defaults. Mutators run before the insert.
func seedBooking(t *testing.T, db *gorm.DB, user *entity.User, status entity.BookingStatus, mutate ...func(*entity.Booking)) *entity.Booking {
	t.Helper()

	token, err := NewOpaqueToken()
	require.NoError(t, err)

	booking := &entity.Booking{
		UserID:                 user.ID,
		Status:                 status,
		PreferredDate:          time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		PreferredPeriod:        entity.PeriodMorning,
		Mode:                   entity.BookingModeOffline,
		ConsentGiven:           true,
		EmailVerified:          status != entity.BookingStatusDraft,
		EmailVerificationToken: token,
	}
	for _, m := range mutate {
		m(booking)
	}
	require.NoError(t, db.Create(booking).Error)
	booking.User = *user
	return booking
}

func withSlot(start, end time.Time) func(*entity.Booking) {
	return func(b *entity.Booking) {
		b.ApprovedSlotStart = &start
		b.ApprovedSlotEnd = &end
	}
}

func withAcknowledgement(id string) func(*entity.Booking) {
	return func(b *entity.Booking) {
		b.AcknowledgementID = &id
	}
}

func withPaymentReference(ref string) func(*entity.Booking) {
	return func(b *entity.Booking) {
		b.PaymentReference = &ref
	}
}

func reloadBooking(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.Booking {
	t.Helper()
	var booking entity.Booking
	require.NoError(t, db.First(&booking, "id = ?", id).Error)
	return &booking
}
