package usecase

import (
	"context"
	"testing"

	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/domain/entity"
	repoimpl "mindsettler-api/internal/repository"
	"mindsettler-api/internal/service"
	"mindsettler-api/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStaffFixture(t *testing.T, db *gorm.DB) StaffUsecase {
	t.Helper()
	log := testLogger()
	audit := service.NewAuditService(log, repoimpl.NewAuditLogRepository())
	return NewStaffUsecase(db, log, validator.New(), repoimpl.NewStaffRepository(), repoimpl.NewOrganizationRepository(), audit)
}

func TestCreateAndListStaff(t *testing.T) {
	db := newTestDB(t)
	staff := newStaffFixture(t, db)
	ctx := context.Background()
	actorID := uuid.New()

	created, err := staff.CreateStaff(ctx, actorID, &dto.CreateStaffRequest{
		FullName:       "Dr. Mehta",
		Email:          "mehta@mindsettler.example",
		Specialization: "Clinical Psychology",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsActive)

	list, err := staff.ListStaff(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Dr. Mehta", list.Staff[0].FullName)

	// Creation is audited with the acting account.
	var audit entity.AuditLog
	require.NoError(t, db.First(&audit, "action = ?", entity.AuditActionStaffCreate).Error)
	require.NotNil(t, audit.ActorID)
	assert.Equal(t, actorID, *audit.ActorID)
}

func TestCreateStaffValidation(t *testing.T) {
	db := newTestDB(t)
	staff := newStaffFixture(t, db)

	_, err := staff.CreateStaff(context.Background(), uuid.New(), &dto.CreateStaffRequest{
		FullName: "No Email",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateAndListOrganizations(t *testing.T) {
	db := newTestDB(t)
	staff := newStaffFixture(t, db)
	ctx := context.Background()

	created, err := staff.CreateOrganization(ctx, uuid.New(), &dto.CreateOrganizationRequest{
		Name:         "Acme Wellness",
		ContactEmail: "hr@acme.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Wellness", created.Name)

	list, err := staff.ListOrganizations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}
