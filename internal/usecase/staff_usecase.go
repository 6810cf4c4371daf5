package usecase

import (
	"context"
	"errors"
	"strings"

	"mindsettler-api/internal/converter"
	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/domain/entity"
	"mindsettler-api/internal/domain/repository"
	"mindsettler-api/internal/service"
	"mindsettler-api/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type StaffUsecase interface {
	CreateStaff(ctx context.Context, actorID uuid.UUID, req *dto.CreateStaffRequest) (*dto.StaffResponse, error)
	ListStaff(ctx context.Context) (*dto.StaffListResponse, error)
	CreateOrganization(ctx context.Context, actorID uuid.UUID, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error)
	ListOrganizations(ctx context.Context) (*dto.OrganizationListResponse, error)
}

type staffUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	validate  *validator.Validate
	staffRepo repository.StaffRepository
	orgRepo   repository.OrganizationRepository
	audit     service.AuditService
}

func NewStaffUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.Validate,
	staffRepo repository.StaffRepository,
	orgRepo repository.OrganizationRepository,
	audit service.AuditService,
) StaffUsecase {
	return &staffUsecase{
		db:        db,
		log:       log,
		validate:  validate,
		staffRepo: staffRepo,
		orgRepo:   orgRepo,
		audit:     audit,
	}
}

func (u *staffUsecase) CreateStaff(ctx context.Context, actorID uuid.UUID, req *dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid staff request", err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	staff := &entity.Staff{
		FullName:       req.FullName,
		Email:          req.Email,
		Specialization: req.Specialization,
		IsActive:       true,
	}
	if err := u.staffRepo.Create(tx, staff); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, apperr.New(apperr.KindConflict, "staff member with this email already exists")
		}
		u.log.Warnf("Failed to create staff: %+v", err)
		return nil, err
	}

	if err := u.audit.LogAction(ctx, tx, &actorID, entity.AuditActionStaffCreate, nil, entity.JSON{
		"staff_id": staff.ID.String(),
		"email":    staff.Email,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.log.Infof("Staff created: id=%s, email=%s", staff.ID, staff.Email)
	return converter.StaffToResponse(staff), nil
}

func (u *staffUsecase) ListStaff(ctx context.Context) (*dto.StaffListResponse, error) {
	staff, err := u.staffRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list staff: %+v", err)
		return nil, err
	}
	return &dto.StaffListResponse{
		Staff: converter.StaffToResponses(staff),
		Total: len(staff),
	}, nil
}

func (u *staffUsecase) CreateOrganization(ctx context.Context, actorID uuid.UUID, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid organization request", err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	org := &entity.Organization{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
	}
	if err := u.orgRepo.Create(tx, org); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, apperr.New(apperr.KindConflict, "organization with this name already exists")
		}
		u.log.Warnf("Failed to create organization: %+v", err)
		return nil, err
	}

	if err := u.audit.LogAction(ctx, tx, &actorID, entity.AuditActionOrgCreate, nil, entity.JSON{
		"organization_id": org.ID.String(),
		"name":            org.Name,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.log.Infof("Organization created: id=%s, name=%s", org.ID, org.Name)
	return converter.OrganizationToResponse(org), nil
}

func (u *staffUsecase) ListOrganizations(ctx context.Context) (*dto.OrganizationListResponse, error) {
	orgs, err := u.orgRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list organizations: %+v", err)
		return nil, err
	}
	return &dto.OrganizationListResponse{
		Organizations: converter.OrganizationsToResponses(orgs),
		Total:         len(orgs),
	}, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
