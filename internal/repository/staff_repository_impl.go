package repository

import (
	"errors"

	"mindsettler-api/internal/domain/entity"
	domainRepo "mindsettler-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type staffRepository struct{}

func NewStaffRepository() domainRepo.StaffRepository {
	return &staffRepository{}
}

func (r *staffRepository) Create(db *gorm.DB, staff *entity.Staff) error {
	return db.Create(staff).Error
}

func (r *staffRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Staff, error) {
	var staff entity.Staff
	err := db.Where("id = ?", id).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) FindAll(db *gorm.DB) ([]entity.Staff, error) {
	var staff []entity.Staff
	err := db.Order("full_name ASC").Find(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

type organizationRepository struct{}

func NewOrganizationRepository() domainRepo.OrganizationRepository {
	return &organizationRepository{}
}

func (r *organizationRepository) Create(db *gorm.DB, org *entity.Organization) error {
	return db.Create(org).Error
}

func (r *organizationRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Organization, error) {
	var org entity.Organization
	err := db.Where("id = ?", id).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) FindAll(db *gorm.DB) ([]entity.Organization, error) {
	var orgs []entity.Organization
	err := db.Order("name ASC").Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}
