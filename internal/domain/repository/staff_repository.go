package repository

import (
	"mindsettler-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRepository interface {
	Create(db *gorm.DB, staff *entity.Staff) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Staff, error)
	FindAll(db *gorm.DB) ([]entity.Staff, error)
}

type OrganizationRepository interface {
	Create(db *gorm.DB, org *entity.Organization) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Organization, error)
	FindAll(db *gorm.DB) ([]entity.Organization, error)
}
