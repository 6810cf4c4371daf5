package repository

import (
	"mindsettler-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffAccountRepository interface {
	Create(db *gorm.DB, account *entity.StaffAccount) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.StaffAccount, error)
	FindByEmail(db *gorm.DB, email string) (*entity.StaffAccount, error)
}
