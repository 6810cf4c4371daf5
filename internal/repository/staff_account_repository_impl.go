package repository

import (
	"errors"

	"mindsettler-api/internal/domain/entity"
	domainRepo "mindsettler-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type staffAccountRepository struct{}

func NewStaffAccountRepository() domainRepo.StaffAccountRepository {
	return &staffAccountRepository{}
}

func (r *staffAccountRepository) Create(db *gorm.DB, account *entity.StaffAccount) error {
	account.Email = NormalizeEmail(account.Email)
	return db.Create(account).Error
}

func (r *staffAccountRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.StaffAccount, error) {
	var account entity.StaffAccount
	err := db.Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *staffAccountRepository) FindByEmail(db *gorm.DB, email string) (*entity.StaffAccount, error) {
	var account entity.StaffAccount
	err := db.Where("email = ?", NormalizeEmail(email)).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}
