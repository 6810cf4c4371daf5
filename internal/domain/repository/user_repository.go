package repository

import (
	"mindsettler-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)

	// GetOrCreateByEmail looks the user up by normalized email and
	// creates a minimal record when none exists.
	GetOrCreateByEmail(db *gorm.DB, email, fullName, phone string) (*entity.User, error)
}
