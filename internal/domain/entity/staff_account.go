package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffRole is the access level of an operator account.
type StaffRole string

const (
	StaffRoleAdmin    StaffRole = "admin"
	StaffRoleOperator StaffRole = "operator"
)

// StaffAccount is a login for the operator surface. End users never have
// accounts; only staff authenticate.
type StaffAccount struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FullName  string    `gorm:"type:varchar(120);not null" json:"full_name"`
	Role      StaffRole `gorm:"type:varchar(20);not null;default:'operator'" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StaffAccount) TableName() string {
	return "staff_accounts"
}

func (a *StaffAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
