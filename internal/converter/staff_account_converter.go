package converter

import (
	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/domain/entity"
)

// StaffAccountToResponse converts a StaffAccount entity to its DTO
func StaffAccountToResponse(account *entity.StaffAccount) *dto.StaffAccountResponse {
	if account == nil {
		return nil
	}
	return &dto.StaffAccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
		Role:      string(account.Role),
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}
