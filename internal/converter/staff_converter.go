package converter

import (
	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/domain/entity"
)

// StaffToResponse converts a Staff entity to StaffResponse DTO
func StaffToResponse(staff *entity.Staff) *dto.StaffResponse {
	if staff == nil {
		return nil
	}
	return &dto.StaffResponse{
		ID:             staff.ID,
		FullName:       staff.FullName,
		Email:          staff.Email,
		Specialization: staff.Specialization,
		IsActive:       staff.IsActive,
		CreatedAt:      staff.CreatedAt,
		UpdatedAt:      staff.UpdatedAt,
	}
}

// StaffToResponses converts a slice of Staff entities to response DTOs
func StaffToResponses(staff []entity.Staff) []dto.StaffResponse {
	responses := make([]dto.StaffResponse, len(staff))
	for i, s := range staff {
		responses[i] = *StaffToResponse(&s)
	}
	return responses
}

// OrganizationToResponse converts an Organization entity to its DTO
func OrganizationToResponse(org *entity.Organization) *dto.OrganizationResponse {
	if org == nil {
		return nil
	}
	return &dto.OrganizationResponse{
		ID:           org.ID,
		Name:         org.Name,
		ContactEmail: org.ContactEmail,
		CreatedAt:    org.CreatedAt,
		UpdatedAt:    org.UpdatedAt,
	}
}

// OrganizationsToResponses converts a slice of Organization entities to response DTOs
func OrganizationsToResponses(orgs []entity.Organization) []dto.OrganizationResponse {
	responses := make([]dto.OrganizationResponse, len(orgs))
	for i, o := range orgs {
		responses[i] = *OrganizationToResponse(&o)
	}
	return responses
}
