package validator

import (
	"calendar-api/core/validator"
	accessEntity "calendar-api/modules/access/entity"
	"calendar-api/modules/calendar/dto"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 1000
)

func ValidateCreateCalendarRequest(req *dto.CreateCalendarRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	result.Required("name", req.Name)
	result.MaxLength("name", req.Name, maxNameLength)
	result.MaxLength("description", req.Description, maxDescriptionLength)
	result.Color("color", req.Color)
	return result
}

func ValidateUpdateCalendarRequest(req *dto.UpdateCalendarRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	if req.Name != nil {
		result.Required("name", *req.Name)
		result.MaxLength("name", *req.Name, maxNameLength)
	}
	if req.Description != nil {
		result.MaxLength("description", *req.Description, maxDescriptionLength)
	}
	result.Color("color", req.Color)
	return result
}

func ValidateSetVisibilityRequest(req *dto.SetVisibilityRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	if req.IsVisible == nil {
		result.AddError("is_visible", "is required")
	}
	return result
}

func ValidateChangeRoleRequest(req *dto.ChangeRoleRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	if _, ok := accessEntity.ParseRole(req.Role); !ok {
		result.AddError("role", "must be one of admin, creator, reader")
	}
	return result
}
