package validator

import (
	"calendar-api/core/validator"
	"calendar-api/modules/category/dto"
)

const maxNameLength = 100

func ValidateCreateCategoryRequest(req *dto.CreateCategoryRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	result.Required("name", req.Name)
	result.MaxLength("name", req.Name, maxNameLength)
	result.Color("color", req.Color)
	return result
}

func ValidateUpdateCategoryRequest(req *dto.UpdateCategoryRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	if req.Name != nil {
		result.Required("name", *req.Name)
		result.MaxLength("name", *req.Name, maxNameLength)
	}
	result.Color("color", req.Color)
	return result
}
