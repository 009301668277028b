package validator

import (
	"regexp"

	"calendar-api/core/utils"
	"calendar-api/core/validator"
	"calendar-api/modules/auth/dto"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)

const minPasswordLength = 8

func ValidateRegisterRequest(req *dto.RegisterRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()

	if !usernamePattern.MatchString(req.Username) {
		result.AddError("username", "must be 3-50 characters of letters, digits, '_', '.' or '-'")
	}
	if !utils.IsValidEmail(req.Email) {
		result.AddError("email", "must be a valid email address")
	}
	if len(req.Password) < minPasswordLength {
		result.AddError("password", "must be at least 8 characters")
	}
	result.MaxLength("full_name", req.FullName, 255)

	return result
}

func ValidateLoginRequest(req *dto.LoginRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	result.Required("identifier", req.Identifier)
	result.Required("password", req.Password)
	return result
}

func ValidateRefreshTokenRequest(req *dto.RefreshTokenRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	result.Required("refresh_token", req.RefreshToken)
	return result
}
