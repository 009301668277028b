package validator

import (
	"fmt"

	"calendar-api/core/constants"
	"calendar-api/core/utils"
	"calendar-api/core/validator"
	accessEntity "calendar-api/modules/access/entity"
	"calendar-api/modules/invitation/dto"
)

func ValidateCreateInviteLinkRequest(req *dto.CreateInviteLinkRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	result.PositiveDays("expire_in_days", req.ExpireInDays)
	validateRole(result, req.Role)
	return result
}

func ValidateAcceptInviteLinkRequest(req *dto.AcceptInviteLinkRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	validateRole(result, req.Role)
	return result
}

func ValidateCreateCalendarEmailInvitesRequest(req *dto.CreateCalendarEmailInvitesRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	validateEmails(result, req.Emails)
	validateRole(result, req.Role)
	result.PositiveDays("expire_in_days", req.ExpireInDays)
	return result
}

func ValidateCreateEventEmailInvitesRequest(req *dto.CreateEventEmailInvitesRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	validateEmails(result, req.Emails)
	result.PositiveDays("expire_in_days", req.ExpireInDays)
	return result
}

func validateRole(result *validator.ValidationResult, role *string) {
	if role == nil {
		return
	}
	if _, ok := accessEntity.ParseRole(*role); !ok {
		result.AddError("role", "must be one of admin, creator, reader")
	}
}

func validateEmails(result *validator.ValidationResult, emails []string) {
	if len(emails) == 0 {
		result.AddError("emails", "at least one email is required")
		return
	}
	if len(emails) > constants.MaxEmailsPerInviteBatch {
		result.AddError("emails", fmt.Sprintf("at most %d emails per request", constants.MaxEmailsPerInviteBatch))
		return
	}
	for i, email := range emails {
		if !utils.IsValidEmail(email) {
			result.AddError(fmt.Sprintf("emails[%d]", i), "is not a valid email address")
		}
	}
}
