package validator

import (
	"calendar-api/core/validator"
	"calendar-api/modules/event/dto"

	"github.com/google/uuid"
)

const (
	maxTitleLength    = 200
	maxLocationLength = 255
)

func ValidateCreateEventRequest(req *dto.CreateEventRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	result.Required("title", req.Title)
	result.MaxLength("title", req.Title, maxTitleLength)
	result.MaxLength("location", req.Location, maxLocationLength)
	result.TimeRange("start_at", req.StartAt, req.EndAt)
	return result
}

// ValidateUpdateEventRequest checks the fields present; the merged time range is checked by the service.
func ValidateUpdateEventRequest(req *dto.UpdateEventRequest) *validator.ValidationResult {
	result := validator.NewValidationResult()
	if req.Title != nil {
		result.Required("title", *req.Title)
		result.MaxLength("title", *req.Title, maxTitleLength)
	}
	if req.Location != nil {
		result.MaxLength("location", *req.Location, maxLocationLength)
	}
	if req.CategoryID != nil && *req.CategoryID == uuid.Nil {
		result.AddError("category_id", "must be a valid id")
	}
	return result
}

func ValidateListEventsQuery(q *dto.ListEventsQuery) *validator.ValidationResult {
	result := validator.NewValidationResult()
	if q.From != nil && q.To != nil && !q.From.Before(*q.To) {
		result.AddError("from", "must be before to")
	}
	return result
}
