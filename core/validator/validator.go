package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"calendar-api/core/controller"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// ValidationResult collects field errors for one request.
type ValidationResult struct {
	Errors []controller.ValidationError `json:"errors"`
}

func NewValidationResult() *ValidationResult {
	return &ValidationResult{}
}

func (v *ValidationResult) AddError(field, message string) {
	v.Errors = append(v.Errors, controller.NewValidationError(field, message))
}

func (v *ValidationResult) HasError() bool {
	return len(v.Errors) > 0
}

// Message joins the collected errors into a single line.
func (v *ValidationResult) Message() string {
	parts := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

func (v *ValidationResult) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
}

func (v *ValidationResult) MaxLength(field, value string, max int) {
	if len([]rune(value)) > max {
		v.AddError(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func (v *ValidationResult) Color(field string, value *string) {
	if value != nil && !hexColorPattern.MatchString(*value) {
		v.AddError(field, "must be a hex color like #3B82F6")
	}
}

func (v *ValidationResult) PositiveDays(field string, value *int) {
	if value != nil && *value < 1 {
		v.AddError(field, "must be an integer >= 1")
	}
}

func (v *ValidationResult) TimeRange(startField string, start, end time.Time) {
	if start.IsZero() || end.IsZero() {
		v.AddError(startField, "start and end are required")
		return
	}
	if !start.Before(end) {
		v.AddError(startField, "must be before end")
	}
}
