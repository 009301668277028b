package dto

import (
	"time"

	"github.com/google/uuid"
)

// ========== Calendar DTOs ==========

type CreateCalendarRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Color       *string `json:"color"`
	IsHoliday   bool    `json:"is_holiday"`
}

type UpdateCalendarRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

type SetVisibilityRequest struct {
	IsVisible *bool `json:"is_visible"`
}

// CalendarResponse is a calendar as seen by the caller. Role is "owner" for their own calendars.
type CalendarResponse struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	OwnerUsername string    `json:"owner_username,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Color         string    `json:"color"`
	IsMain        bool      `json:"is_main"`
	IsHoliday     bool      `json:"is_holiday"`
	IsVisible     bool      `json:"is_visible"`
	IsOwner       bool      `json:"is_owner"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ========== Participant DTOs ==========

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

type ParticipantResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ParticipantsResponse lists the owner separately; Participants never contains the owner.
type ParticipantsResponse struct {
	Owner        UserResponse           `json:"owner"`
	Participants []*ParticipantResponse `json:"participants"`
}

// ========== Export DTOs ==========

type PublishExportResponse struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}
