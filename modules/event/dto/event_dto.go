package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	CategoryID  uuid.UUID `json:"category_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
}

type UpdateEventRequest struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
}

// ListEventsQuery carries the optional RFC3339 from/to window.
type ListEventsQuery struct {
	From *time.Time
	To   *time.Time
}

type ConfirmEventRequest struct {
	Confirmed *bool `json:"confirmed"`
}

type EventResponse struct {
	ID          uuid.UUID `json:"id"`
	CalendarID  uuid.UUID `json:"calendar_id"`
	CategoryID  uuid.UUID `json:"category_id"`
	CreatorID   uuid.UUID `json:"creator_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type EventParticipantResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	HasConfirmed bool      `json:"has_confirmed"`
	JoinedAt     time.Time `json:"joined_at"`
}
