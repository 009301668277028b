package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"calendar-api/core/entity"

	"github.com/google/uuid"
)

// Notification types
const (
	TypeParticipantJoined   = "calendar.participant_joined"
	TypeParticipantLeft     = "calendar.participant_left"
	TypeRoleChanged         = "calendar.role_changed"
	TypeRemovedFromCalendar = "calendar.participant_removed"
	TypeEmailInviteAccepted = "calendar.email_invite_accepted"
	TypeEventInviteAccepted = "event.invite_accepted"
)

type Notification struct {
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
	Title   string    `db:"title" json:"title"`
	Message string    `db:"message" json:"message"`
	Type    string    `db:"type" json:"type"`
	Data    JSONB     `db:"data" json:"data"`
	IsRead  bool      `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

func (a *JSONB) Scan(value any) error {
	if value == nil {
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, a)
}

// ListFilter narrows a user's notification feed. Zero values match everything.
type ListFilter struct {
	UnreadOnly bool
	Type       string
	CalendarID *uuid.UUID
}

type PaginatedNotificationEntity = entity.Pagination[Notification]
