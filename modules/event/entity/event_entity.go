package entity

import (
	"time"

	"calendar-api/core/entity"

	"github.com/google/uuid"
)

type Event struct {
	entity.BaseEntity
	CalendarID  uuid.UUID `db:"calendar_id" json:"calendar_id"`
	CategoryID  uuid.UUID `db:"category_id" json:"category_id"`
	CreatorID   uuid.UUID `db:"creator_id" json:"creator_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Location    string    `db:"location" json:"location"`
	StartAt     time.Time `db:"start_at" json:"start_at"`
	EndAt       time.Time `db:"end_at" json:"end_at"`
}

// EventParticipant is a user attached to a single event, independent of calendar membership.
type EventParticipant struct {
	ID           uuid.UUID `db:"id" json:"id"`
	EventID      uuid.UUID `db:"event_id" json:"event_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	HasConfirmed bool      `db:"has_confirmed" json:"has_confirmed"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type EventParticipantDetail struct {
	EventParticipant
	Username string `db:"username"`
	Email    string `db:"email"`
}

// TimeRange bounds event listing; nil ends are open.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}
