package entity

import (
	"time"

	"calendar-api/core/entity"
	accessEntity "calendar-api/modules/access/entity"

	"github.com/google/uuid"
)

type Calendar struct {
	entity.BaseEntity
	OwnerID     uuid.UUID `db:"owner_id" json:"owner_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Color       string    `db:"color" json:"color"`
	IsMain      bool      `db:"is_main" json:"is_main"`
	IsHoliday   bool      `db:"is_holiday" json:"is_holiday"`
	IsVisible   bool      `db:"is_visible" json:"is_visible"`
}

// CalendarWithAccess is a calendar as seen by one user. Role is empty for the owner.
type CalendarWithAccess struct {
	Calendar
	Role          *string `db:"role"`
	OwnerUsername string  `db:"owner_username"`
}

type Participant struct {
	ID         uuid.UUID         `db:"id"`
	CalendarID uuid.UUID         `db:"calendar_id"`
	UserID     uuid.UUID         `db:"user_id"`
	Role       accessEntity.Role `db:"role"`
	CreatedAt  time.Time         `db:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at"`
}

type ParticipantDetail struct {
	Participant
	Username string `db:"username"`
	Email    string `db:"email"`
	FullName string `db:"full_name"`
}

type UserSummary struct {
	ID       uuid.UUID `db:"id"`
	Username string    `db:"username"`
	Email    string    `db:"email"`
	FullName string    `db:"full_name"`
}
